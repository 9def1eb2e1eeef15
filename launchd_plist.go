package svcmgr

import (
	"fmt"
	"strings"
)

// plistHeader is the fixed preamble launchd and plutil expect
const plistHeader = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
`

// buildLaunchdPlist generates the launchd property list for a spec. Every
// interpolated string is XML entity escaped so arbitrary paths, arguments,
// and descriptions cannot break the document.
func buildLaunchdPlist(spec Spec) string {
	var b strings.Builder
	b.WriteString(plistHeader)

	writeKey := func(key, value string) {
		b.WriteString(fmt.Sprintf("\t<key>%s</key>\n\t<string>%s</string>\n",
			xmlEscape(key), xmlEscape(value)))
	}

	b.WriteString(fmt.Sprintf("\t<key>Label</key>\n\t<string>%s</string>\n", xmlEscape(spec.Name)))

	b.WriteString("\t<key>ProgramArguments</key>\n\t<array>\n")
	for _, tok := range spec.commandLine() {
		b.WriteString(fmt.Sprintf("\t\t<string>%s</string>\n", xmlEscape(tok)))
	}
	b.WriteString("\t</array>\n")

	if spec.WorkingDir != "" {
		writeKey("WorkingDirectory", spec.WorkingDir)
	}

	b.WriteString(fmt.Sprintf("\t<key>RunAtLoad</key>\n\t<%t/>\n", spec.AutoStart))

	// Restart on abnormal exit only, mirroring systemd's Restart=on-failure
	b.WriteString("\t<key>KeepAlive</key>\n\t<dict>\n")
	b.WriteString("\t\t<key>SuccessfulExit</key>\n\t\t<false/>\n")
	b.WriteString("\t</dict>\n")

	if len(spec.Env) > 0 {
		b.WriteString("\t<key>EnvironmentVariables</key>\n\t<dict>\n")
		for _, key := range sortedKeys(spec.Env) {
			b.WriteString(fmt.Sprintf("\t\t<key>%s</key>\n\t\t<string>%s</string>\n",
				xmlEscape(key), xmlEscape(spec.Env[key])))
		}
		b.WriteString("\t</dict>\n")
	}

	writeKey("StandardOutPath", fmt.Sprintf("/var/log/%s.out.log", spec.Name))
	writeKey("StandardErrorPath", fmt.Sprintf("/var/log/%s.err.log", spec.Name))
	writeKey("ProcessType", "Background")

	if spec.Description != "" {
		writeKey("Comment", spec.Description)
	}

	b.WriteString("</dict>\n</plist>\n")
	return b.String()
}

// xmlEscape entity-escapes the five XML special characters
func xmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
