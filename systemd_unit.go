package svcmgr

import (
	"fmt"
	"sort"
	"strings"
)

// buildUnitFile generates the systemd unit file for a spec. The output is the
// supervisor's on-disk contract; operator tooling (systemctl cat, editors)
// reads it back, so the layout is kept stable.
//
// Escaping is minimal on purpose: double quotes in interpolated values are
// backslash-escaped and nothing else is rewritten. Values must not contain
// unit-file-breaking characters such as raw newlines.
func buildUnitFile(spec Spec) string {
	var unit strings.Builder

	description := spec.Description
	if description == "" {
		description = spec.Name + " service"
	}

	unit.WriteString("[Unit]\n")
	unit.WriteString(fmt.Sprintf("Description=%s\n", escapeUnitValue(description)))
	unit.WriteString("After=network.target\n")
	unit.WriteString("\n")

	unit.WriteString("[Service]\n")
	unit.WriteString("Type=simple\n")
	unit.WriteString(fmt.Sprintf("ExecStart=%s\n", execStartLine(spec)))
	if spec.WorkingDir != "" {
		unit.WriteString(fmt.Sprintf("WorkingDirectory=%s\n", escapeUnitValue(spec.WorkingDir)))
	}
	unit.WriteString("Restart=on-failure\n")
	unit.WriteString("RestartSec=5\n")
	for _, key := range sortedKeys(spec.Env) {
		unit.WriteString(fmt.Sprintf("Environment=\"%s=%s\"\n",
			escapeUnitValue(key), escapeUnitValue(spec.Env[key])))
	}
	unit.WriteString("\n")

	unit.WriteString("[Install]\n")
	unit.WriteString("WantedBy=multi-user.target\n")

	return unit.String()
}

// execStartLine joins the executable and arguments, quoting only the tokens
// that need it so simple invocations stay byte-identical to what an operator
// would write by hand.
func execStartLine(spec Spec) string {
	parts := make([]string, 0, 1+len(spec.Args))
	for _, tok := range spec.commandLine() {
		if tok == "" || strings.ContainsAny(tok, " \t\"") {
			tok = `"` + escapeUnitValue(tok) + `"`
		}
		parts = append(parts, tok)
	}
	return strings.Join(parts, " ")
}

// escapeUnitValue backslash-escapes double quotes in an interpolated value
func escapeUnitValue(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// sortedKeys returns map keys in a stable order so generated descriptors are
// reproducible.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
