//go:build !windows

package svcmgr

import (
	"os"

	"github.com/mattn/go-isatty"
)

// Supervisor-characteristic environment markers. systemd sets INVOCATION_ID
// and JOURNAL_STREAM for units it starts; launchd sets XPC_SERVICE_NAME for
// its jobs (the placeholder value "0" appears for plain shells and does not
// count).
const (
	systemdInvocationEnv = "INVOCATION_ID"
	systemdJournalEnv    = "JOURNAL_STREAM"
	launchdServiceEnv    = "XPC_SERVICE_NAME"
)

func detectContext() ExecContext {
	if os.Getenv(ForceSupervisedEnv) != "" {
		return ContextSupervised
	}

	if os.Getenv(systemdInvocationEnv) != "" || os.Getenv(systemdJournalEnv) != "" {
		return ContextSupervised
	}
	if v := os.Getenv(launchdServiceEnv); v != "" && v != "0" {
		return ContextSupervised
	}

	if !anyStdStreamIsTTY() {
		return ContextHeadlessUnknown
	}
	return ContextInteractive
}

// anyStdStreamIsTTY reports whether any of the three standard streams is
// attached to a controlling terminal.
func anyStdStreamIsTTY() bool {
	for _, f := range []*os.File{os.Stdin, os.Stdout, os.Stderr} {
		if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
			return true
		}
	}
	return false
}
