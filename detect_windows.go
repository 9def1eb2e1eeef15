//go:build windows

package svcmgr

import (
	"os"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/svc"
)

// Services run in session 0; interactive logons never do. The session check
// covers processes started by the SCM before svc.Run has been entered, the
// svc probe covers everything else.
func detectContext() ExecContext {
	if os.Getenv(ForceSupervisedEnv) != "" {
		return ContextSupervised
	}

	if isService, err := svc.IsWindowsService(); err == nil && isService {
		return ContextSupervised
	}

	var session uint32
	if err := windows.ProcessIdToSessionId(windows.GetCurrentProcessId(), &session); err == nil && session == 0 {
		return ContextSupervised
	}

	return ContextInteractive
}
