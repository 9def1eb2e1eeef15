//go:build windows

package svcmgr

import "os/exec"

// setProcGroup is a no-op on Windows; sc.exe does not fork helpers that
// outlive it.
func setProcGroup(_ *exec.Cmd) {}

// killProcTree kills the child process
func killProcTree(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}
