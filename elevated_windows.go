//go:build windows

package svcmgr

import "golang.org/x/sys/windows"

// Elevated reports whether the current process token carries administrative
// rights.
func Elevated() bool {
	return windows.GetCurrentProcessToken().IsElevated()
}
