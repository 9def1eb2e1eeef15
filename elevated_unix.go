//go:build !windows

package svcmgr

import "os"

// Elevated reports whether the current process runs as root
func Elevated() bool {
	return os.Geteuid() == 0
}
