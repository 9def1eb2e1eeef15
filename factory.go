package svcmgr

import (
	"fmt"
	"runtime"
)

// SystemType identifies a native service supervisor
type SystemType int

const (
	// SystemUnknown represents an unrecognized supervisor
	SystemUnknown SystemType = iota
	// SystemSCM represents the Windows Service Control Manager
	SystemSCM
	// SystemSystemd represents Linux systemd
	SystemSystemd
	// SystemLaunchd represents macOS launchd
	SystemLaunchd
)

// SystemType string constants
const (
	systemUnknownStr = "unknown"
	systemSCMStr     = "scm"
	systemSystemdStr = "systemd"
	systemLaunchdStr = "launchd"
)

// String returns the string representation of SystemType
func (st SystemType) String() string {
	switch st {
	case SystemSCM:
		return systemSCMStr
	case SystemSystemd:
		return systemSystemdStr
	case SystemLaunchd:
		return systemLaunchdStr
	default:
		return systemUnknownStr
	}
}

// HostSystem reports the supervisor native to the host operating system
func HostSystem() SystemType {
	switch runtime.GOOS {
	case "windows":
		return SystemSCM
	case "linux":
		return SystemSystemd
	case "darwin":
		return SystemLaunchd
	default:
		return SystemUnknown
	}
}

// New creates the Manager backend matching the host operating system
func New() (Manager, error) {
	return NewForSystem(HostSystem())
}

// NewForSystem creates the Manager backend for an explicit supervisor.
// Callers normally use New; tests and cross-platform tooling pick a backend
// directly.
func NewForSystem(st SystemType) (Manager, error) {
	switch st {
	case SystemSCM:
		return NewManagerSCM(), nil
	case SystemSystemd:
		return NewManagerSystemd(), nil
	case SystemLaunchd:
		return NewManagerLaunchd(), nil
	default:
		return nil, fmt.Errorf("%w: no service manager for %s/%s", ErrNotSupported, runtime.GOOS, st)
	}
}
