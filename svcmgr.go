package svcmgr

import "time"

// Default bounds for native tool invocations and host shutdown
const (
	// DefaultRunTimeout is the default timeout for generic native tool calls
	DefaultRunTimeout = 60 * time.Second

	// DefaultProbeTimeout is the shorter bound used for existence/status checks
	DefaultProbeTimeout = 15 * time.Second

	// DefaultStopGrace is the grace period given to the worker between the
	// stop signal and forced termination
	DefaultStopGrace = 10 * time.Second

	// DefaultWaitInterval is the polling interval used by WaitForStatus
	DefaultWaitInterval = 300 * time.Millisecond

	// DefaultWatchDebounce is the debounce time for descriptor file watching
	DefaultWatchDebounce = 25 * time.Millisecond
)

// Native tool paths with defaults that can be overridden per manager
const (
	// DefaultScPath is the default path to the Windows sc tool
	DefaultScPath = "sc"

	// DefaultSystemctlPath is the default path to the systemctl binary
	DefaultSystemctlPath = "systemctl"

	// DefaultLaunchctlPath is the default path to the launchctl binary
	DefaultLaunchctlPath = "launchctl"
)

// Descriptor locations and modes
const (
	// DefaultUnitDir is where systemd unit files are written
	DefaultUnitDir = "/etc/systemd/system"

	// DefaultDaemonsDir is where system-level launchd plists are written
	DefaultDaemonsDir = "/Library/LaunchDaemons"

	// DefaultAgentsDir is where user-level launchd plists are written,
	// relative to the user's home directory
	DefaultAgentsDir = "Library/LaunchAgents"

	// DescriptorMode is the file mode for written descriptors
	DescriptorMode = 0o644
)

// ForceSupervisedEnv is the environment variable that, when set to a
// non-empty value, forces the execution context detector to report a
// supervised context. Read-only from the library's perspective; hosts set it
// in descriptors or test harnesses.
const ForceSupervisedEnv = "SVCMGR_FORCE_SERVICE"

// Operation identifies a service manager operation for error reporting
type Operation int

const (
	// OpUnknown represents an unknown operation
	OpUnknown Operation = iota
	// OpInstall registers the service with the supervisor
	OpInstall
	// OpRemove unregisters the service
	OpRemove
	// OpStart starts the service
	OpStart
	// OpStop stops the service
	OpStop
	// OpPause pauses the service
	OpPause
	// OpResume resumes a paused service
	OpResume
	// OpStatus queries the service status
	OpStatus
	// OpWatch watches the service descriptor
	OpWatch
	// OpExec runs a native supervisor tool
	OpExec
)

// Operation string constants
const (
	opUnknownStr = "unknown"
	opInstallStr = "install"
	opRemoveStr  = "remove"
	opStartStr   = "start"
	opStopStr    = "stop"
	opPauseStr   = "pause"
	opResumeStr  = "resume"
	opStatusStr  = "status"
	opWatchStr   = "watch"
	opExecStr    = "exec"
)

// String returns the string representation of an Operation
func (op Operation) String() string {
	switch op {
	case OpInstall:
		return opInstallStr
	case OpRemove:
		return opRemoveStr
	case OpStart:
		return opStartStr
	case OpStop:
		return opStopStr
	case OpPause:
		return opPauseStr
	case OpResume:
		return opResumeStr
	case OpStatus:
		return opStatusStr
	case OpWatch:
		return opWatchStr
	case OpExec:
		return opExecStr
	default:
		return opUnknownStr
	}
}
