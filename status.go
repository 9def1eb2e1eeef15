package svcmgr

// Status is the shared status vocabulary across all three backends. Every
// backend maps its native states onto exactly one of these values; no backend
// returns anything outside this set.
type Status int

const (
	// StatusUnknown indicates the native output could not be interpreted
	StatusUnknown Status = iota
	// StatusNotFound indicates no registration exists for the service name
	StatusNotFound
	// StatusInstalling indicates the supervisor is still bringing the service up
	StatusInstalling
	// StatusStopped indicates the service is registered but not running
	StatusStopped
	// StatusRunning indicates the service is running
	StatusRunning
	// StatusPaused indicates the service is paused (Windows only)
	StatusPaused
	// StatusError indicates the supervisor reports a failed service
	StatusError
)

// Status string constants
const (
	statusUnknownStr    = "unknown"
	statusNotFoundStr   = "not-found"
	statusInstallingStr = "installing"
	statusStoppedStr    = "stopped"
	statusRunningStr    = "running"
	statusPausedStr     = "paused"
	statusErrorStr      = "error"
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusNotFound:
		return statusNotFoundStr
	case StatusInstalling:
		return statusInstallingStr
	case StatusStopped:
		return statusStoppedStr
	case StatusRunning:
		return statusRunningStr
	case StatusPaused:
		return statusPausedStr
	case StatusError:
		return statusErrorStr
	default:
		return statusUnknownStr
	}
}
