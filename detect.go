package svcmgr

// ExecContext classifies how the current process was launched. It is derived
// fresh on every call, never stored: session and environment markers cannot
// change within a process lifetime, but caching them would hide a forced
// override set between calls in tests.
type ExecContext int

const (
	// ContextInteractive indicates a user console with no supervisor markers
	ContextInteractive ExecContext = iota
	// ContextSupervised indicates the process is confirmed to run under a
	// service supervisor, or was explicitly forced to behave as if it does
	ContextSupervised
	// ContextHeadlessUnknown indicates no terminal and no supervisor marker.
	// Unix-like platforms treat this as supervised downstream so a
	// non-interactive service start is never blocked; a piped interactive
	// session will be misclassified, which is the accepted trade-off.
	ContextHeadlessUnknown
)

// ExecContext string constants
const (
	contextInteractiveStr = "interactive"
	contextSupervisedStr  = "supervised"
	contextHeadlessStr    = "headless-unknown"
)

// String returns the string representation of the execution context
func (c ExecContext) String() string {
	switch c {
	case ContextSupervised:
		return contextSupervisedStr
	case ContextHeadlessUnknown:
		return contextHeadlessStr
	default:
		return contextInteractiveStr
	}
}

// DetectContext determines the execution context of the current process.
// The default is ContextInteractive whenever nothing indicates otherwise:
// informing a user beats silently blocking one.
func DetectContext() ExecContext {
	return detectContext()
}
