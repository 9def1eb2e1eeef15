package svcmgr

// Version is the current version of the svcmgr library
const Version = "1.0.0"

// VersionInfo contains detailed version information
type VersionInfo struct {
	// Version is the semantic version
	Version string
	// Backends lists the supervisor backends this build can drive
	Backends []string
}

// GetVersion returns the current version information
func GetVersion() VersionInfo {
	return VersionInfo{
		Version:  Version,
		Backends: []string{"scm", "systemd", "launchd"},
	}
}
