package svcmgr

import "fmt"

// Spec describes a service installation. It is treated as an immutable value:
// install consumes it whole and never patches an existing registration.
type Spec struct {
	// Name is the supervisor-facing service name and the descriptor file stem
	Name string
	// ExecPath is the absolute path to the binary the supervisor runs
	ExecPath string
	// Description is optional human-readable text
	Description string
	// WorkingDir is the working directory for the service process
	WorkingDir string
	// Env contains environment variables for the service process. Keys are
	// unique, order is irrelevant. Not every backend supports this.
	Env map[string]string
	// Args are appended to the invocation in order
	Args []string
	// AutoStart registers the service for start-at-boot and starts it
	// immediately after install
	AutoStart bool
}

// Validate reports whether the spec is usable for an install
func (s Spec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: service name is empty", ErrInvalidArgument)
	}
	if s.ExecPath == "" {
		return fmt.Errorf("%w: executable path is empty", ErrInvalidArgument)
	}
	return nil
}

// commandLine returns the executable path followed by the service arguments
func (s Spec) commandLine() []string {
	return append([]string{s.ExecPath}, s.Args...)
}
