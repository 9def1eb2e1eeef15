package svcmgr

import (
	"errors"
	"fmt"
)

// Common errors returned by service manager operations
var (
	// ErrInvalidArgument indicates a malformed input to an operation
	ErrInvalidArgument = errors.New("svcmgr: invalid argument")

	// ErrAlreadyExists indicates an install over an existing registration
	ErrAlreadyExists = errors.New("svcmgr: service already exists")

	// ErrNotFound indicates an operation on a service that is not registered
	ErrNotFound = errors.New("svcmgr: service not found")

	// ErrPermissionDenied indicates the process lacks elevation for the operation
	ErrPermissionDenied = errors.New("svcmgr: permission denied (run elevated)")

	// ErrNotSupported indicates the backend lacks the native primitive
	ErrNotSupported = errors.New("svcmgr: operation not supported on this backend")

	// ErrOperationFailed indicates the native tool returned a non-zero exit
	ErrOperationFailed = errors.New("svcmgr: native tool failed")

	// ErrIO indicates a descriptor file write or delete failure
	ErrIO = errors.New("svcmgr: descriptor i/o")

	// ErrTimeout indicates a native call exceeded its bound
	ErrTimeout = errors.New("svcmgr: timeout")
)

// OpError represents an error from a service manager operation
type OpError struct {
	// Op is the operation that failed
	Op Operation
	// Name is the service name involved in the operation
	Name string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *OpError) Error() string {
	return fmt.Sprintf("svcmgr %s %q: %v", e.Op.String(), e.Name, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *OpError) Unwrap() error {
	return e.Err
}

// opFailed wraps a native tool failure, attaching the captured diagnostic text
func opFailed(op Operation, name string, res ExecResult) *OpError {
	diag := res.Stderr
	if diag == "" {
		diag = res.Stdout
	}
	return &OpError{Op: op, Name: name, Err: fmt.Errorf("%w: exit %d: %s", ErrOperationFailed, res.ExitCode, diag)}
}

// wrapIO marks a descriptor read/write/delete failure
func wrapIO(err error) error {
	return fmt.Errorf("%w: %v", ErrIO, err)
}

// MultiError aggregates multiple errors from best-effort cleanup paths
type MultiError struct {
	// Errors contains all accumulated errors
	Errors []error
}

// Error returns a summary of the accumulated errors
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred", len(m.Errors))
}

// Add appends an error to the collection if it's not nil
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Err returns nil if no errors occurred, otherwise returns the MultiError itself
func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}
