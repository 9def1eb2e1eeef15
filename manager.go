package svcmgr

import "context"

// Manager is the uniform lifecycle contract implemented by all three
// backends. Each call is independent; nothing is cached across operations,
// and no two lifecycle operations are expected to run concurrently within
// one process.
type Manager interface {
	// Install registers the service described by spec and, if spec.AutoStart,
	// starts it. It fails with ErrInvalidArgument for an empty name or
	// executable path, ErrAlreadyExists if a registration or descriptor for
	// the name is already present, and ErrPermissionDenied when the process
	// is not elevated.
	Install(ctx context.Context, spec Spec) error

	// Remove unregisters the service. It is an idempotent no-op when the
	// service is absent; stop failures during removal are ignored. A
	// descriptor file that cannot be deleted yields ErrIO.
	Remove(ctx context.Context, name string) error

	// Start starts the service via the native supervisor
	Start(ctx context.Context, name string) error

	// Stop stops the service via the native supervisor
	Stop(ctx context.Context, name string) error

	// Pause pauses the service. Only the Windows SCM exposes this
	// primitive; other backends fail with ErrNotSupported.
	Pause(ctx context.Context, name string) error

	// Resume resumes a paused service. Only the Windows SCM exposes this
	// primitive; other backends fail with ErrNotSupported.
	Resume(ctx context.Context, name string) error

	// Status reports the normalized service status. It is a pure read: it
	// never mutates state and never fails for a missing service, returning
	// StatusNotFound instead.
	Status(ctx context.Context, name string) (Status, error)

	// PID reports the supervisor-recorded main process ID, or 0 when the
	// service is not running
	PID(ctx context.Context, name string) (int, error)

	// System identifies the backend's supervisor
	System() SystemType
}
