package svcmgr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ExecResult carries the exit code and captured streams of a native tool run.
// A non-zero exit code is data, not an error: the backends decide what it
// means (a missing service, a refused operation, a state token).
type ExecResult struct {
	// ExitCode is the process exit code (0 on success)
	ExitCode int
	// Stdout is the captured standard output
	Stdout string
	// Stderr is the captured standard error
	Stderr string
}

// Runner executes a named program with an argument list under a deadline.
// Backends depend on this interface rather than os/exec so tests can inject
// canned supervisor responses.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (ExecResult, error)
}

// ExecRunner is the default Runner built on exec.CommandContext. Each call is
// bounded by Timeout; on expiry the child process and its descendants are
// forcibly terminated and ErrTimeout is returned.
type ExecRunner struct {
	// Timeout bounds each call. Zero means DefaultRunTimeout.
	Timeout time.Duration
}

// NewExecRunner creates an ExecRunner with the default timeout
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Timeout: DefaultRunTimeout}
}

// WithTimeout sets the per-call timeout
func (r *ExecRunner) WithTimeout(d time.Duration) *ExecRunner {
	r.Timeout = d
	return r
}

// probeCtx bounds a read-only existence or status query more tightly than a
// mutating operation.
func probeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultProbeTimeout)
}

// Run executes the program and captures its streams. Non-zero exits are
// reported through ExecResult.ExitCode with a nil error; only failures to
// launch, cancellation, and timeouts produce errors.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (ExecResult, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	setProcGroup(cmd)
	cmd.Cancel = func() error { return killProcTree(cmd) }
	cmd.WaitDelay = 3 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := ExecResult{Stdout: stdout.String(), Stderr: stderr.String()}

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return res, fmt.Errorf("%w: %s did not finish within %s", ErrTimeout, name, timeout)
		}
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, fmt.Errorf("running %s: %w", name, err)
	}

	return res, nil
}
