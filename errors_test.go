package svcmgr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestOpError(t *testing.T) {
	err := &OpError{Op: OpInstall, Name: "demo", Err: ErrPermissionDenied}

	if !errors.Is(err, ErrPermissionDenied) {
		t.Error("OpError did not unwrap to its cause")
	}
	msg := err.Error()
	for _, want := range []string{"install", `"demo"`, "permission denied"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message %q missing %q", msg, want)
		}
	}
}

func TestOpFailedCarriesDiagnostics(t *testing.T) {
	err := opFailed(OpStart, "demo", ExecResult{ExitCode: 5, Stderr: "Access is denied."})

	if !errors.Is(err, ErrOperationFailed) {
		t.Error("opFailed did not wrap ErrOperationFailed")
	}
	if !strings.Contains(err.Error(), "Access is denied.") {
		t.Errorf("error message %q missing the captured stderr", err.Error())
	}
	if !strings.Contains(err.Error(), "exit 5") {
		t.Errorf("error message %q missing the exit code", err.Error())
	}
}

func TestOpFailedFallsBackToStdout(t *testing.T) {
	err := opFailed(OpStop, "demo", ExecResult{ExitCode: 1, Stdout: "some stdout detail"})
	if !strings.Contains(err.Error(), "some stdout detail") {
		t.Errorf("error message %q missing the captured stdout", err.Error())
	}
}

func TestWrapIO(t *testing.T) {
	err := wrapIO(fmt.Errorf("disk full"))
	if !errors.Is(err, ErrIO) {
		t.Errorf("wrapIO did not wrap ErrIO: %v", err)
	}
}

func TestMultiError(t *testing.T) {
	m := &MultiError{}
	if m.Err() != nil {
		t.Error("empty MultiError must report nil")
	}

	m.Add(nil)
	if m.Err() != nil {
		t.Error("adding nil must not count as an error")
	}

	m.Add(errors.New("first"))
	if m.Err() == nil {
		t.Fatal("MultiError with one error must be non-nil")
	}
	if m.Error() != "first" {
		t.Errorf("single error message = %q, want %q", m.Error(), "first")
	}

	m.Add(errors.New("second"))
	if m.Error() != "2 errors occurred" {
		t.Errorf("multi error message = %q", m.Error())
	}
}

func TestOperationString(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpUnknown, "unknown"},
		{OpInstall, "install"},
		{OpRemove, "remove"},
		{OpStart, "start"},
		{OpStop, "stop"},
		{OpPause, "pause"},
		{OpResume, "resume"},
		{OpStatus, "status"},
		{OpWatch, "watch"},
		{OpExec, "exec"},
	}

	for _, tc := range tests {
		if got := tc.op.String(); got != tc.want {
			t.Errorf("Operation(%d).String() = %q, want %q", tc.op, got, tc.want)
		}
	}
}
