package svcmgr

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// scNotFoundCode is the Win32 error the SCM reports for an unknown service
// (ERROR_SERVICE_DOES_NOT_EXIST).
const scNotFoundCode = "1060"

// ManagerSCM controls services through the Windows Service Control Manager
// by invoking the sc tool. The SCM keeps all state in its own database; this
// backend writes no descriptor file.
type ManagerSCM struct {
	// ScPath is the path to the sc tool
	ScPath string
	// Runner executes native tool invocations
	Runner Runner
	// IsElevated reports whether the process holds administrative rights
	IsElevated func() bool
	// Log receives best-effort failure notices that are not propagated
	Log logrus.FieldLogger
}

// NewManagerSCM creates an SCM-backed Manager with default settings
func NewManagerSCM() *ManagerSCM {
	return &ManagerSCM{
		ScPath:     DefaultScPath,
		Runner:     NewExecRunner(),
		IsElevated: Elevated,
		Log:        logrus.StandardLogger(),
	}
}

// WithRunner sets the Runner used for native tool invocations
func (m *ManagerSCM) WithRunner(r Runner) *ManagerSCM {
	m.Runner = r
	return m
}

// WithElevationCheck sets the privilege oracle
func (m *ManagerSCM) WithElevationCheck(fn func() bool) *ManagerSCM {
	m.IsElevated = fn
	return m
}

// WithLogger sets the logger for swallowed best-effort failures
func (m *ManagerSCM) WithLogger(log logrus.FieldLogger) *ManagerSCM {
	m.Log = log
	return m
}

// System identifies the backend's supervisor
func (m *ManagerSCM) System() SystemType { return SystemSCM }

// Install registers the service in the SCM database and starts it when
// spec.AutoStart is set. Environment variables are not expressible through
// sc create; they are logged and dropped rather than failing the install.
func (m *ManagerSCM) Install(ctx context.Context, spec Spec) error {
	if err := spec.Validate(); err != nil {
		return &OpError{Op: OpInstall, Name: spec.Name, Err: err}
	}
	if !m.IsElevated() {
		return &OpError{Op: OpInstall, Name: spec.Name, Err: ErrPermissionDenied}
	}

	st, err := m.Status(ctx, spec.Name)
	if err != nil {
		return &OpError{Op: OpInstall, Name: spec.Name, Err: err}
	}
	if st != StatusNotFound {
		return &OpError{Op: OpInstall, Name: spec.Name, Err: ErrAlreadyExists}
	}

	if len(spec.Env) > 0 {
		m.Log.WithField("service", spec.Name).
			Warn("environment variables are not supported by the SCM backend; ignoring")
	}

	startMode := "demand"
	if spec.AutoStart {
		startMode = "auto"
	}

	// sc's parser wants the space after "binPath=" and "start=".
	res, err := m.Runner.Run(ctx, m.ScPath,
		"create", spec.Name,
		"binPath=", binPathCommandLine(spec),
		"start=", startMode,
	)
	if err != nil {
		return &OpError{Op: OpInstall, Name: spec.Name, Err: err}
	}
	if res.ExitCode != 0 {
		return opFailed(OpInstall, spec.Name, res)
	}

	if spec.Description != "" {
		if err := m.postCreate(ctx, spec.Name, "description", spec.Name, spec.Description); err != nil {
			return err
		}
	}

	if spec.AutoStart {
		if err := m.postCreate(ctx, spec.Name, "start", spec.Name); err != nil {
			return err
		}
	}

	return nil
}

// postCreate runs a follow-up sc verb after a successful create. On failure
// the fresh registration is rolled back best-effort so a failed install does
// not leave a half-configured service behind.
func (m *ManagerSCM) postCreate(ctx context.Context, name, verb string, args ...string) error {
	res, err := m.Runner.Run(ctx, m.ScPath, append([]string{verb}, args...)...)
	if err == nil && res.ExitCode == 0 {
		return nil
	}

	if _, rbErr := m.Runner.Run(ctx, m.ScPath, "delete", name); rbErr != nil {
		m.Log.WithError(rbErr).WithField("service", name).
			Warn("rollback of failed install did not complete")
	}

	if err != nil {
		return &OpError{Op: OpInstall, Name: name, Err: err}
	}
	return opFailed(OpInstall, name, res)
}

// Remove unregisters the service. Absent services are a no-op; a stop
// failure is ignored.
func (m *ManagerSCM) Remove(ctx context.Context, name string) error {
	st, err := m.Status(ctx, name)
	if err != nil {
		return &OpError{Op: OpRemove, Name: name, Err: err}
	}
	if st == StatusNotFound {
		return nil
	}

	if res, err := m.Runner.Run(ctx, m.ScPath, "stop", name); err != nil || res.ExitCode != 0 {
		m.Log.WithField("service", name).Debug("stop before delete failed; continuing")
	}

	res, err := m.Runner.Run(ctx, m.ScPath, "delete", name)
	if err != nil {
		return &OpError{Op: OpRemove, Name: name, Err: err}
	}
	if res.ExitCode != 0 {
		return opFailed(OpRemove, name, res)
	}
	return nil
}

// Start starts the service
func (m *ManagerSCM) Start(ctx context.Context, name string) error {
	return m.control(ctx, OpStart, "start", name)
}

// Stop stops the service
func (m *ManagerSCM) Stop(ctx context.Context, name string) error {
	return m.control(ctx, OpStop, "stop", name)
}

// Pause pauses the service
func (m *ManagerSCM) Pause(ctx context.Context, name string) error {
	return m.control(ctx, OpPause, "pause", name)
}

// Resume resumes a paused service
func (m *ManagerSCM) Resume(ctx context.Context, name string) error {
	return m.control(ctx, OpResume, "continue", name)
}

func (m *ManagerSCM) control(ctx context.Context, op Operation, verb, name string) error {
	res, err := m.Runner.Run(ctx, m.ScPath, verb, name)
	if err != nil {
		return &OpError{Op: op, Name: name, Err: err}
	}
	if res.ExitCode != 0 {
		return opFailed(op, name, res)
	}
	return nil
}

// Status queries the SCM and normalizes the reported state. Query failures
// degrade to StatusUnknown; an unknown service is StatusNotFound.
func (m *ManagerSCM) Status(ctx context.Context, name string) (Status, error) {
	ctx, cancel := probeCtx(ctx)
	defer cancel()

	res, err := m.Runner.Run(ctx, m.ScPath, "query", name)
	if err != nil {
		return StatusUnknown, nil
	}
	return parseSCMState(res.Stdout+res.Stderr, res.ExitCode), nil
}

// PID reports the service's main process ID from sc queryex, or 0
func (m *ManagerSCM) PID(ctx context.Context, name string) (int, error) {
	ctx, cancel := probeCtx(ctx)
	defer cancel()

	res, err := m.Runner.Run(ctx, m.ScPath, "queryex", name)
	if err != nil {
		return 0, &OpError{Op: OpStatus, Name: name, Err: err}
	}
	if res.ExitCode != 0 {
		return 0, nil
	}
	for _, line := range strings.Split(res.Stdout, "\n") {
		if !strings.Contains(line, "PID") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if pid, err := strconv.Atoi(fields[len(fields)-1]); err == nil {
			return pid, nil
		}
	}
	return 0, nil
}

// parseSCMState maps sc query output onto the shared status vocabulary.
// Exit code 1060 (service does not exist) is reported as StatusNotFound;
// other non-zero exits are StatusError. On success the STATE token decides.
func parseSCMState(output string, exitCode int) Status {
	if exitCode != 0 {
		if strings.Contains(output, scNotFoundCode) {
			return StatusNotFound
		}
		return StatusError
	}

	// The STATE line looks like "STATE : 4  RUNNING"; scanning tokens also
	// covers localized spacing and bare state words.
	for _, tok := range strings.Fields(strings.ReplaceAll(output, ":", " ")) {
		switch tok {
		case "RUNNING", "CONTINUE_PENDING":
			return StatusRunning
		case "STOPPED", "STOP_PENDING":
			return StatusStopped
		case "START_PENDING":
			return StatusInstalling
		case "PAUSED", "PAUSE_PENDING":
			return StatusPaused
		}
	}
	return StatusUnknown
}

// binPathCommandLine builds the quoted command line embedded in the SCM
// registration: the executable path followed by the service arguments, each
// token quoted when it contains a space or quote, with embedded quotes
// escaped.
func binPathCommandLine(spec Spec) string {
	parts := make([]string, 0, 1+len(spec.Args))
	for _, tok := range spec.commandLine() {
		parts = append(parts, quoteWindowsArg(tok))
	}
	return strings.Join(parts, " ")
}

// quoteWindowsArg wraps a token in double quotes when needed, backslash
// escaping embedded quotes so a shell-style tokenizer recovers the original.
func quoteWindowsArg(tok string) string {
	if tok != "" && !strings.ContainsAny(tok, " \t\"") {
		return tok
	}
	return `"` + strings.ReplaceAll(tok, `"`, `\"`) + `"`
}
