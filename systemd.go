package svcmgr

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/sirupsen/logrus"
)

// ManagerSystemd controls services through systemd. The descriptor is a unit
// file under UnitDir, created by Install, never partially patched, and
// deleted by Remove.
type ManagerSystemd struct {
	// SystemctlPath is the path to the systemctl binary
	SystemctlPath string
	// UnitDir is the directory where unit files are written
	UnitDir string
	// Runner executes native tool invocations
	Runner Runner
	// IsElevated reports whether the process holds root rights
	IsElevated func() bool
	// Log receives best-effort failure notices that are not propagated
	Log logrus.FieldLogger
}

// NewManagerSystemd creates a systemd-backed Manager with default settings
func NewManagerSystemd() *ManagerSystemd {
	return &ManagerSystemd{
		SystemctlPath: DefaultSystemctlPath,
		UnitDir:       DefaultUnitDir,
		Runner:        NewExecRunner(),
		IsElevated:    Elevated,
		Log:           logrus.StandardLogger(),
	}
}

// WithUnitDir sets the systemd unit directory
func (m *ManagerSystemd) WithUnitDir(dir string) *ManagerSystemd {
	m.UnitDir = dir
	return m
}

// WithRunner sets the Runner used for native tool invocations
func (m *ManagerSystemd) WithRunner(r Runner) *ManagerSystemd {
	m.Runner = r
	return m
}

// WithElevationCheck sets the privilege oracle
func (m *ManagerSystemd) WithElevationCheck(fn func() bool) *ManagerSystemd {
	m.IsElevated = fn
	return m
}

// WithLogger sets the logger for swallowed best-effort failures
func (m *ManagerSystemd) WithLogger(log logrus.FieldLogger) *ManagerSystemd {
	m.Log = log
	return m
}

// System identifies the backend's supervisor
func (m *ManagerSystemd) System() SystemType { return SystemSystemd }

// unitName appends the .service suffix systemctl expects
func (m *ManagerSystemd) unitName(name string) string {
	return name + ".service"
}

// descriptorPath is the unit file location derived from the service name
func (m *ManagerSystemd) descriptorPath(name string) string {
	return filepath.Join(m.UnitDir, m.unitName(name))
}

// Install writes the unit file, reloads systemd, and enables/starts the
// service when spec.AutoStart is set. An existing unit file fails the
// install rather than being overwritten; a concurrent second install loses.
func (m *ManagerSystemd) Install(ctx context.Context, spec Spec) error {
	if err := spec.Validate(); err != nil {
		return &OpError{Op: OpInstall, Name: spec.Name, Err: err}
	}
	if !m.IsElevated() {
		return &OpError{Op: OpInstall, Name: spec.Name, Err: ErrPermissionDenied}
	}

	unitPath := m.descriptorPath(spec.Name)
	if _, err := os.Lstat(unitPath); err == nil {
		return &OpError{Op: OpInstall, Name: spec.Name, Err: ErrAlreadyExists}
	}

	if err := renameio.WriteFile(unitPath, []byte(buildUnitFile(spec)), DescriptorMode); err != nil {
		return &OpError{Op: OpInstall, Name: spec.Name, Err: wrapIO(err)}
	}

	steps := [][]string{{"daemon-reload"}}
	if spec.AutoStart {
		steps = append(steps,
			[]string{"enable", m.unitName(spec.Name)},
			[]string{"start", m.unitName(spec.Name)},
		)
	}

	for _, args := range steps {
		res, err := m.Runner.Run(ctx, m.SystemctlPath, args...)
		if err == nil && res.ExitCode == 0 {
			continue
		}
		m.rollbackUnit(spec.Name, unitPath)
		if err != nil {
			return &OpError{Op: OpInstall, Name: spec.Name, Err: err}
		}
		return opFailed(OpInstall, spec.Name, res)
	}

	return nil
}

// rollbackUnit deletes a just-written unit file after a failed install step.
// Failures here are logged, not propagated, so the original error stays
// visible.
func (m *ManagerSystemd) rollbackUnit(name, unitPath string) {
	if err := os.Remove(unitPath); err != nil {
		m.Log.WithError(err).WithField("service", name).
			Warn("rollback of failed install did not complete")
	}
}

// Remove stops, disables, and deletes the service. Absent services are a
// no-op; stop and disable failures are ignored, a unit file that cannot be
// deleted yields ErrIO.
func (m *ManagerSystemd) Remove(ctx context.Context, name string) error {
	unitPath := m.descriptorPath(name)
	if _, err := os.Lstat(unitPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &OpError{Op: OpRemove, Name: name, Err: wrapIO(err)}
	}

	cleanup := &MultiError{}
	for _, args := range [][]string{
		{"stop", m.unitName(name)},
		{"disable", m.unitName(name)},
	} {
		if res, err := m.Runner.Run(ctx, m.SystemctlPath, args...); err != nil {
			cleanup.Add(err)
		} else if res.ExitCode != 0 {
			cleanup.Add(opFailed(OpRemove, name, res))
		}
	}
	if err := cleanup.Err(); err != nil {
		m.Log.WithError(err).WithField("service", name).
			Debug("stop/disable before unit removal failed; continuing")
	}

	if err := os.Remove(unitPath); err != nil {
		return &OpError{Op: OpRemove, Name: name, Err: wrapIO(err)}
	}

	if res, err := m.Runner.Run(ctx, m.SystemctlPath, "daemon-reload"); err != nil || res.ExitCode != 0 {
		m.Log.WithField("service", name).Debug("daemon-reload after unit removal failed")
	}
	return nil
}

// Start starts the service
func (m *ManagerSystemd) Start(ctx context.Context, name string) error {
	return m.control(ctx, OpStart, "start", name)
}

// Stop stops the service
func (m *ManagerSystemd) Stop(ctx context.Context, name string) error {
	return m.control(ctx, OpStop, "stop", name)
}

// Pause is not a systemd primitive
func (m *ManagerSystemd) Pause(_ context.Context, name string) error {
	return &OpError{Op: OpPause, Name: name, Err: ErrNotSupported}
}

// Resume is not a systemd primitive
func (m *ManagerSystemd) Resume(_ context.Context, name string) error {
	return &OpError{Op: OpResume, Name: name, Err: ErrNotSupported}
}

func (m *ManagerSystemd) control(ctx context.Context, op Operation, verb, name string) error {
	res, err := m.Runner.Run(ctx, m.SystemctlPath, verb, m.unitName(name))
	if err != nil {
		return &OpError{Op: op, Name: name, Err: err}
	}
	if res.ExitCode != 0 {
		return opFailed(op, name, res)
	}
	return nil
}

// Status runs systemctl is-active and normalizes the answer. Query failures
// degrade to StatusUnknown.
func (m *ManagerSystemd) Status(ctx context.Context, name string) (Status, error) {
	ctx, cancel := probeCtx(ctx)
	defer cancel()

	res, err := m.Runner.Run(ctx, m.SystemctlPath, "is-active", m.unitName(name))
	if err != nil {
		return StatusUnknown, nil
	}
	return parseSystemdActive(res.Stdout, res.ExitCode), nil
}

// PID reports the unit's MainPID from systemctl show, or 0
func (m *ManagerSystemd) PID(ctx context.Context, name string) (int, error) {
	ctx, cancel := probeCtx(ctx)
	defer cancel()

	res, err := m.Runner.Run(ctx, m.SystemctlPath, "show", "-p", "MainPID", "--value", m.unitName(name))
	if err != nil {
		return 0, &OpError{Op: OpStatus, Name: name, Err: err}
	}
	pid, err := strconv.Atoi(strings.TrimSpace(res.Stdout))
	if err != nil || pid < 0 {
		return 0, nil
	}
	return pid, nil
}

// parseSystemdActive maps systemctl is-active output onto the shared status
// vocabulary. is-active exits non-zero for anything that is not active, so
// the text decides; exit 0 confirms active even if the text is garbled.
func parseSystemdActive(output string, exitCode int) Status {
	switch strings.TrimSpace(output) {
	case "active":
		return StatusRunning
	case "inactive", "deactivating":
		return StatusStopped
	case "activating":
		return StatusInstalling
	case "failed":
		return StatusError
	case "unknown", "not-found":
		return StatusNotFound
	}
	if exitCode == 0 {
		return StatusRunning
	}
	return StatusUnknown
}
