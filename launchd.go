package svcmgr

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/sirupsen/logrus"
)

// ManagerLaunchd controls services through macOS launchd. The descriptor is
// a property list under DaemonsDir (system level) or the user's LaunchAgents
// directory (user level), created by Install and deleted by Remove.
type ManagerLaunchd struct {
	// LaunchctlPath is the path to the launchctl binary
	LaunchctlPath string
	// DaemonsDir is where system-level plists are written
	DaemonsDir string
	// UserLevel installs under ~/Library/LaunchAgents instead of
	// DaemonsDir and skips the elevation requirement
	UserLevel bool
	// Runner executes native tool invocations
	Runner Runner
	// IsElevated reports whether the process holds root rights
	IsElevated func() bool
	// Log receives best-effort failure notices that are not propagated
	Log logrus.FieldLogger
}

// NewManagerLaunchd creates a launchd-backed Manager with default settings
func NewManagerLaunchd() *ManagerLaunchd {
	return &ManagerLaunchd{
		LaunchctlPath: DefaultLaunchctlPath,
		DaemonsDir:    DefaultDaemonsDir,
		Runner:        NewExecRunner(),
		IsElevated:    Elevated,
		Log:           logrus.StandardLogger(),
	}
}

// WithDaemonsDir sets the system-level plist directory
func (m *ManagerLaunchd) WithDaemonsDir(dir string) *ManagerLaunchd {
	m.DaemonsDir = dir
	return m
}

// WithUserLevel switches to user-level LaunchAgents installation
func (m *ManagerLaunchd) WithUserLevel(user bool) *ManagerLaunchd {
	m.UserLevel = user
	return m
}

// WithRunner sets the Runner used for native tool invocations
func (m *ManagerLaunchd) WithRunner(r Runner) *ManagerLaunchd {
	m.Runner = r
	return m
}

// WithElevationCheck sets the privilege oracle
func (m *ManagerLaunchd) WithElevationCheck(fn func() bool) *ManagerLaunchd {
	m.IsElevated = fn
	return m
}

// WithLogger sets the logger for swallowed best-effort failures
func (m *ManagerLaunchd) WithLogger(log logrus.FieldLogger) *ManagerLaunchd {
	m.Log = log
	return m
}

// System identifies the backend's supervisor
func (m *ManagerLaunchd) System() SystemType { return SystemLaunchd }

// descriptorPath is the plist location derived from the service name and
// install level.
func (m *ManagerLaunchd) descriptorPath(name string) string {
	if m.UserLevel {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, DefaultAgentsDir, name+".plist")
		}
	}
	return filepath.Join(m.DaemonsDir, name+".plist")
}

// Install writes the plist and loads it into launchd, starting the service
// when spec.AutoStart is set. An existing plist fails the install rather
// than being overwritten.
func (m *ManagerLaunchd) Install(ctx context.Context, spec Spec) error {
	if err := spec.Validate(); err != nil {
		return &OpError{Op: OpInstall, Name: spec.Name, Err: err}
	}
	if !m.UserLevel && !m.IsElevated() {
		return &OpError{Op: OpInstall, Name: spec.Name, Err: ErrPermissionDenied}
	}

	plistPath := m.descriptorPath(spec.Name)
	if _, err := os.Lstat(plistPath); err == nil {
		return &OpError{Op: OpInstall, Name: spec.Name, Err: ErrAlreadyExists}
	}

	if err := renameio.WriteFile(plistPath, []byte(buildLaunchdPlist(spec)), DescriptorMode); err != nil {
		return &OpError{Op: OpInstall, Name: spec.Name, Err: wrapIO(err)}
	}

	steps := [][]string{{"load", plistPath}}
	if spec.AutoStart {
		steps = append(steps, []string{"start", spec.Name})
	}

	for _, args := range steps {
		res, err := m.Runner.Run(ctx, m.LaunchctlPath, args...)
		if err == nil && res.ExitCode == 0 {
			continue
		}
		m.rollbackPlist(spec.Name, plistPath)
		if err != nil {
			return &OpError{Op: OpInstall, Name: spec.Name, Err: err}
		}
		return opFailed(OpInstall, spec.Name, res)
	}

	return nil
}

// rollbackPlist deletes a just-written plist after a failed install step.
// Failures here are logged, not propagated.
func (m *ManagerLaunchd) rollbackPlist(name, plistPath string) {
	if err := os.Remove(plistPath); err != nil {
		m.Log.WithError(err).WithField("service", name).
			Warn("rollback of failed install did not complete")
	}
}

// Remove stops, unloads, and deletes the service. Absent services are a
// no-op; stop and unload failures are ignored, a plist that cannot be
// deleted yields ErrIO.
func (m *ManagerLaunchd) Remove(ctx context.Context, name string) error {
	plistPath := m.descriptorPath(name)
	if _, err := os.Lstat(plistPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &OpError{Op: OpRemove, Name: name, Err: wrapIO(err)}
	}

	cleanup := &MultiError{}
	for _, args := range [][]string{
		{"stop", name},
		{"unload", plistPath},
	} {
		if res, err := m.Runner.Run(ctx, m.LaunchctlPath, args...); err != nil {
			cleanup.Add(err)
		} else if res.ExitCode != 0 {
			cleanup.Add(opFailed(OpRemove, name, res))
		}
	}
	if err := cleanup.Err(); err != nil {
		m.Log.WithError(err).WithField("service", name).
			Debug("stop/unload before plist removal failed; continuing")
	}

	if err := os.Remove(plistPath); err != nil {
		return &OpError{Op: OpRemove, Name: name, Err: wrapIO(err)}
	}
	return nil
}

// Start starts the service
func (m *ManagerLaunchd) Start(ctx context.Context, name string) error {
	return m.control(ctx, OpStart, "start", name)
}

// Stop stops the service
func (m *ManagerLaunchd) Stop(ctx context.Context, name string) error {
	return m.control(ctx, OpStop, "stop", name)
}

// Pause is not a launchd primitive
func (m *ManagerLaunchd) Pause(_ context.Context, name string) error {
	return &OpError{Op: OpPause, Name: name, Err: ErrNotSupported}
}

// Resume is not a launchd primitive
func (m *ManagerLaunchd) Resume(_ context.Context, name string) error {
	return &OpError{Op: OpResume, Name: name, Err: ErrNotSupported}
}

func (m *ManagerLaunchd) control(ctx context.Context, op Operation, verb, name string) error {
	res, err := m.Runner.Run(ctx, m.LaunchctlPath, verb, name)
	if err != nil {
		return &OpError{Op: op, Name: name, Err: err}
	}
	if res.ExitCode != 0 {
		return opFailed(op, name, res)
	}
	return nil
}

// Status runs launchctl list for the label and normalizes the answer. Query
// failures degrade to StatusUnknown.
func (m *ManagerLaunchd) Status(ctx context.Context, name string) (Status, error) {
	ctx, cancel := probeCtx(ctx)
	defer cancel()

	res, err := m.Runner.Run(ctx, m.LaunchctlPath, "list", name)
	if err != nil {
		return StatusUnknown, nil
	}
	return parseLaunchdList(res.Stdout+res.Stderr, res.ExitCode), nil
}

// PID reports the label's PID from launchctl list, or 0
func (m *ManagerLaunchd) PID(ctx context.Context, name string) (int, error) {
	ctx, cancel := probeCtx(ctx)
	defer cancel()

	res, err := m.Runner.Run(ctx, m.LaunchctlPath, "list", name)
	if err != nil {
		return 0, &OpError{Op: OpStatus, Name: name, Err: err}
	}
	if match := launchdPIDPattern.FindStringSubmatch(res.Stdout); match != nil {
		if pid, err := strconv.Atoi(match[1]); err == nil {
			return pid, nil
		}
	}
	return 0, nil
}

var (
	launchdPIDPattern  = regexp.MustCompile(`"PID"\s*=\s*(\d+)\s*;`)
	launchdExitPattern = regexp.MustCompile(`"LastExitStatus"\s*=\s*(\d+)\s*;`)
)

// parseLaunchdList maps a launchctl list block onto the shared status
// vocabulary: a PID means running, a clean last exit with no PID means
// stopped, a missing label means not found, and any other non-zero exit
// without those markers is an error.
func parseLaunchdList(output string, exitCode int) Status {
	lower := strings.ToLower(output)
	if strings.Contains(lower, "could not find") || strings.Contains(lower, "no such process") {
		return StatusNotFound
	}

	if launchdPIDPattern.MatchString(output) || strings.Contains(lower, "state = running") {
		return StatusRunning
	}

	if match := launchdExitPattern.FindStringSubmatch(output); match != nil {
		if match[1] == "0" {
			return StatusStopped
		}
		return StatusError
	}

	if exitCode != 0 {
		return StatusError
	}
	return StatusUnknown
}
