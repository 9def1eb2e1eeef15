package svcmgr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func newTestLaunchd(t *testing.T, runner *MockRunner) *ManagerLaunchd {
	t.Helper()
	log, _ := test.NewNullLogger()
	return NewManagerLaunchd().
		WithDaemonsDir(t.TempDir()).
		WithRunner(runner).
		WithElevationCheck(func() bool { return true }).
		WithLogger(log)
}

func TestLaunchdInstall(t *testing.T) {
	runner := NewMockRunner()
	m := newTestLaunchd(t, runner)

	spec := Spec{
		Name:      "com.example.myapp",
		ExecPath:  "/usr/local/bin/myapp",
		Args:      []string{"--mode", "svc"},
		AutoStart: true,
	}
	require.NoError(t, m.Install(context.Background(), spec))

	plistPath := m.descriptorPath("com.example.myapp")
	data, err := os.ReadFile(plistPath)
	require.NoError(t, err)
	plist := string(data)

	for _, want := range []string{
		"<key>Label</key>",
		"<string>com.example.myapp</string>",
		"<string>/usr/local/bin/myapp</string>",
		"<string>--mode</string>",
		"<key>RunAtLoad</key>\n\t<true/>",
	} {
		if !strings.Contains(plist, want) {
			t.Errorf("plist missing %q:\n%s", want, plist)
		}
	}

	if !runner.Called("load " + plistPath) {
		t.Error("launchctl load was not invoked")
	}
	if !runner.Called("start com.example.myapp") {
		t.Error("launchctl start was not invoked")
	}
}

func TestLaunchdInstallAlreadyExists(t *testing.T) {
	runner := NewMockRunner()
	m := newTestLaunchd(t, runner)

	plistPath := m.descriptorPath("myapp")
	require.NoError(t, os.WriteFile(plistPath, []byte("<plist/>"), 0o644))

	err := m.Install(context.Background(), Spec{Name: "myapp", ExecPath: "/usr/local/bin/myapp"})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
	if runner.CallCount() != 0 {
		t.Errorf("failed existence check must not reach launchctl, got %v", runner.Calls)
	}
}

func TestLaunchdInstallRollback(t *testing.T) {
	runner := NewMockRunner()
	m := newTestLaunchd(t, runner)
	plistPath := m.descriptorPath("myapp")
	runner.On("load "+plistPath, ExecResult{ExitCode: 1, Stderr: "load failed"})

	err := m.Install(context.Background(), Spec{Name: "myapp", ExecPath: "/usr/local/bin/myapp"})
	if !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("expected ErrOperationFailed, got %v", err)
	}
	if _, statErr := os.Lstat(plistPath); !os.IsNotExist(statErr) {
		t.Error("failed install left the plist behind")
	}
}

func TestLaunchdInstallNotElevated(t *testing.T) {
	runner := NewMockRunner()
	m := newTestLaunchd(t, runner).WithElevationCheck(func() bool { return false })

	err := m.Install(context.Background(), Spec{Name: "myapp", ExecPath: "/usr/local/bin/myapp"})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Errorf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestLaunchdUserLevelSkipsElevation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	require.NoError(t, os.MkdirAll(filepath.Join(home, DefaultAgentsDir), 0o755))

	runner := NewMockRunner()
	m := newTestLaunchd(t, runner).
		WithUserLevel(true).
		WithElevationCheck(func() bool { return false })

	require.NoError(t, m.Install(context.Background(), Spec{Name: "myapp", ExecPath: "/usr/local/bin/myapp"}))

	wantPath := filepath.Join(home, DefaultAgentsDir, "myapp.plist")
	if _, err := os.Lstat(wantPath); err != nil {
		t.Errorf("user-level plist was not written to %s: %v", wantPath, err)
	}
}

func TestLaunchdRemove(t *testing.T) {
	runner := NewMockRunner().
		On("stop myapp", ExecResult{ExitCode: 3, Stderr: "No such process"})
	m := newTestLaunchd(t, runner)

	plistPath := m.descriptorPath("myapp")
	require.NoError(t, os.WriteFile(plistPath, []byte("<plist/>"), 0o644))

	require.NoError(t, m.Remove(context.Background(), "myapp"))

	if _, err := os.Lstat(plistPath); !os.IsNotExist(err) {
		t.Error("plist was not deleted")
	}
	if !runner.Called("unload " + plistPath) {
		t.Error("launchctl unload was not invoked")
	}
}

func TestLaunchdRemoveIdempotent(t *testing.T) {
	runner := NewMockRunner()
	m := newTestLaunchd(t, runner)

	if err := m.Remove(context.Background(), "myapp"); err != nil {
		t.Fatalf("Remove of absent service must be a no-op, got %v", err)
	}
	if runner.CallCount() != 0 {
		t.Errorf("absent service must not reach launchctl, got %v", runner.Calls)
	}
}

func TestLaunchdPauseResumeNotSupported(t *testing.T) {
	m := newTestLaunchd(t, NewMockRunner())

	if err := m.Pause(context.Background(), "myapp"); !errors.Is(err, ErrNotSupported) {
		t.Errorf("Pause: expected ErrNotSupported, got %v", err)
	}
	if err := m.Resume(context.Background(), "myapp"); !errors.Is(err, ErrNotSupported) {
		t.Errorf("Resume: expected ErrNotSupported, got %v", err)
	}
}

func TestLaunchdStatusAndPID(t *testing.T) {
	runner := NewMockRunner().
		On("list myapp", ExecResult{Stdout: launchctlListRunning})
	m := newTestLaunchd(t, runner)

	st, err := m.Status(context.Background(), "myapp")
	require.NoError(t, err)
	if st != StatusRunning {
		t.Errorf("Status = %v, want %v", st, StatusRunning)
	}

	pid, err := m.PID(context.Background(), "myapp")
	require.NoError(t, err)
	if pid != 4321 {
		t.Errorf("PID = %d, want 4321", pid)
	}
}
