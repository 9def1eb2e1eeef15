// Package svcmgr registers, controls, and queries a single executable as an
// OS-managed service across three supervisors: the Windows Service Control
// Manager, Linux systemd, and macOS launchd.
//
// The core functionality centers around the Manager interface, which provides
// a uniform install/remove/start/stop/pause/resume/status contract over three
// backend implementations. A factory selects the backend matching the host
// operating system:
//
//	mgr, err := svcmgr.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	spec := svcmgr.Spec{
//	    Name:      "myapp",
//	    ExecPath:  "/usr/local/bin/myapp",
//	    Args:      []string{"run"},
//	    AutoStart: true,
//	}
//	err = mgr.Install(context.Background(), spec)
//
//	status, err := mgr.Status(context.Background(), "myapp")
//	fmt.Printf("Service status: %v\n", status)
//
// # Auto-Install Orchestrator
//
// The Orchestrator type implements a one-shot startup decision: inspect the
// execution context (interactive console, supervised process, or headless),
// the current installation status, and the process's elevation, then either
// install-and-exit, run a foreground test instance, run the supervised worker
// loop, or inform the user and exit. The worker itself is injected by the
// caller:
//
//	orch := svcmgr.NewOrchestrator(mgr)
//	code, err := orch.Run(ctx, spec, func(ctx context.Context) error {
//	    <-ctx.Done()
//	    return nil
//	})
//	os.Exit(code)
//
// # Design Philosophy
//
// This library prioritizes:
//
//   - One shared status vocabulary across all three supervisors
//   - Native tool invocation (sc.exe, systemctl, launchctl) behind a
//     cancellable, timeout-bounded Runner so every backend is testable
//     with a fake
//   - Typed errors (ErrAlreadyExists, ErrNotSupported, ...) wrapped in
//     OpError for error-chain inspection
//   - Status queries that never fail: unreadable native output degrades
//     to StatusUnknown, a missing service is StatusNotFound
//
// Note that the Unix execution-context detection treats a process with no
// controlling terminal as headless even when it is merely an interactive
// session with redirected streams. This false-positive surface is deliberate:
// blocking a legitimate non-interactive service start would be worse than
// running one extra supervised loop for a piped session.
package svcmgr
