package svcmgr

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Worker is the caller-supplied entry point hosted inside the service. It
// must react to ctx cancellation within a bounded delay and must not block
// before yielding control, or the native supervisor may treat startup as
// failed.
type Worker func(ctx context.Context) error

// Decision is the outcome of the startup decision engine. Every decision is
// terminal: the engine runs exactly once per process launch, with no cycles
// and no retries.
type Decision int

const (
	// DecisionRunSupervised runs the worker under the service host loop
	DecisionRunSupervised Decision = iota
	// DecisionInstall installs the service with autoStart and exits
	DecisionInstall
	// DecisionRunForeground runs the worker as an unsupervised foreground
	// instance for manual testing
	DecisionRunForeground
	// DecisionInformAndExit reports the existing installation and exits
	DecisionInformAndExit
)

// Decision string constants
const (
	decisionSupervisedStr = "run-supervised"
	decisionInstallStr    = "install"
	decisionForegroundStr = "run-foreground"
	decisionInformStr     = "inform-and-exit"
)

// String returns the string representation of the decision
func (d Decision) String() string {
	switch d {
	case DecisionInstall:
		return decisionInstallStr
	case DecisionRunForeground:
		return decisionForegroundStr
	case DecisionInformAndExit:
		return decisionInformStr
	default:
		return decisionSupervisedStr
	}
}

// Decide evaluates the startup decision table. Rules, in order:
//
//  1. A supervised context always runs the worker loop.
//  2. An uninstalled service installs itself when elevated, otherwise runs
//     in the foreground so the user can still test it.
//  3. Any other installation status informs an interactive user and exits;
//     a non-interactive process falls through to the supervised loop, which
//     covers supervisors the detector could not positively identify.
func Decide(execCtx ExecContext, status Status, elevated bool) Decision {
	if execCtx == ContextSupervised {
		return DecisionRunSupervised
	}

	if status == StatusNotFound {
		if elevated {
			return DecisionInstall
		}
		return DecisionRunForeground
	}

	if execCtx == ContextInteractive {
		return DecisionInformAndExit
	}
	return DecisionRunSupervised
}

// Orchestrator combines a Manager, the execution context detector, and the
// privilege oracle into the one-shot startup decision engine.
type Orchestrator struct {
	// Manager is the platform backend used for status queries and installs
	Manager Manager
	// Detect determines the execution context
	Detect func() ExecContext
	// IsElevated reports whether the process holds administrative rights
	IsElevated func() bool
	// Grace is the shutdown grace period handed to the host loop
	Grace time.Duration
	// Log receives the one-line outcome messages
	Log logrus.FieldLogger
}

// NewOrchestrator creates an Orchestrator with default collaborators
func NewOrchestrator(m Manager) *Orchestrator {
	return &Orchestrator{
		Manager:    m,
		Detect:     DetectContext,
		IsElevated: Elevated,
		Grace:      DefaultStopGrace,
		Log:        logrus.StandardLogger(),
	}
}

// WithDetector sets the execution context detector
func (o *Orchestrator) WithDetector(fn func() ExecContext) *Orchestrator {
	o.Detect = fn
	return o
}

// WithElevationCheck sets the privilege oracle
func (o *Orchestrator) WithElevationCheck(fn func() bool) *Orchestrator {
	o.IsElevated = fn
	return o
}

// WithGrace sets the shutdown grace period
func (o *Orchestrator) WithGrace(d time.Duration) *Orchestrator {
	o.Grace = d
	return o
}

// WithLogger sets the outcome logger
func (o *Orchestrator) WithLogger(log logrus.FieldLogger) *Orchestrator {
	o.Log = log
	return o
}

// Run executes the startup decision for spec and hands control to worker
// when a run decision is reached. The returned int is the process exit code:
// 0 for success paths, 2 for surfaced failures.
//
// Status query failures are swallowed and treated as StatusUnknown so the
// engine always reaches a decision. An install failure degrades to a
// foreground run when the user is interactive; otherwise it is surfaced.
func (o *Orchestrator) Run(ctx context.Context, spec Spec, worker Worker) (int, error) {
	if err := spec.Validate(); err != nil {
		return 2, err
	}

	execCtx := o.Detect()

	status := StatusUnknown
	if execCtx != ContextSupervised {
		if st, err := o.Manager.Status(ctx, spec.Name); err == nil {
			status = st
		}
	}

	elevated := o.IsElevated()
	decision := Decide(execCtx, status, elevated)
	log := o.Log.WithFields(logrus.Fields{
		"service":  spec.Name,
		"context":  execCtx.String(),
		"status":   status.String(),
		"decision": decision.String(),
	})

	switch decision {
	case DecisionRunSupervised:
		log.Info("running under service supervisor")
		if err := runSupervised(ctx, spec.Name, worker, o.Grace); err != nil {
			return 2, err
		}
		return 0, nil

	case DecisionInstall:
		install := spec
		install.AutoStart = true
		if err := o.Manager.Install(ctx, install); err != nil {
			log.WithError(err).Error("service installation failed")
			if execCtx == ContextInteractive {
				log.Info("continuing as a foreground instance")
				return o.runForeground(ctx, worker)
			}
			return 2, err
		}
		log.Info("service installed and started; this process exits")
		return 0, nil

	case DecisionRunForeground:
		if !elevated {
			log.Info("not elevated; re-run elevated to install as a service")
		}
		return o.runForeground(ctx, worker)

	default: // DecisionInformAndExit
		log.Info("service is already installed; use the start/stop/status commands to control it")
		return 0, nil
	}
}

func (o *Orchestrator) runForeground(ctx context.Context, worker Worker) (int, error) {
	o.Log.Info("running in the foreground; press Ctrl+C to stop")
	if err := RunForeground(ctx, worker, o.Grace); err != nil {
		return 2, err
	}
	return 0, nil
}
