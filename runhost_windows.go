//go:build windows

package svcmgr

import (
	"context"
	"time"

	"golang.org/x/sys/windows/svc"
)

// runSupervised attaches SCM service-control handling when the process was
// actually started by the SCM; a forced supervised context outside the SCM
// falls back to the generic host loop.
func runSupervised(ctx context.Context, name string, worker Worker, grace time.Duration) error {
	if isService, err := svc.IsWindowsService(); err == nil && isService {
		return svc.Run(name, &scmHandler{worker: worker, grace: grace, parent: ctx})
	}
	return runHost(ctx, worker, grace)
}

// scmHandler bridges SCM control requests onto context cancellation
type scmHandler struct {
	worker Worker
	grace  time.Duration
	parent context.Context
}

// Execute reports StartPending, launches the worker, then reports Running
// before doing any further work so the SCM never times the startup out.
func (h *scmHandler) Execute(_ []string, requests <-chan svc.ChangeRequest, changes chan<- svc.Status) (bool, uint32) {
	const accepted = svc.AcceptStop | svc.AcceptShutdown

	changes <- svc.Status{State: svc.StartPending}

	ctx, cancel := context.WithCancel(h.parent)
	defer cancel()

	errCh := make(chan error, 1)
	go func() { errCh <- h.worker(ctx) }()

	changes <- svc.Status{State: svc.Running, Accepts: accepted}

	grace := h.grace
	if grace <= 0 {
		grace = DefaultStopGrace
	}

	for {
		select {
		case err := <-errCh:
			if err != nil {
				return true, 1
			}
			return false, 0

		case req := <-requests:
			switch req.Cmd {
			case svc.Interrogate:
				changes <- req.CurrentStatus

			case svc.Stop, svc.Shutdown:
				changes <- svc.Status{State: svc.StopPending}
				cancel()
				select {
				case <-errCh:
				case <-time.After(grace):
				}
				return false, 0
			}
		}
	}
}
