package svcmgr

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vawter.tech/stopper"
)

// RunForeground hosts the worker without supervisor integration: it blocks
// until the worker returns, the context is cancelled, or SIGINT/SIGTERM
// arrives, then gives the worker the grace period before forcing shutdown.
func RunForeground(ctx context.Context, worker Worker, grace time.Duration) error {
	return runHost(ctx, worker, grace)
}

// RunSupervised hosts the worker with native supervisor integration: SCM
// service-control handling on Windows when started by the SCM, the generic
// signal-driven loop everywhere else.
func RunSupervised(ctx context.Context, name string, worker Worker, grace time.Duration) error {
	return runSupervised(ctx, name, worker, grace)
}

// runHost is the generic host loop shared by foreground and supervised runs
func runHost(ctx context.Context, worker Worker, grace time.Duration) error {
	if grace <= 0 {
		grace = DefaultStopGrace
	}

	sctx := stopper.WithContext(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sctx.Defer(func() { signal.Stop(sigCh) })

	sctx.Go(func(sctx *stopper.Context) error {
		select {
		case <-sigCh:
			sctx.Stop(grace)
		case <-sctx.Stopping():
		}
		return nil
	})

	sctx.Go(func(sctx *stopper.Context) error {
		// The worker owns the loop; once it returns the host stops.
		defer sctx.Stop(grace)
		return worker(sctx)
	})

	return sctx.Wait()
}
