package svcmgr

import (
	"context"
	"time"
)

// WaitForStatus polls the manager until the service reaches one of the
// target statuses or the context is cancelled. It returns the status that
// satisfied the wait, or the last observed status together with the context
// error. An interval of zero uses DefaultWaitInterval.
//
// Example:
//
//	// Confirm a stop completed
//	status, err := svcmgr.WaitForStatus(ctx, mgr, "myapp", 0, svcmgr.StatusStopped, svcmgr.StatusNotFound)
func WaitForStatus(ctx context.Context, m Manager, name string, interval time.Duration, targets ...Status) (Status, error) {
	if interval <= 0 {
		interval = DefaultWaitInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := StatusUnknown
	for {
		st, err := m.Status(ctx, name)
		if err == nil {
			last = st
			for _, target := range targets {
				if st == target {
					return st, nil
				}
			}
		}

		select {
		case <-ctx.Done():
			return last, &OpError{Op: OpStatus, Name: name, Err: ctx.Err()}
		case <-ticker.C:
		}
	}
}
