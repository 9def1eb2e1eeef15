//go:build !windows

package svcmgr

import (
	"context"
	"time"
)

// runSupervised needs no supervisor integration on Unix-like platforms:
// systemd and launchd both deliver shutdown as SIGTERM, which the generic
// host loop already handles.
func runSupervised(ctx context.Context, _ string, worker Worker, grace time.Duration) error {
	return runHost(ctx, worker, grace)
}
