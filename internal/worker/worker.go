// Package worker provides the demo workload hosted by svchost. It stands in
// for a real application loop: it logs a heartbeat on an interval and shuts
// down cleanly when its context is cancelled.
package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultInterval is the heartbeat period when none is configured
const DefaultInterval = 30 * time.Second

// Heartbeat is a minimal long-running workload
type Heartbeat struct {
	// Interval is the heartbeat period
	Interval time.Duration
	// Log receives the heartbeat lines
	Log logrus.FieldLogger
}

// New creates a Heartbeat worker with default settings
func New() *Heartbeat {
	return &Heartbeat{
		Interval: DefaultInterval,
		Log:      logrus.StandardLogger(),
	}
}

// WithInterval sets the heartbeat period
func (h *Heartbeat) WithInterval(d time.Duration) *Heartbeat {
	h.Interval = d
	return h
}

// WithLogger sets the heartbeat logger
func (h *Heartbeat) WithLogger(log logrus.FieldLogger) *Heartbeat {
	h.Log = log
	return h
}

// Run loops until ctx is cancelled. It always returns nil: cancellation is
// the normal shutdown path, not an error.
func (h *Heartbeat) Run(ctx context.Context) error {
	interval := h.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	h.Log.Info("worker started")
	beats := 0
	for {
		select {
		case <-ctx.Done():
			h.Log.WithField("beats", beats).Info("worker stopping")
			return nil
		case <-ticker.C:
			beats++
			h.Log.WithField("beats", beats).Debug("heartbeat")
		}
	}
}
