package svcmgr

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunForegroundWorkerCompletes(t *testing.T) {
	err := RunForeground(context.Background(), func(ctx context.Context) error {
		return nil
	}, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("RunForeground returned %v for a clean worker exit", err)
	}
}

func TestRunForegroundWorkerError(t *testing.T) {
	boom := errors.New("worker crashed")
	err := RunForeground(context.Background(), func(ctx context.Context) error {
		return boom
	}, 100*time.Millisecond)
	if !errors.Is(err, boom) {
		t.Fatalf("RunForeground returned %v, want %v", err, boom)
	}
}

func TestRunForegroundStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- RunForeground(ctx, func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		}, 100*time.Millisecond)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("RunForeground did not return after context cancellation")
	}
}

func TestRunForegroundWorkerSeesCancellableContext(t *testing.T) {
	sawDone := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_ = RunForeground(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		close(sawDone)
		return nil
	}, 100*time.Millisecond)

	select {
	case <-sawDone:
	case <-time.After(2 * time.Second):
		t.Fatal("worker context was never cancelled")
	}
}
