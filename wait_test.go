package svcmgr

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// sequenceManager returns a scripted sequence of statuses, repeating the last
type sequenceManager struct {
	fakeManager

	mu       sync.Mutex
	sequence []Status
}

func (s *sequenceManager) Status(context.Context, string) (Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.sequence[0]
	if len(s.sequence) > 1 {
		s.sequence = s.sequence[1:]
	}
	return st, nil
}

func TestWaitForStatusReachesTarget(t *testing.T) {
	m := &sequenceManager{sequence: []Status{StatusRunning, StatusRunning, StatusStopped}}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := WaitForStatus(ctx, m, "demo", 10*time.Millisecond, StatusStopped, StatusNotFound)
	if err != nil {
		t.Fatalf("WaitForStatus failed: %v", err)
	}
	if st != StatusStopped {
		t.Errorf("WaitForStatus = %v, want %v", st, StatusStopped)
	}
}

func TestWaitForStatusImmediateMatch(t *testing.T) {
	m := &sequenceManager{sequence: []Status{StatusRunning}}

	st, err := WaitForStatus(context.Background(), m, "demo", 10*time.Millisecond, StatusRunning)
	if err != nil {
		t.Fatalf("WaitForStatus failed: %v", err)
	}
	if st != StatusRunning {
		t.Errorf("WaitForStatus = %v, want %v", st, StatusRunning)
	}
}

func TestWaitForStatusTimeout(t *testing.T) {
	m := &sequenceManager{sequence: []Status{StatusRunning}}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	st, err := WaitForStatus(ctx, m, "demo", 10*time.Millisecond, StatusStopped)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", err)
	}
	if st != StatusRunning {
		t.Errorf("last observed status = %v, want %v", st, StatusRunning)
	}

	var opErr *OpError
	if !errors.As(err, &opErr) || opErr.Op != OpStatus {
		t.Errorf("expected an OpError for the status operation, got %v", err)
	}
}
