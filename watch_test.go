package svcmgr

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchDescriptorNotSupportedForSCM(t *testing.T) {
	m := newTestSCM(NewMockRunner())

	_, _, err := WatchDescriptor(context.Background(), m, "demo")
	if !errors.Is(err, ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported for the SCM backend, got %v", err)
	}
}

func TestWatchDescriptorMissingFile(t *testing.T) {
	m := newTestSystemd(t, NewMockRunner())

	_, _, err := WatchDescriptor(context.Background(), m, "demo")
	if err == nil {
		t.Fatal("expected an error for a missing descriptor")
	}
}

func TestWatchDescriptorReportsChanges(t *testing.T) {
	m := newTestSystemd(t, NewMockRunner())
	path := m.descriptorPath("demo")
	require.NoError(t, os.WriteFile(path, []byte("[Unit]\n"), 0o644))

	ch, cleanup, err := WatchDescriptor(context.Background(), m, "demo")
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	// Let the watcher settle before mutating the file
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("[Unit]\nDescription=edited\n"), 0o644))

	select {
	case ev := <-ch:
		require.NoError(t, ev.Err)
		require.Equal(t, path, ev.Path)
		require.False(t, ev.Removed, "a rewrite must not be reported as removal")
	case <-time.After(3 * time.Second):
		t.Fatal("no event after descriptor modification")
	}
}

func TestWatchDescriptorReportsRemoval(t *testing.T) {
	m := newTestSystemd(t, NewMockRunner())
	path := m.descriptorPath("demo")
	require.NoError(t, os.WriteFile(path, []byte("[Unit]\n"), 0o644))

	ch, cleanup, err := WatchDescriptor(context.Background(), m, "demo")
	require.NoError(t, err)
	defer func() { _ = cleanup() }()

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.Remove(path))

	deadline := time.After(3 * time.Second)
	for {
		select {
		case ev := <-ch:
			require.NoError(t, ev.Err)
			if ev.Removed {
				return
			}
		case <-deadline:
			t.Fatal("no removal event after descriptor deletion")
		}
	}
}

func TestWatchDescriptorCleanupStopsEvents(t *testing.T) {
	m := newTestSystemd(t, NewMockRunner())
	path := m.descriptorPath("demo")
	require.NoError(t, os.WriteFile(path, []byte("[Unit]\n"), 0o644))

	ch, cleanup, err := WatchDescriptor(context.Background(), m, "demo")
	require.NoError(t, err)

	require.NoError(t, cleanup())

	// The channel is closed once the watch loop has shut down
	select {
	case _, ok := <-ch:
		if ok {
			// Drain anything emitted before shutdown; the close must follow
			for range ch {
			}
		}
	case <-time.After(3 * time.Second):
		t.Fatal("event channel was not closed after cleanup")
	}
}
