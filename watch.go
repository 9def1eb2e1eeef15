package svcmgr

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// DescriptorEvent reports an external change to a service's on-disk
// descriptor (unit file or plist).
type DescriptorEvent struct {
	// Path is the descriptor path that changed
	Path string
	// Removed indicates the descriptor was deleted or renamed away
	Removed bool
	// Err carries watcher errors; Path and Removed are meaningless when set
	Err error
}

// WatchCleanupFunc stops a watch and releases its resources
type WatchCleanupFunc func() error

// descriptorPather is implemented by backends whose supervisor state lives
// in a file.
type descriptorPather interface {
	descriptorPath(name string) string
}

// WatchDescriptor watches the service's descriptor file for external
// modification or removal, emitting debounced events until the context is
// cancelled or the cleanup function is called. The SCM backend has no file
// artifact and fails with ErrNotSupported.
func WatchDescriptor(ctx context.Context, m Manager, name string) (<-chan DescriptorEvent, WatchCleanupFunc, error) {
	dp, ok := m.(descriptorPather)
	if !ok {
		return nil, nil, &OpError{Op: OpWatch, Name: name, Err: ErrNotSupported}
	}

	path := dp.descriptorPath(name)
	if _, err := os.Lstat(path); err != nil {
		return nil, nil, &OpError{Op: OpWatch, Name: name, Err: err}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, &OpError{Op: OpWatch, Name: name, Err: err}
	}

	// Watch the directory, not the file: atomic rewrites (renameio) replace
	// the inode and would silently end a file-level watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, nil, &OpError{Op: OpWatch, Name: name, Err: err}
	}

	ch := make(chan DescriptorEvent, 10)

	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		_ = watcher.Close()
		close(ch)
	})

	cleanup := func() error {
		sctx.Stop(100 * time.Millisecond)
		return sctx.Wait()
	}

	var mu sync.Mutex
	var debouncer *time.Timer

	emit := func(ev DescriptorEvent) {
		if sctx.IsStopping() {
			return
		}
		select {
		case ch <- ev:
		case <-sctx.Stopping():
		}
	}

	sctx.Go(func(sctx *stopper.Context) error {
		sctx.Defer(func() {
			mu.Lock()
			if debouncer != nil {
				debouncer.Stop()
			}
			mu.Unlock()
		})

		for !sctx.IsStopping() {
			select {
			case <-sctx.Stopping():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Name != path {
					continue
				}

				if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					// A rename may be the first half of an atomic rewrite;
					// report removal only if the path stays gone.
					mu.Lock()
					if debouncer != nil {
						debouncer.Stop()
					}
					debouncer = time.AfterFunc(DefaultWatchDebounce, func() {
						if _, err := os.Lstat(path); err != nil {
							emit(DescriptorEvent{Path: path, Removed: true})
						} else {
							emit(DescriptorEvent{Path: path})
						}
					})
					mu.Unlock()
					continue
				}

				if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
					mu.Lock()
					if debouncer != nil {
						debouncer.Stop()
					}
					debouncer = time.AfterFunc(DefaultWatchDebounce, func() {
						emit(DescriptorEvent{Path: path})
					})
					mu.Unlock()
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil {
					emit(DescriptorEvent{Err: err})
				}
			}
		}
		return nil
	})

	return ch, cleanup, nil
}
