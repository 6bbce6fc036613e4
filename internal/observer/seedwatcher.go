// Package observer watches seed files and reports when they change.
package observer

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// SeedChangeCallback is called once per burst of changes to the seed file
type SeedChangeCallback func(path string)

// SeedWatcher monitors a single seed file.
//
// The parent directory is watched rather than the file itself, since most
// editors save by writing a new file and renaming it over the old one.
type SeedWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	callback SeedChangeCallback
	debounce time.Duration
	log      logrus.FieldLogger

	timer *time.Timer
	mu    sync.Mutex

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSeedWatcher creates a watcher for path. Call Start to begin watching.
func NewSeedWatcher(path string, callback SeedChangeCallback, log logrus.FieldLogger) (*SeedWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}

	return &SeedWatcher{
		watcher:  watcher,
		path:     abs,
		callback: callback,
		debounce: 300 * time.Millisecond,
		log:      log.WithField("seed", abs),
		done:     make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched
func (sw *SeedWatcher) Path() string {
	return sw.path
}

// Start begins watching for file changes until ctx is done or Stop is called
func (sw *SeedWatcher) Start(ctx context.Context) {
	ctx, sw.cancel = context.WithCancel(ctx)

	go func() {
		defer close(sw.done)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-sw.watcher.Events:
				if !ok {
					return
				}
				sw.handleEvent(event)
			case err, ok := <-sw.watcher.Errors:
				if !ok {
					return
				}
				sw.log.WithError(err).Warn("watch error")
			}
		}
	}()
}

// Wait blocks until the watch loop has exited
func (sw *SeedWatcher) Wait() {
	<-sw.done
}

// Stop stops watching for file changes
func (sw *SeedWatcher) Stop() {
	if sw.cancel != nil {
		sw.cancel()
	}
	sw.mu.Lock()
	if sw.timer != nil {
		sw.timer.Stop()
	}
	sw.mu.Unlock()
	sw.watcher.Close()
}

func (sw *SeedWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != sw.path {
		return
	}

	// Writes, creates and rename-into-place all end up as Write or Create
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.timer != nil {
		sw.timer.Stop()
	}
	sw.timer = time.AfterFunc(sw.debounce, sw.flush)
}

func (sw *SeedWatcher) flush() {
	if sw.callback == nil {
		return
	}
	sw.log.Debug("seed changed")
	sw.callback(sw.path)
}

// SetDebounce sets how long to wait for further changes before calling back
func (sw *SeedWatcher) SetDebounce(d time.Duration) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	sw.debounce = d
}
