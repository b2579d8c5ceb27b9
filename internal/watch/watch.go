// SPDX-License-Identifier: MIT

// Package watch observes the data directory for document changes made
// outside this process, such as a host syncing files or an operator
// editing them by hand.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/aircheck-dev/aircheck/internal/log"
	"github.com/aircheck-dev/aircheck/internal/metrics"
)

// selfWriteGrace is added to the debounce interval when deciding whether
// a change was caused by our own save.
const selfWriteGrace = 2 * time.Second

// Watcher watches the data directory and reports debounced changes to
// the tracked documents. The directory is watched rather than the files
// themselves because atomic saves replace the inode, which would detach
// a per-file watch.
type Watcher struct {
	dir      string
	files    map[string]string // basename -> logical name
	debounce time.Duration
	logger   zerolog.Logger

	mu         sync.Mutex
	closed     bool
	timers     map[string]*time.Timer
	selfWrites map[string]time.Time

	changes chan string
	watcher *fsnotify.Watcher
}

// New creates a watcher for dir. files maps document basenames to the
// logical names reported on Changes.
func New(dir string, debounce time.Duration, files map[string]string) *Watcher {
	return &Watcher{
		dir:        dir,
		files:      files,
		debounce:   debounce,
		logger:     log.WithComponent("watch"),
		timers:     make(map[string]*time.Timer),
		selfWrites: make(map[string]time.Time),
		changes:    make(chan string, 8),
	}
}

// Changes returns the channel carrying logical document names after an
// external change settled. The channel is closed when the watcher stops.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// MarkSelfWrite records that this process just saved the named document,
// so the resulting filesystem events are not reported as external.
func (w *Watcher) MarkSelfWrite(base string) {
	w.mu.Lock()
	w.selfWrites[base] = time.Now()
	w.mu.Unlock()
}

// Start begins watching the data directory and spawns the event loop.
// The loop runs until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	w.watcher = watcher

	if err := watcher.Add(w.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch directory %s: %w", w.dir, err)
	}

	w.logger.Info().
		Str("event", "watch.started").
		Str("dir", w.dir).
		Dur("debounce", w.debounce).
		Msg("watching data directory for changes")

	go w.watchLoop(ctx)

	return nil
}

// watchLoop is the main file watcher loop.
func (w *Watcher) watchLoop(ctx context.Context) {
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str("event", "watch.stopped").Msg("watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Write, Create and Remove cover editors, copies, atomic
			// renames and deletions. Temp files from pending saves have
			// different basenames and fall through.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}

			base := filepath.Base(event.Name)
			name, tracked := w.files[base]
			if !tracked {
				continue
			}

			w.logger.Debug().
				Str("event", "watch.file_event").
				Str("file", name).
				Str("op", event.Op.String()).
				Msg("document changed on disk")

			// Debounce: reset the per-file timer on each event
			w.mu.Lock()
			if timer := w.timers[base]; timer != nil {
				timer.Stop()
			}
			w.timers[base] = time.AfterFunc(w.debounce, func() {
				w.fire(base, name)
			})
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().
				Err(err).
				Str("event", "watch.error").
				Msg("watcher error")
		}
	}
}

// fire runs after the debounce interval settled for one document.
func (w *Watcher) fire(base, name string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	mark, marked := w.selfWrites[base]
	if marked {
		delete(w.selfWrites, base)
	}
	delete(w.timers, base)
	w.mu.Unlock()

	if marked && time.Since(mark) <= w.debounce+selfWriteGrace {
		w.logger.Debug().
			Str("event", "watch.self_write").
			Str("file", name).
			Msg("change matches a recent save, not external")
		return
	}

	metrics.IncExternalChange(name)
	w.logger.Info().
		Str("event", "watch.external_change").
		Str("file", name).
		Msg("document changed outside this process")

	// Re-check closed under the lock so the send cannot race shutdown.
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.changes <- name:
	default:
		// Skip if channel is full (non-blocking send)
		w.logger.Warn().
			Str("event", "watch.listener_skip").
			Str("file", name).
			Msg("skipped change notification (channel full)")
	}
}

// shutdown stops pending timers and closes the change channel exactly
// once, after which no fire can publish.
func (w *Watcher) shutdown() {
	w.mu.Lock()
	for base, timer := range w.timers {
		timer.Stop()
		delete(w.timers, base)
	}
	w.closed = true
	w.mu.Unlock()

	close(w.changes)
	_ = w.watcher.Close()
}
