// SPDX-License-Identifier: MIT

// Package daemon owns the process lifecycle: server startup, graceful
// shutdown and the long-lived background pieces around the editor.
package daemon

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aircheck-dev/aircheck/internal/metrics"
	"github.com/aircheck-dev/aircheck/internal/store"
	"github.com/aircheck-dev/aircheck/internal/watch"
)

// App owns the long-lived runtime pieces (currently the document watcher)
// and delegates server management to Manager.
type App struct {
	logger  zerolog.Logger
	manager Manager
	store   *store.Store
	watcher *watch.Watcher
}

// NewApp creates a new App orchestrator. store and watcher may be nil when
// watching is disabled.
func NewApp(logger zerolog.Logger, manager Manager, st *store.Store, watcher *watch.Watcher) *App {
	return &App{
		logger:  logger,
		manager: manager,
		store:   st,
		watcher: watcher,
	}
}

// Run starts all owned background subsystems and blocks until ctx is
// cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	// Watcher is best-effort: the editor re-reads on every request anyway,
	// so startup should not fail if the watcher cannot be started.
	if a.watcher != nil {
		if err := a.watcher.Start(ctx); err != nil {
			a.logger.Warn().
				Err(err).
				Str("event", "watch.start_failed").
				Msg("failed to start document watcher")
		} else if a.store != nil {
			g.Go(func() error {
				a.revalidateLoop(ctx)
				return nil
			})
		}
	}

	// Main server lifecycle.
	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.Background())
		}
		return err
	})

	return g.Wait()
}

// revalidateLoop re-parses every document reported as externally changed,
// so the log states right away whether a hand edit left the file loadable.
func (a *App) revalidateLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-a.watcher.Changes():
			if !ok {
				return
			}
			a.revalidate(ctx, name)
		}
	}
}

func (a *App) revalidate(ctx context.Context, name string) {
	var entries int
	var err error

	switch name {
	case metrics.FileShows:
		var shows store.Shows
		shows, err = a.store.LoadShows(ctx)
		entries = len(shows)
	case metrics.FileStations:
		var stations store.Stations
		stations, err = a.store.LoadStations(ctx)
		entries = len(stations)
	default:
		return
	}

	if err != nil {
		a.logger.Warn().
			Err(err).
			Str("event", "document.revalidate_failed").
			Str("file", name).
			Msg("externally changed document no longer parses")
		return
	}

	a.logger.Info().
		Str("event", "document.revalidated").
		Str("file", name).
		Int("entries", entries).
		Msg("externally changed document parses cleanly")
}
