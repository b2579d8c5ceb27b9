// SPDX-License-Identifier: MIT

// Package store reads and writes the two JSON documents that drive the
// recorder host. Writes are atomic: readers never observe a partial file.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/aircheck-dev/aircheck/internal/log"
	"github.com/aircheck-dev/aircheck/internal/metrics"
)

// Store holds the resolved paths of the two documents. It keeps no state
// beyond them: every call re-reads from disk so external edits are picked up.
type Store struct {
	dir          string
	showsPath    string
	stationsPath string
	afterSave    func(base string)
}

// New creates a store for the documents inside dir. File names are bare names
// validated by the config layer.
func New(dir, showsFile, stationsFile string) *Store {
	return &Store{
		dir:          dir,
		showsPath:    filepath.Join(dir, showsFile),
		stationsPath: filepath.Join(dir, stationsFile),
	}
}

// SetAfterSave registers a hook invoked with the document's base name
// after each successful save. The file watcher uses it to tell our own
// writes apart from external ones. Must be set before serving traffic.
func (s *Store) SetAfterSave(fn func(base string)) {
	s.afterSave = fn
}

// ShowsPath returns the resolved shows document path.
func (s *Store) ShowsPath() string { return s.showsPath }

// StationsPath returns the resolved stations document path.
func (s *Store) StationsPath() string { return s.stationsPath }

// LoadShows reads the shows document. A missing file yields an empty document.
func (s *Store) LoadShows(ctx context.Context) (Shows, error) {
	shows := Shows{}
	if err := s.loadDocument(ctx, s.showsPath, metrics.FileShows, &shows); err != nil {
		return nil, err
	}
	if shows == nil {
		shows = Shows{}
	}
	metrics.RecordShowCount(len(shows))
	return shows, nil
}

// LoadStations reads the stations document. A missing file yields an empty document.
func (s *Store) LoadStations(ctx context.Context) (Stations, error) {
	stations := Stations{}
	if err := s.loadDocument(ctx, s.stationsPath, metrics.FileStations, &stations); err != nil {
		return nil, err
	}
	if stations == nil {
		stations = Stations{}
	}
	metrics.RecordStationCount(len(stations))
	return stations, nil
}

// SaveShows atomically replaces the shows document.
func (s *Store) SaveShows(ctx context.Context, shows Shows) error {
	if err := s.saveDocument(ctx, s.showsPath, metrics.FileShows, shows); err != nil {
		return err
	}
	metrics.RecordShowCount(len(shows))
	return nil
}

// SaveStations atomically replaces the stations document.
func (s *Store) SaveStations(ctx context.Context, stations Stations) error {
	if err := s.saveDocument(ctx, s.stationsPath, metrics.FileStations, stations); err != nil {
		return err
	}
	metrics.RecordStationCount(len(stations))
	return nil
}

func (s *Store) loadDocument(ctx context.Context, path, file string, v any) error {
	logger := log.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			metrics.RecordDocumentLoad(file, metrics.OutcomeMissing)
			logger.Debug().
				Str("event", "document.missing").
				Str("path", path).
				Msg("document missing, starting empty")
			return nil
		}
		metrics.RecordDocumentLoad(file, metrics.OutcomeFailure)
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		metrics.RecordDocumentLoad(file, metrics.OutcomeFailure)
		return &ParseError{Path: path, Err: err}
	}

	metrics.RecordDocumentLoad(file, metrics.OutcomeSuccess)
	return nil
}

// saveDocument marshals v (2-space indent, sorted keys, trailing newline) and
// atomically replaces path. On any failure the previous bytes stay intact.
func (s *Store) saveDocument(ctx context.Context, path, file string, v any) error {
	logger := log.FromContext(ctx)

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		metrics.RecordDocumentSave(file, metrics.OutcomeFailure)
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		metrics.RecordDocumentSave(file, metrics.OutcomeFailure)
		return fmt.Errorf("marshal %s document: %w", file, err)
	}
	data = append(data, '\n')

	// renameio handles: temp file creation, fsync, atomic rename, cleanup on error
	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		metrics.RecordDocumentSave(file, metrics.OutcomeFailure)
		return fmt.Errorf("create pending document file: %w", err)
	}
	defer func() {
		// Cleanup on error - renameio removes temp file if not committed
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending document file")
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		metrics.RecordDocumentSave(file, metrics.OutcomeFailure)
		return fmt.Errorf("write document data: %w", err)
	}

	// CloseAtomicallyReplace: fsync + rename (durable + atomic)
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		metrics.RecordDocumentSave(file, metrics.OutcomeFailure)
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}

	metrics.RecordDocumentSave(file, metrics.OutcomeSuccess)
	logger.Debug().
		Str("event", "document.saved").
		Str("path", path).
		Int("bytes", len(data)).
		Msg("document saved")

	if s.afterSave != nil {
		s.afterSave(filepath.Base(path))
	}
	return nil
}
