// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/aircheck-dev/aircheck/internal/config"
	"github.com/aircheck-dev/aircheck/internal/daemon"
	"github.com/aircheck-dev/aircheck/internal/health"
	"github.com/aircheck-dev/aircheck/internal/log"
	"github.com/aircheck-dev/aircheck/internal/metrics"
	"github.com/aircheck-dev/aircheck/internal/store"
	"github.com/aircheck-dev/aircheck/internal/version"
	"github.com/aircheck-dev/aircheck/internal/watch"
	"github.com/aircheck-dev/aircheck/internal/web"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		os.Exit(0)
	}

	// Configure logger with safe defaults until config is loaded
	log.Configure(log.Config{
		Level:   "info",
		Service: "aircheck",
		Version: version.Version,
	})

	logger := log.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration with precedence: ENV > File > Defaults
	loader := config.NewLoader(*configPath, version.Version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", *configPath).
			Msg("failed to load configuration")
	}

	// Re-configure logger with loaded configuration
	log.Configure(log.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})

	if *configPath != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str("path", *configPath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	logger.Info().
		Str("event", "startup").
		Str("version", version.Version).
		Str("commit", version.Commit).
		Str("build_date", version.Date).
		Str("addr", cfg.ListenAddr).
		Str("data_dir", cfg.DataDir).
		Msg("starting aircheck")

	if cfg.TLSCert != "" && cfg.TLSKey != "" {
		logger.Info().
			Str("cert", cfg.TLSCert).
			Str("key", cfg.TLSKey).
			Msg("TLS enabled")
	}

	st := store.New(cfg.DataDir, cfg.ShowsFile, cfg.StationsFile)

	// Parse both documents once at startup so a broken file shows up in the
	// log immediately. The server starts regardless: this editor is the tool
	// an operator repairs the documents with.
	preflight(ctx, logger, st)

	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewWritableDirChecker("data_dir", cfg.DataDir))
	hm.RegisterChecker(health.NewDocumentChecker("shows_document", st.ShowsPath(), func(data []byte) error {
		var shows store.Shows
		return json.Unmarshal(data, &shows)
	}))
	hm.RegisterChecker(health.NewDocumentChecker("stations_document", st.StationsPath(), func(data []byte) error {
		var stations store.Stations
		return json.Unmarshal(data, &stations)
	}))

	srv := web.New(web.Config{
		RateLimitEnabled:  cfg.RateLimitEnabled,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
	}, st, hm)

	var watcher *watch.Watcher
	if cfg.WatchEnabled {
		watcher = watch.New(cfg.DataDir, cfg.WatchDebounce, map[string]string{
			cfg.ShowsFile:    metrics.FileShows,
			cfg.StationsFile: metrics.FileStations,
		})
		st.SetAfterSave(watcher.MarkSelfWrite)
	} else {
		logger.Info().
			Str("event", "watch.disabled").
			Msg("document watcher disabled, external edits show up on the next page load")
	}

	var metricsHandler http.Handler
	if cfg.MetricsEnabled {
		metricsHandler = promhttp.Handler()
	}

	deps := daemon.Deps{
		Logger:         logger,
		Config:         cfg,
		WebHandler:     srv.Router(),
		MetricsHandler: metricsHandler,
	}

	mgr, err := daemon.NewManager(cfg.Server, deps)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.creation.failed").
			Msg("failed to create daemon manager")
	}

	// Start daemon app (blocks until shutdown)
	app := daemon.NewApp(logger, mgr, st, watcher)
	if err := app.Run(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "manager.failed").
			Msg("daemon app failed")
	}

	logger.Info().Msg("server exiting")
}

// preflight loads both documents once for the log. Failures are reported,
// never fatal.
func preflight(ctx context.Context, logger zerolog.Logger, st *store.Store) {
	if shows, err := st.LoadShows(ctx); err != nil {
		logger.Error().
			Err(err).
			Str("event", "document.preflight_failed").
			Str("file", metrics.FileShows).
			Msg("shows document does not parse, serving anyway")
	} else {
		logger.Info().
			Str("event", "document.preflight").
			Str("file", metrics.FileShows).
			Int("entries", len(shows)).
			Msg("shows document loaded")
	}

	if stations, err := st.LoadStations(ctx); err != nil {
		logger.Error().
			Err(err).
			Str("event", "document.preflight_failed").
			Str("file", metrics.FileStations).
			Msg("stations document does not parse, serving anyway")
	} else {
		logger.Info().
			Str("event", "document.preflight").
			Str("file", metrics.FileStations).
			Int("entries", len(stations)).
			Msg("stations document loaded")
	}
}
