// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("AIRCHECK_DATA", dataDir)

	loader := NewLoader("", "test")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}

	if cfg.DataDir != dataDir {
		t.Errorf("expected DataDir=%s, got %s", dataDir, cfg.DataDir)
	}
	if cfg.ShowsFile != "config_shows.json" {
		t.Errorf("unexpected ShowsFile: %s", cfg.ShowsFile)
	}
	if cfg.StationsFile != "config_stations.json" {
		t.Errorf("unexpected StationsFile: %s", cfg.StationsFile)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("unexpected ListenAddr: %s", cfg.ListenAddr)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("unexpected LogLevel: %s", cfg.LogLevel)
	}
	if !cfg.WatchEnabled {
		t.Error("watcher should be enabled by default")
	}
	if cfg.WatchDebounce != 500*time.Millisecond {
		t.Errorf("unexpected WatchDebounce: %v", cfg.WatchDebounce)
	}
	if !cfg.RateLimitEnabled {
		t.Error("rate limiting should be enabled by default")
	}
	if cfg.MetricsEnabled {
		t.Error("metrics should be disabled by default")
	}
	if cfg.Version != "test" {
		t.Errorf("unexpected Version: %s", cfg.Version)
	}
	if cfg.Server.ShutdownTimeout != 15*time.Second {
		t.Errorf("unexpected ShutdownTimeout: %v", cfg.Server.ShutdownTimeout)
	}
}

func TestLoad_FileValues(t *testing.T) {
	dataDir := t.TempDir()
	path := writeConfigFile(t, `
dataDir: `+dataDir+`
listen: ":7070"
logLevel: debug
showsFile: shows.json
stationsFile: stations.json
metrics:
  enabled: true
  listen: ":9091"
watch:
  enabled: false
rateLimit:
  requests: 5
  window: 30s
server:
  readTimeout: 10s
  shutdownTimeout: 5s
`)

	loader := NewLoader(path, "test")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}

	if cfg.ListenAddr != ":7070" {
		t.Errorf("expected ListenAddr=:7070, got %s", cfg.ListenAddr)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", cfg.LogLevel)
	}
	if cfg.ShowsFile != "shows.json" {
		t.Errorf("expected ShowsFile=shows.json, got %s", cfg.ShowsFile)
	}
	if !cfg.MetricsEnabled {
		t.Error("metrics should be enabled from file")
	}
	if cfg.MetricsAddr != ":9091" {
		t.Errorf("expected MetricsAddr=:9091, got %s", cfg.MetricsAddr)
	}
	if cfg.WatchEnabled {
		t.Error("watcher should be disabled from file")
	}
	if cfg.RateLimitRequests != 5 {
		t.Errorf("expected RateLimitRequests=5, got %d", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("expected RateLimitWindow=30s, got %v", cfg.RateLimitWindow)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("expected ReadTimeout=10s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Errorf("expected ShutdownTimeout=5s, got %v", cfg.Server.ShutdownTimeout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dataDir := t.TempDir()
	path := writeConfigFile(t, `
dataDir: `+dataDir+`
listen: ":7070"
logLevel: debug
`)

	t.Setenv("AIRCHECK_LISTEN", ":6060")
	t.Setenv("AIRCHECK_LOG_LEVEL", "warn")

	loader := NewLoader(path, "test")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}

	if cfg.ListenAddr != ":6060" {
		t.Errorf("ENV should override file: got %s", cfg.ListenAddr)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("ENV should override file: got %s", cfg.LogLevel)
	}
}

func TestLoad_UnknownKeyFails(t *testing.T) {
	path := writeConfigFile(t, `
dataDir: /tmp
unexpectedRootKey: true
`)

	loader := NewLoader(path, "test")
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected error due to unknown key, got nil")
	}
	if !errors.Is(err, ErrUnknownConfigField) {
		t.Fatalf("expected ErrUnknownConfigField, got: %v", err)
	}
}

func TestLoad_MultipleDocumentsFails(t *testing.T) {
	path := writeConfigFile(t, `
listen: ":7070"
---
listen: ":6060"
`)

	loader := NewLoader(path, "test")
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected error due to multiple documents, got nil")
	}
	if !strings.Contains(err.Error(), "multiple documents") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_UnsupportedExtensionFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}

	loader := NewLoader(path, "test")
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected error for unsupported format, got nil")
	}
	if !strings.Contains(err.Error(), "unsupported config format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_EmptyFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("AIRCHECK_DATA", dataDir)
	path := writeConfigFile(t, "")

	loader := NewLoader(path, "test")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected default ListenAddr, got %s", cfg.ListenAddr)
	}
}

func TestLoad_BadDurationFails(t *testing.T) {
	path := writeConfigFile(t, `
watch:
  debounce: soonish
`)

	loader := NewLoader(path, "test")
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected error for invalid duration, got nil")
	}
	if !strings.Contains(err.Error(), "watch.debounce") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_SameDocumentNamesFail(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("AIRCHECK_DATA", dataDir)
	t.Setenv("AIRCHECK_SHOWS_FILE", "same.json")
	t.Setenv("AIRCHECK_STATIONS_FILE", "same.json")

	loader := NewLoader("", "test")
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "StationsFile") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_DocumentNameWithSeparatorFails(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("AIRCHECK_DATA", dataDir)
	t.Setenv("AIRCHECK_SHOWS_FILE", "../shows.json")

	loader := NewLoader("", "test")
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "ShowsFile") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_TLSCertWithoutKeyFails(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("AIRCHECK_DATA", dataDir)
	t.Setenv("AIRCHECK_TLS_CERT", "/etc/aircheck/cert.pem")

	loader := NewLoader("", "test")
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "TLS") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_InvalidLogLevelFails(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("AIRCHECK_DATA", dataDir)
	t.Setenv("AIRCHECK_LOG_LEVEL", "verbose")

	loader := NewLoader("", "test")
	_, err := loader.Load()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "LogLevel") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoad_ShutdownTimeoutClamped(t *testing.T) {
	dataDir := t.TempDir()
	t.Setenv("AIRCHECK_DATA", dataDir)
	t.Setenv("AIRCHECK_SERVER_SHUTDOWN_TIMEOUT", "1s")

	loader := NewLoader("", "test")
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
	if cfg.Server.ShutdownTimeout != minShutdownTimeout {
		t.Errorf("expected clamped shutdown timeout %v, got %v", minShutdownTimeout, cfg.Server.ShutdownTimeout)
	}
}
