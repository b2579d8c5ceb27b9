// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath: configPath,
		version:    version,
	}
}

// Load loads configuration with precedence: ENV > File > Defaults.
// It enforces Strict Validated Order: Parse File (Strict) -> Apply Env -> Validate
func (l *Loader) Load() (AppConfig, error) {
	cfg := AppConfig{}

	// 1. Set defaults
	l.setDefaults(&cfg)

	// 2. Load from file (if provided)
	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	// 3. Override with environment variables (highest priority)
	mergeEnvConfig(&cfg)

	// Ensure DataDir is absolute to prevent surprises after chdir
	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}

	// 4. Version from binary
	cfg.Version = l.version

	// 5. Validate final configuration
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	// Parse YAML with strict mode (unknown fields cause errors)
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if err == io.EOF {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	// Strict: Ensure no multiple documents or trailing content
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}

	return &fileCfg, nil
}

func (l *Loader) setDefaults(cfg *AppConfig) {
	cfg.DataDir = defaultDataDir
	cfg.ShowsFile = defaultShowsFile
	cfg.StationsFile = defaultStationsFile
	cfg.ListenAddr = defaultListenAddr
	cfg.LogLevel = defaultLogLevel
	cfg.LogService = defaultLogService
	cfg.MetricsEnabled = false
	cfg.MetricsAddr = defaultMetricsAddr
	cfg.WatchEnabled = true
	cfg.WatchDebounce = defaultWatchDebounce
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = defaultRateLimitRequests
	cfg.RateLimitWindow = defaultRateLimitWindow
	cfg.Server = defaultServerConfig()
}

// mergeFileConfig applies file values over defaults. Absent fields leave the
// defaults in place; malformed duration strings fail the load.
func mergeFileConfig(cfg *AppConfig, file *FileConfig) error {
	if file.DataDir != "" {
		cfg.DataDir = file.DataDir
	}
	if file.ShowsFile != "" {
		cfg.ShowsFile = file.ShowsFile
	}
	if file.StationsFile != "" {
		cfg.StationsFile = file.StationsFile
	}
	if file.Listen != "" {
		cfg.ListenAddr = file.Listen
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}
	if file.LogService != "" {
		cfg.LogService = file.LogService
	}

	if file.Metrics.Enabled != nil {
		cfg.MetricsEnabled = *file.Metrics.Enabled
	}
	if file.Metrics.Listen != "" {
		cfg.MetricsAddr = file.Metrics.Listen
	}

	if file.Watch.Enabled != nil {
		cfg.WatchEnabled = *file.Watch.Enabled
	}
	if file.Watch.Debounce != "" {
		d, err := time.ParseDuration(file.Watch.Debounce)
		if err != nil {
			return fmt.Errorf("watch.debounce: %w", err)
		}
		cfg.WatchDebounce = d
	}

	if file.RateLimit.Enabled != nil {
		cfg.RateLimitEnabled = *file.RateLimit.Enabled
	}
	if file.RateLimit.Requests > 0 {
		cfg.RateLimitRequests = file.RateLimit.Requests
	}
	if file.RateLimit.Window != "" {
		d, err := time.ParseDuration(file.RateLimit.Window)
		if err != nil {
			return fmt.Errorf("rateLimit.window: %w", err)
		}
		cfg.RateLimitWindow = d
	}

	if file.TLS.Cert != "" {
		cfg.TLSCert = file.TLS.Cert
	}
	if file.TLS.Key != "" {
		cfg.TLSKey = file.TLS.Key
	}

	return mergeServerFileConfig(&cfg.Server, file.Server)
}

// mergeEnvConfig applies environment variables over everything else.
func mergeEnvConfig(cfg *AppConfig) {
	cfg.DataDir = ParseString("AIRCHECK_DATA", cfg.DataDir)
	cfg.ShowsFile = ParseString("AIRCHECK_SHOWS_FILE", cfg.ShowsFile)
	cfg.StationsFile = ParseString("AIRCHECK_STATIONS_FILE", cfg.StationsFile)
	cfg.ListenAddr = ParseString("AIRCHECK_LISTEN", cfg.ListenAddr)
	cfg.LogLevel = ParseString("AIRCHECK_LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = ParseString("AIRCHECK_LOG_SERVICE", cfg.LogService)

	cfg.MetricsEnabled = ParseBool("AIRCHECK_METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.MetricsAddr = ParseString("AIRCHECK_METRICS_LISTEN", cfg.MetricsAddr)

	cfg.WatchEnabled = ParseBool("AIRCHECK_WATCH", cfg.WatchEnabled)
	cfg.WatchDebounce = ParseDuration("AIRCHECK_WATCH_DEBOUNCE", cfg.WatchDebounce)

	cfg.RateLimitEnabled = ParseBool("AIRCHECK_RATE_LIMIT_ENABLED", cfg.RateLimitEnabled)
	cfg.RateLimitRequests = ParseInt("AIRCHECK_RATE_LIMIT_REQUESTS", cfg.RateLimitRequests)
	cfg.RateLimitWindow = ParseDuration("AIRCHECK_RATE_LIMIT_WINDOW", cfg.RateLimitWindow)

	cfg.TLSCert = ParseString("AIRCHECK_TLS_CERT", cfg.TLSCert)
	cfg.TLSKey = ParseString("AIRCHECK_TLS_KEY", cfg.TLSKey)

	mergeServerEnvConfig(&cfg.Server)
}
