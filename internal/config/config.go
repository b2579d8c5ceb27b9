// SPDX-License-Identifier: MIT

// Package config provides configuration management for aircheck with
// precedence ENV > YAML file > defaults.
package config

import "time"

// AppConfig is the resolved runtime configuration.
type AppConfig struct {
	Version      string
	DataDir      string // directory holding the two JSON documents
	ShowsFile    string // bare file name inside DataDir
	StationsFile string // bare file name inside DataDir
	ListenAddr   string
	LogLevel     string
	LogService   string

	// Metrics
	MetricsEnabled bool
	MetricsAddr    string

	// External change watcher
	WatchEnabled  bool
	WatchDebounce time.Duration

	// Rate limiting for mutating requests
	RateLimitEnabled  bool
	RateLimitRequests int // requests per window
	RateLimitWindow   time.Duration

	// TLS (cert and key must be set together)
	TLSCert string
	TLSKey  string

	Server ServerConfig
}

// FileConfig is the YAML-facing shape of the config file. Pointer fields
// distinguish "absent" from zero values during merge.
type FileConfig struct {
	DataDir      string `yaml:"dataDir,omitempty"`
	ShowsFile    string `yaml:"showsFile,omitempty"`
	StationsFile string `yaml:"stationsFile,omitempty"`
	Listen       string `yaml:"listen,omitempty"`
	LogLevel     string `yaml:"logLevel,omitempty"`
	LogService   string `yaml:"logService,omitempty"`

	Metrics   MetricsFileConfig   `yaml:"metrics,omitempty"`
	Watch     WatchFileConfig     `yaml:"watch,omitempty"`
	RateLimit RateLimitFileConfig `yaml:"rateLimit,omitempty"`
	TLS       TLSFileConfig       `yaml:"tls,omitempty"`
	Server    ServerFileConfig    `yaml:"server,omitempty"`
}

// MetricsFileConfig holds the metrics section of the config file.
type MetricsFileConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Listen  string `yaml:"listen,omitempty"`
}

// WatchFileConfig holds the watcher section of the config file.
type WatchFileConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Debounce string `yaml:"debounce,omitempty"` // e.g. "500ms"
}

// RateLimitFileConfig holds the rate limit section of the config file.
type RateLimitFileConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Requests int    `yaml:"requests,omitempty"`
	Window   string `yaml:"window,omitempty"` // e.g. "1m"
}

// TLSFileConfig holds TLS settings.
type TLSFileConfig struct {
	Cert string `yaml:"cert,omitempty"`
	Key  string `yaml:"key,omitempty"`
}

// ServerFileConfig holds HTTP server tunables.
type ServerFileConfig struct {
	ReadTimeout     string `yaml:"readTimeout,omitempty"`  // e.g. "60s"
	WriteTimeout    string `yaml:"writeTimeout,omitempty"` // e.g. "60s"
	IdleTimeout     string `yaml:"idleTimeout,omitempty"`
	MaxHeaderBytes  int    `yaml:"maxHeaderBytes,omitempty"`
	ShutdownTimeout string `yaml:"shutdownTimeout,omitempty"`
}

const (
	defaultDataDir      = "./data"
	defaultShowsFile    = "config_shows.json"
	defaultStationsFile = "config_stations.json"
	defaultListenAddr   = ":8080"
	defaultLogLevel     = "info"
	defaultLogService   = "aircheck"
	defaultMetricsAddr  = ":9090"

	defaultWatchDebounce = 500 * time.Millisecond

	defaultRateLimitRequests = 30
	defaultRateLimitWindow   = time.Minute
)
