// SPDX-License-Identifier: MIT

package config

import (
	"strings"

	"github.com/aircheck-dev/aircheck/internal/validate"
)

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	// Data directory must exist (created when missing) and be writable
	v.WritableDirectory("DataDir", cfg.DataDir, false)

	// Document names are confined to the data directory
	v.Filename("ShowsFile", cfg.ShowsFile)
	v.Filename("StationsFile", cfg.StationsFile)
	if cfg.ShowsFile == cfg.StationsFile {
		v.AddError("StationsFile", "must differ from ShowsFile", cfg.StationsFile)
	}

	v.ListenAddr("ListenAddr", cfg.ListenAddr)
	if cfg.MetricsEnabled {
		v.ListenAddr("MetricsAddr", cfg.MetricsAddr)
	}

	v.OneOf("LogLevel", strings.ToLower(cfg.LogLevel), []string{"trace", "debug", "info", "warn", "error"})

	if cfg.WatchEnabled && cfg.WatchDebounce <= 0 {
		v.AddError("WatchDebounce", "must be > 0 when the watcher is enabled", cfg.WatchDebounce)
	}

	if cfg.RateLimitEnabled {
		v.Range("RateLimitRequests", cfg.RateLimitRequests, 1, 10000)
		if cfg.RateLimitWindow <= 0 {
			v.AddError("RateLimitWindow", "must be > 0 when rate limiting is enabled", cfg.RateLimitWindow)
		}
	}

	// TLS cert and key must be configured together
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		v.AddError("TLS", "cert and key must both be set or both be empty", "")
	}

	return v.Err()
}
