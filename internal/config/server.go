// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	// ReadTimeout is the maximum duration for reading the entire request
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration

	// IdleTimeout is the maximum amount of time to wait for the next request
	IdleTimeout time.Duration

	// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header's keys and values
	MaxHeaderBytes int

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown
	ShutdownTimeout time.Duration
}

const (
	// Default server timeouts
	defaultReadTimeout     = 30 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultMaxHeaderBytes  = 1 << 20 // 1 MB
	defaultShutdownTimeout = 15 * time.Second

	minShutdownTimeout = 3 * time.Second
)

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadTimeout:     defaultReadTimeout,
		WriteTimeout:    defaultWriteTimeout,
		IdleTimeout:     defaultIdleTimeout,
		MaxHeaderBytes:  defaultMaxHeaderBytes,
		ShutdownTimeout: defaultShutdownTimeout,
	}
}

func mergeServerFileConfig(cfg *ServerConfig, file ServerFileConfig) error {
	if file.ReadTimeout != "" {
		d, err := time.ParseDuration(file.ReadTimeout)
		if err != nil {
			return fmt.Errorf("server.readTimeout: %w", err)
		}
		cfg.ReadTimeout = d
	}
	if file.WriteTimeout != "" {
		d, err := time.ParseDuration(file.WriteTimeout)
		if err != nil {
			return fmt.Errorf("server.writeTimeout: %w", err)
		}
		cfg.WriteTimeout = d
	}
	if file.IdleTimeout != "" {
		d, err := time.ParseDuration(file.IdleTimeout)
		if err != nil {
			return fmt.Errorf("server.idleTimeout: %w", err)
		}
		cfg.IdleTimeout = d
	}
	if file.MaxHeaderBytes > 0 {
		cfg.MaxHeaderBytes = file.MaxHeaderBytes
	}
	if file.ShutdownTimeout != "" {
		d, err := time.ParseDuration(file.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("server.shutdownTimeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	return nil
}

func mergeServerEnvConfig(cfg *ServerConfig) {
	cfg.ReadTimeout = ParseDuration("AIRCHECK_SERVER_READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = ParseDuration("AIRCHECK_SERVER_WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.IdleTimeout = ParseDuration("AIRCHECK_SERVER_IDLE_TIMEOUT", cfg.IdleTimeout)

	maxHeaderBytes := ParseInt("AIRCHECK_SERVER_MAX_HEADER_BYTES", cfg.MaxHeaderBytes)
	if maxHeaderBytes > 0 {
		cfg.MaxHeaderBytes = maxHeaderBytes
	}

	shutdownTimeout := ParseDuration("AIRCHECK_SERVER_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if shutdownTimeout < minShutdownTimeout {
		shutdownTimeout = minShutdownTimeout
	}
	cfg.ShutdownTimeout = shutdownTimeout
}
