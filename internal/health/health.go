// SPDX-License-Identifier: MIT

// Package health provides health and readiness check functionality for
// container deployments. It supports Docker HEALTHCHECK and Kubernetes
// probes with detailed component status.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/aircheck-dev/aircheck/internal/log"
)

// Status represents the overall health/readiness status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the result of a component health check
type CheckResult struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse represents the full health check response
type HealthResponse struct {
	Status    Status                 `json:"status"`
	Version   string                 `json:"version,omitempty"`
	Uptime    int64                  `json:"uptime"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// ReadinessResponse represents the readiness check response
type ReadinessResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// Checker defines the interface for health checks
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// Manager manages health and readiness checks
type Manager struct {
	version   string
	startTime time.Time
	checkers  []Checker
}

// NewManager creates a new health check manager
func NewManager(version string) *Manager {
	return &Manager{
		version:   version,
		startTime: time.Now(),
		checkers:  make([]Checker, 0),
	}
}

// RegisterChecker adds a health checker to the manager
func (m *Manager) RegisterChecker(checker Checker) {
	m.checkers = append(m.checkers, checker)
}

// Health performs a health check (liveness probe)
// Returns 200 if the process is alive, regardless of service state
func (m *Manager) Health(ctx context.Context, verbose bool) HealthResponse {
	resp := HealthResponse{
		Status:    StatusHealthy,
		Version:   m.version,
		Uptime:    int64(time.Since(m.startTime).Seconds()),
		Timestamp: time.Now(),
	}

	if verbose && len(m.checkers) > 0 {
		resp.Checks = make(map[string]CheckResult)
		hasUnhealthy := false
		hasDegraded := false

		for _, checker := range m.checkers {
			result := checker.Check(ctx)
			resp.Checks[checker.Name()] = result

			switch result.Status {
			case StatusUnhealthy:
				hasUnhealthy = true
			case StatusDegraded:
				hasDegraded = true
			}
		}

		if hasUnhealthy {
			resp.Status = StatusUnhealthy
		} else if hasDegraded {
			resp.Status = StatusDegraded
		}
	}

	return resp
}

// Ready performs a readiness check (readiness probe)
// Returns 200 if services are initialized and ready to serve traffic
func (m *Manager) Ready(ctx context.Context) ReadinessResponse {
	resp := ReadinessResponse{
		Ready:     true,
		Status:    StatusHealthy,
		Timestamp: time.Now(),
	}

	if len(m.checkers) == 0 {
		return resp
	}

	resp.Checks = make(map[string]CheckResult)
	hasUnhealthy := false
	hasDegraded := false

	for _, checker := range m.checkers {
		result := checker.Check(ctx)
		resp.Checks[checker.Name()] = result

		switch result.Status {
		case StatusUnhealthy:
			hasUnhealthy = true
			resp.Ready = false
		case StatusDegraded:
			hasDegraded = true
		}
	}

	if hasUnhealthy {
		resp.Status = StatusUnhealthy
	} else if hasDegraded {
		resp.Status = StatusDegraded
	}

	return resp
}

// ServeHealth handles HTTP health check requests
func (m *Manager) ServeHealth(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "health")
	verbose := r.URL.Query().Get("verbose") == "true"

	resp := m.Health(r.Context(), verbose)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK) // Always 200 for liveness

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Str("event", "health.encode_error").Msg("failed to encode health response")
	}

	logger.Debug().
		Str("event", "health.checked").
		Str("status", string(resp.Status)).
		Bool("verbose", verbose).
		Msg("health check performed")
}

// ServeReady handles HTTP readiness check requests
func (m *Manager) ServeReady(w http.ResponseWriter, r *http.Request) {
	logger := log.WithComponentFromContext(r.Context(), "readiness")

	resp := m.Ready(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if resp.Ready {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Str("event", "readiness.encode_error").Msg("failed to encode readiness response")
	}

	logger.Debug().
		Str("event", "readiness.checked").
		Str("status", string(resp.Status)).
		Bool("ready", resp.Ready).
		Msg("readiness check performed")
}

// DocumentChecker verifies that a JSON document on disk still parses.
// A missing file is healthy: documents are created on first save.
type DocumentChecker struct {
	name   string
	path   string
	decode func([]byte) error
}

// NewDocumentChecker creates a checker for one managed document. decode
// must unmarshal the raw bytes into the document's concrete shape.
func NewDocumentChecker(name, path string, decode func([]byte) error) *DocumentChecker {
	return &DocumentChecker{
		name:   name,
		path:   path,
		decode: decode,
	}
}

func (c *DocumentChecker) Name() string {
	return c.name
}

func (c *DocumentChecker) Check(_ context.Context) CheckResult {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusHealthy,
				Message: "not created yet",
			}
		}
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}

	if err := c.decode(data); err != nil {
		// The editor still serves; the operator has to fix the file.
		return CheckResult{
			Status:  StatusDegraded,
			Error:   err.Error(),
			Message: "document does not parse",
		}
	}

	return CheckResult{
		Status:  StatusHealthy,
		Message: "document parses cleanly",
	}
}

// WritableDirChecker verifies the data directory accepts writes. Saving
// is the service's core function, so an unwritable directory is fatal.
type WritableDirChecker struct {
	name string
	dir  string
}

// NewWritableDirChecker creates a checker for directory writability
func NewWritableDirChecker(name, dir string) *WritableDirChecker {
	return &WritableDirChecker{
		name: name,
		dir:  dir,
	}
}

func (c *WritableDirChecker) Name() string {
	return c.name
}

func (c *WritableDirChecker) Check(_ context.Context) CheckResult {
	info, err := os.Stat(c.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{
				Status:  StatusUnhealthy,
				Error:   "directory does not exist",
				Message: c.dir,
			}
		}
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  err.Error(),
		}
	}

	if !info.IsDir() {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  "expected directory, got file",
		}
	}

	probe, err := os.CreateTemp(c.dir, ".probe-*")
	if err != nil {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  "directory is not writable",
		}
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)

	return CheckResult{
		Status:  StatusHealthy,
		Message: "directory is writable",
	}
}
