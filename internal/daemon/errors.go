// SPDX-License-Identifier: MIT

package daemon

import "errors"

var (
	// ErrMissingLogger is returned when logger is not provided
	ErrMissingLogger = errors.New("logger is required")

	// ErrMissingWebHandler is returned when the web handler is not provided
	ErrMissingWebHandler = errors.New("web handler is required")

	// ErrMissingManager is returned when a daemon app is created without a manager.
	ErrMissingManager = errors.New("manager is required")

	// ErrManagerNotStarted is returned when trying to shutdown a manager that hasn't started
	ErrManagerNotStarted = errors.New("manager not started")
)
