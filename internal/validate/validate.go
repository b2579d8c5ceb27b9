// SPDX-License-Identifier: MIT

// Package validate provides validation utilities shared by the configuration
// loader and the form handlers.
package validate

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Error represents a validation error
type Error struct {
	Field   string      // Field name that failed validation
	Value   interface{} // The invalid value
	Message string      // Human-readable error message
}

// Error implements the error interface
func (e Error) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

// Validator accumulates validation errors and can produce a ValidationError when invalid.
type Validator struct {
	errors []Error
}

// ValidationError bundles multiple validation errors into a single error value.
type ValidationError struct {
	errors []Error
}

// New creates a new validator
func New() *Validator {
	return &Validator{
		errors: make([]Error, 0),
	}
}

// AddError adds a validation error
func (v *Validator) AddError(field, message string, value interface{}) {
	v.errors = append(v.errors, Error{
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// IsValid returns true if no errors have been accumulated
func (v *Validator) IsValid() bool {
	return len(v.errors) == 0
}

// Errors returns all accumulated validation errors
func (v *Validator) Errors() []Error {
	return v.errors
}

// Err converts the accumulated validation errors into an error value.
func (v *Validator) Err() error {
	if len(v.errors) == 0 {
		return nil
	}

	copied := make([]Error, len(v.errors))
	copy(copied, v.errors)

	return ValidationError{errors: copied}
}

// Errors returns the individual validation errors making up the validation failure.
func (e ValidationError) Errors() []Error {
	return e.errors
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	if len(e.errors) == 0 {
		return ""
	}

	if len(e.errors) == 1 {
		return e.errors[0].Error()
	}

	// Multiple errors - format as list
	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// NotEmpty validates that a string is not empty or whitespace-only
func (v *Validator) NotEmpty(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "value cannot be empty", value)
	}
}

// OneOf validates that a value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v.AddError(field,
		fmt.Sprintf("value must be one of %v, got %q", allowed, value),
		value)
}

// Range validates that an integer is within a specified range (inclusive)
func (v *Validator) Range(field string, value, minVal, maxVal int) {
	if value < minVal || value > maxVal {
		v.AddError(field,
			fmt.Sprintf("value must be between %d and %d, got %d", minVal, maxVal, value),
			value)
	}
}

// Filename validates a bare file name intended to live directly inside a
// managed directory. Separators, traversal sequences and reserved names are
// rejected so the name can never address anything outside that directory.
func (v *Validator) Filename(field, name string) {
	if strings.TrimSpace(name) == "" {
		v.AddError(field, "file name cannot be empty", name)
		return
	}

	if name != filepath.Base(name) {
		v.AddError(field, fmt.Sprintf("must be a bare file name, got %q", name), name)
		return
	}

	if name == "." || name == ".." {
		v.AddError(field, "reserved file name", name)
		return
	}

	if !filepath.IsLocal(name) {
		v.AddError(field, fmt.Sprintf("is not a local file name: %s", name), name)
	}
}

// ListenAddr validates a TCP listen address of the form "host:port" or ":port".
func (v *Validator) ListenAddr(field, addr string) {
	if addr == "" {
		v.AddError(field, "listen address cannot be empty", addr)
		return
	}

	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		v.AddError(field, fmt.Sprintf("invalid listen address: %v", err), addr)
		return
	}

	n, err := strconv.Atoi(port)
	if err != nil {
		v.AddError(field, fmt.Sprintf("port must be numeric, got %q", port), addr)
		return
	}
	if n < 1 || n > 65535 {
		v.AddError(field, fmt.Sprintf("port must be between 1 and 65535, got %d", n), addr)
	}
}

// WritableDirectory validates a directory path and probes that the process can
// write to it. If mustExist is false, the directory is created when missing.
func (v *Validator) WritableDirectory(field, path string, mustExist bool) {
	if path == "" {
		v.AddError(field, "directory path cannot be empty", path)
		return
	}

	if strings.Contains(path, "..") {
		v.AddError(field, "path contains traversal sequences (..)", path)
		return
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		v.AddError(field, fmt.Sprintf("invalid path: %v", err), path)
		return
	}

	info, err := os.Stat(absPath)
	switch {
	case err == nil:
		if !info.IsDir() {
			v.AddError(field, "path is not a directory", path)
			return
		}
	case os.IsNotExist(err):
		if mustExist {
			v.AddError(field, "directory does not exist", path)
			return
		}
		if err := os.MkdirAll(absPath, 0750); err != nil {
			v.AddError(field, fmt.Sprintf("cannot create directory: %v", err), path)
			return
		}
	default:
		v.AddError(field, fmt.Sprintf("cannot access directory: %v", err), path)
		return
	}

	// Probe writability by creating and removing a scratch file.
	probe, err := os.CreateTemp(absPath, ".writable-*")
	if err != nil {
		v.AddError(field, fmt.Sprintf("directory is not writable: %v", err), path)
		return
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
}
