// SPDX-License-Identifier: MIT
package validate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidator_NotEmpty(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"non-empty", "value", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"tab and newline", "\t\n", true},
		{"padded value", "  x  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.NotEmpty("testField", tt.value)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_OneOf(t *testing.T) {
	allowed := []string{"debug", "info", "warn", "error"}

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"allowed value", "info", false},
		{"another allowed value", "error", false},
		{"unknown value", "verbose", true},
		{"empty value", "", true},
		{"case mismatch", "INFO", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.OneOf("logLevel", tt.value, allowed)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_Range(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		min     int
		max     int
		wantErr bool
	}{
		{"in range", 5, 1, 10, false},
		{"at min", 1, 1, 10, false},
		{"at max", 10, 1, 10, false},
		{"below min", 0, 1, 10, true},
		{"above max", 11, 1, 10, true},
		{"negative range", -5, -10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Range("testValue", tt.value, tt.min, tt.max)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_Filename(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"plain name", "config_shows.json", false},
		{"name without extension", "shows", false},
		{"empty", "", true},
		{"whitespace", "  ", true},
		{"with directory", "config/shows.json", true},
		{"absolute", "/etc/passwd", true},
		{"traversal", "../shows.json", true},
		{"dot", ".", true},
		{"dotdot", "..", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Filename("showsFile", tt.value)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_ListenAddr(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"port only", ":8080", false},
		{"host and port", "127.0.0.1:8080", false},
		{"hostname and port", "localhost:9090", false},
		{"empty", "", true},
		{"missing port", "127.0.0.1", true},
		{"named port", ":http", true},
		{"port zero", ":0", true},
		{"port too large", ":70000", true},
		{"garbage", "not an address", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.ListenAddr("listenAddr", tt.value)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_WritableDirectory(t *testing.T) {
	t.Run("existing dir", func(t *testing.T) {
		v := New()
		v.WritableDirectory("dataDir", t.TempDir(), true)
		if !v.IsValid() {
			t.Errorf("unexpected error: %v", v.Err())
		}
	})

	t.Run("created when missing", func(t *testing.T) {
		newDir := filepath.Join(t.TempDir(), "data")
		v := New()
		v.WritableDirectory("dataDir", newDir, false)
		if !v.IsValid() {
			t.Fatalf("unexpected error: %v", v.Err())
		}
		if _, err := os.Stat(newDir); err != nil {
			t.Errorf("directory was not created: %v", err)
		}
	})

	t.Run("missing with mustExist", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing")
		v := New()
		v.WritableDirectory("dataDir", missing, true)
		if v.IsValid() {
			t.Fatal("expected error, got none")
		}
		if !strings.Contains(v.Err().Error(), "directory does not exist") {
			t.Errorf("unexpected message: %v", v.Err())
		}
	})

	t.Run("path is a file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
		v := New()
		v.WritableDirectory("dataDir", file, true)
		if v.IsValid() {
			t.Fatal("expected error, got none")
		}
	})

	t.Run("read-only dir", func(t *testing.T) {
		if os.Geteuid() == 0 {
			t.Skip("running as root, directories are always writable")
		}
		readOnly := filepath.Join(t.TempDir(), "readonly")
		if err := os.Mkdir(readOnly, 0500); err != nil {
			t.Fatal(err)
		}
		v := New()
		v.WritableDirectory("dataDir", readOnly, true)
		if v.IsValid() {
			t.Fatal("expected error, got none")
		}
		if !strings.Contains(v.Err().Error(), "directory is not writable") {
			t.Errorf("unexpected message: %v", v.Err())
		}
	})

	t.Run("empty path", func(t *testing.T) {
		v := New()
		v.WritableDirectory("dataDir", "", false)
		if v.IsValid() {
			t.Fatal("expected error, got none")
		}
	})

	t.Run("traversal", func(t *testing.T) {
		v := New()
		v.WritableDirectory("dataDir", "../data", false)
		if v.IsValid() {
			t.Fatal("expected error, got none")
		}
	})
}

func TestValidator_Accumulation(t *testing.T) {
	v := New()
	v.NotEmpty("first", "")
	v.NotEmpty("second", "ok")
	v.NotEmpty("third", "  ")

	if v.IsValid() {
		t.Fatal("expected validator to be invalid")
	}
	if got := len(v.Errors()); got != 2 {
		t.Fatalf("expected 2 errors, got %d", got)
	}

	err := v.Err()
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if got := len(verr.Errors()); got != 2 {
		t.Fatalf("expected 2 errors in ValidationError, got %d", got)
	}
	if verr.Errors()[0].Field != "first" {
		t.Errorf("unexpected first field: %s", verr.Errors()[0].Field)
	}
	if !strings.Contains(err.Error(), "; ") {
		t.Errorf("multiple errors should be joined: %v", err)
	}
}

func TestValidator_ErrNilWhenValid(t *testing.T) {
	v := New()
	v.NotEmpty("field", "ok")

	if err := v.Err(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}
