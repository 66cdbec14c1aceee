package security

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewPathValidator(t *testing.T) {
	if _, err := NewPathValidator(""); err == nil {
		t.Error("expected error for empty configured directory")
	}

	validator, err := NewPathValidator("/tmp/documents")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if validator.GetConfiguredDirectory() != "/tmp/documents" {
		t.Errorf("unexpected configured directory: %s", validator.GetConfiguredDirectory())
	}
}

func TestPathValidator_ValidatePath(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "path_validator_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	inside := filepath.Join(tempDir, "boletin.pdf")
	if err := os.WriteFile(inside, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	validator, err := NewPathValidator(tempDir)
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name:    "path inside root",
			path:    inside,
			wantErr: false,
		},
		{
			name:    "root itself",
			path:    tempDir,
			wantErr: false,
		},
		{
			name:    "nonexistent path inside root",
			path:    filepath.Join(tempDir, "sub", "missing.pdf"),
			wantErr: false,
		},
		{
			name:    "path outside root",
			path:    filepath.Dir(tempDir),
			wantErr: true,
		},
		{
			name:    "traversal escaping root",
			path:    filepath.Join(tempDir, "..", "other", "secret.pdf"),
			wantErr: true,
		},
		{
			name:    "empty path",
			path:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidatePath(tt.path)
			if tt.wantErr && err == nil {
				t.Error("expected error but got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPathValidator_ValidatePath_NonexistentRoot(t *testing.T) {
	validator, err := NewPathValidator(filepath.Join(os.TempDir(), "does-not-exist-yet"))
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}

	// A root that was never created cannot be escaped yet.
	if err := validator.ValidatePath("/anywhere/at/all.pdf"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPathValidator_NormalizePath(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "normalize_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	validator, err := NewPathValidator(tempDir)
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}

	t.Run("relative path joins onto root", func(t *testing.T) {
		got, err := validator.NormalizePath("boletin.pdf")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := filepath.Join(tempDir, "boletin.pdf")
		if got != want {
			t.Errorf("expected %q but got %q", want, got)
		}
	})

	t.Run("absolute path inside root passes through", func(t *testing.T) {
		want := filepath.Join(tempDir, "sub", "boletin.pdf")
		got, err := validator.NormalizePath(want)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != want {
			t.Errorf("expected %q but got %q", want, got)
		}
	})

	t.Run("absolute path outside root is rejected", func(t *testing.T) {
		if _, err := validator.NormalizePath(filepath.Dir(tempDir)); err == nil {
			t.Error("expected error but got none")
		}
	})

	t.Run("empty path is rejected", func(t *testing.T) {
		if _, err := validator.NormalizePath(""); err == nil {
			t.Error("expected error but got none")
		}
	})
}

func TestPathValidator_ValidateDirectory(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "validate_dir_test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	file := filepath.Join(tempDir, "boletin.pdf")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	subDir := filepath.Join(tempDir, "sub")
	if err := os.Mkdir(subDir, 0o750); err != nil {
		t.Fatalf("failed to create sub dir: %v", err)
	}

	validator, err := NewPathValidator(tempDir)
	if err != nil {
		t.Fatalf("failed to create validator: %v", err)
	}

	if err := validator.ValidateDirectory(subDir); err != nil {
		t.Errorf("unexpected error for subdirectory: %v", err)
	}
	if err := validator.ValidateDirectory(file); err == nil {
		t.Error("expected error for a file path")
	}
	if err := validator.ValidateDirectory(filepath.Join(tempDir, "missing")); err != nil {
		t.Errorf("unexpected error for nonexistent directory inside root: %v", err)
	}
	if err := validator.ValidateDirectory(filepath.Dir(tempDir)); err == nil {
		t.Error("expected error for directory outside root")
	}
}
