// Package security confines document operations to a configured
// directory so tool callers cannot reach arbitrary paths.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator validates that file and directory paths stay within
// the configured documents directory.
type PathValidator struct {
	configuredDirectory string
}

// NewPathValidator creates a validator rooted at the given directory.
// The directory does not need to exist yet.
func NewPathValidator(configuredDirectory string) (*PathValidator, error) {
	if configuredDirectory == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	return &PathValidator{
		configuredDirectory: configuredDirectory,
	}, nil
}

// GetConfiguredDirectory returns the configured root directory.
func (v *PathValidator) GetConfiguredDirectory() string {
	return v.configuredDirectory
}

// ValidatePath checks that path resolves inside the configured
// directory, following symlinks on both sides.
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	// A root that does not exist yet cannot be escaped.
	if _, err := os.Stat(v.configuredDirectory); os.IsNotExist(err) {
		return nil
	}

	within, err := v.isWithinRoot(path)
	if err != nil {
		return fmt.Errorf("path validation failed: %w", err)
	}
	if !within {
		return fmt.Errorf("path is outside configured directory: %s", path)
	}
	return nil
}

// ValidateDirectory checks that dirPath is inside the configured
// directory and, if it exists, actually is a directory.
func (v *PathValidator) ValidateDirectory(dirPath string) error {
	if err := v.ValidatePath(dirPath); err != nil {
		return err
	}

	info, err := os.Stat(dirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dirPath)
	}
	return nil
}

// NormalizePath resolves path relative to the configured directory and
// validates the result.
func (v *PathValidator) NormalizePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(v.configuredDirectory, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if err := v.ValidatePath(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

// isWithinRoot resolves both the candidate path and the root, symlinks
// included, and compares by path prefix.
func (v *PathValidator) isWithinRoot(path string) (bool, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to resolve path: %w", err)
	}
	absRoot, err := filepath.Abs(v.configuredDirectory)
	if err != nil {
		return false, fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanRoot := filepath.Clean(absRoot)

	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}

	realRoot := cleanRoot
	if resolved, err := filepath.EvalSymlinks(cleanRoot); err == nil {
		realRoot = resolved
	}

	return hasRoot(cleanPath, cleanRoot) && hasRoot(realPath, realRoot) ||
		hasRoot(cleanPath, realRoot) && hasRoot(realPath, realRoot), nil
}

// hasRoot reports whether path equals root or lives below it.
func hasRoot(path, root string) bool {
	if path == root {
		return true
	}
	if !strings.HasSuffix(root, string(filepath.Separator)) {
		root += string(filepath.Separator)
	}
	return strings.HasPrefix(path, root)
}
