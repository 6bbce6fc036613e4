//go:build integration

package integration

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FixturesDir returns the path to the fixtures directory
func FixturesDir(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(filename), "fixtures")
}

// SeedPath returns the path to a seed fixture, e.g. "company.yaml"
func SeedPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(FixturesDir(t), name)
}

// TempConfigPath creates a temporary config file path for testing
func TempConfigPath(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "config.toml")
}

// CopySeedToTemp copies a seed fixture to a temp directory.
// This is useful when tests need to modify the file
func CopySeedToTemp(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(SeedPath(t, name))
	if err != nil {
		t.Fatalf("Failed to read fixture: %v", err)
	}

	dst := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(dst, data, 0644); err != nil {
		t.Fatalf("Failed to copy fixture: %v", err)
	}
	return dst
}
