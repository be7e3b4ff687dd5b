package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// NewReportWorkspace creates a temp directory holding UAT.json with the
// given content and an empty .uat settings home. Returns the directory.
func NewReportWorkspace(t *testing.T, reportDoc string) string {
	t.Helper()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".uat"), 0755); err != nil {
		t.Fatalf("Failed to create settings directory: %v", err)
	}
	if reportDoc != "" {
		WriteFile(t, dir, "UAT.json", reportDoc)
	}
	return dir
}

// WriteFile writes content to dir/name and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

// ReadJSON decodes dir/name into a generic map.
func ReadJSON(t *testing.T, dir, name string) map[string]interface{} {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("Failed to read %s: %v", name, err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to parse %s: %v", name, err)
	}
	return doc
}

// AssertFileNotExists verifies that a file does not exist
func AssertFileNotExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist but does: %s", path)
	}
}

// AssertFileExists verifies that a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File should exist but doesn't: %s", path)
	}
}
