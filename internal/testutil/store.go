// Package testutil provides reusable builders for store-backed tests.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/loamkb/loam/internal/storage"
	"github.com/loamkb/loam/internal/store"
)

// TestStore builds a temporary markdown note store.
type TestStore struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestStore creates a new test store builder. Call Build to create the
// directory.
func NewTestStore(t *testing.T) *TestStore {
	t.Helper()
	return &TestStore{
		t:     t,
		files: make(map[string]string),
	}
}

// WithNote adds a markdown note at a store-relative path (no extension).
func (ts *TestStore) WithNote(path, content string) *TestStore {
	ts.files[path+".md"] = content
	return ts
}

// WithFile adds a raw file at a store-relative path.
func (ts *TestStore) WithFile(path, content string) *TestStore {
	ts.files[path] = content
	return ts
}

// Build creates the store directory and all configured files.
func (ts *TestStore) Build() *TestStore {
	ts.t.Helper()

	ts.Path = ts.t.TempDir()
	for path, content := range ts.files {
		full := filepath.Join(ts.Path, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			ts.t.Fatalf("failed to create directory for %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			ts.t.Fatalf("failed to write %s: %v", path, err)
		}
	}
	return ts
}

// Open loads the built directory into a live store.
func (ts *TestStore) Open() *store.Store {
	ts.t.Helper()

	backend, err := storage.OpenDir(ts.Path)
	if err != nil {
		ts.t.Fatalf("failed to open store backend: %v", err)
	}
	s, err := store.Open(backend)
	if err != nil {
		ts.t.Fatalf("failed to load store: %v", err)
	}
	return s
}

// ReadFile returns the content of a file in the store.
func (ts *TestStore) ReadFile(relPath string) string {
	ts.t.Helper()
	content, err := os.ReadFile(filepath.Join(ts.Path, filepath.FromSlash(relPath)))
	if err != nil {
		ts.t.Fatalf("failed to read %s: %v", relPath, err)
	}
	return string(content)
}

// AssertFileExists fails the test if the file does not exist.
func (ts *TestStore) AssertFileExists(relPath string) {
	ts.t.Helper()
	if _, err := os.Stat(filepath.Join(ts.Path, filepath.FromSlash(relPath))); os.IsNotExist(err) {
		ts.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (ts *TestStore) AssertFileNotExists(relPath string) {
	ts.t.Helper()
	if _, err := os.Stat(filepath.Join(ts.Path, filepath.FromSlash(relPath))); err == nil {
		ts.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain the substring.
func (ts *TestStore) AssertFileContains(relPath, substr string) {
	ts.t.Helper()
	content := ts.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		ts.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}
