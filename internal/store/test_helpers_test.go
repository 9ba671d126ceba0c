package store

import (
	"path/filepath"
	"testing"
)

// createTestStore opens a store in a temp dir with deterministic group IDs.
func createTestStore(t *testing.T, ids ...string) *Store {
	t.Helper()
	if len(ids) == 0 {
		ids = []string{"group-1", "group-2", "group-3"}
	}
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(NewFixedGenerator(ids...)))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var (
	testA = []string{"A1", "A2", "A3"}
	testB = []string{"B1", "B2", "B3"}
)
