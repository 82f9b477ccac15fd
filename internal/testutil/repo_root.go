package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// ChdirRepoRoot moves the test into the module root, found by walking up to
// go.mod, so relative paths such as templates/ resolve. The previous working
// directory is restored at cleanup.
func ChdirRepoRoot(t *testing.T) {
	t.Helper()
	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root := start
	for {
		if _, err := os.Stat(filepath.Join(root, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(root)
		if parent == root {
			t.Fatalf("no go.mod above %s", start)
		}
		root = parent
	}
	t.Cleanup(func() { _ = os.Chdir(start) })
	if err := os.Chdir(root); err != nil {
		t.Fatalf("chdir %s: %v", root, err)
	}
}
