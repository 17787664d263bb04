package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadInputFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "batch.json")
	if err := os.WriteFile(path, []byte(`[{"url":"https://example.com/a","title":"T"}]`), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	raw, err := readInput(path)
	if err != nil {
		t.Fatalf("readInput failed: %v", err)
	}
	if len(raw) == 0 {
		t.Fatalf("expected file contents")
	}
}

func TestReadInputMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := readInput(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
