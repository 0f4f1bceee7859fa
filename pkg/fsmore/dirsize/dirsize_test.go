package dirsize

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestDirectorySizeAggregatesTree(t *testing.T) {
	base := t.TempDir()
	if err := os.MkdirAll(filepath.Join(base, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "a.bin"), make([]byte, 10), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(base, "sub", "b.bin"), make([]byte, 20), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := DirectorySize(context.Background(), base, Options{Unlimited: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.TotalBytes != 30 {
		t.Errorf("expected 30 total bytes, got %d", result.TotalBytes)
	}
	if result.FileCount != 2 {
		t.Errorf("expected 2 files, got %d", result.FileCount)
	}
	if result.DirectoryCount != 1 {
		t.Errorf("expected 1 subdirectory (excluding root), got %d", result.DirectoryCount)
	}
}
