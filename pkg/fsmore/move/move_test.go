package move

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsmore/fsmore/pkg/fsmore/execute"
	"github.com/fsmore/fsmore/pkg/fsmore/plan"
	"github.com/fsmore/fsmore/pkg/fsmore/validate"
)

func TestMoveUsesRenameWhenDestinationAbsent(t *testing.T) {
	base := t.TempDir()
	sourcePath := filepath.Join(base, "source")
	if err := os.Mkdir(sourcePath, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sourcePath, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	destinationPath := filepath.Join(base, "destination")

	source, err := validate.ValidateSource(sourcePath)
	if err != nil {
		t.Fatal(err)
	}

	outcome, err := Move(context.Background(), source, destinationPath, plan.Options{Unlimited: true}, execute.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Strategy != StrategyRename {
		t.Errorf("expected StrategyRename, got %v", outcome.Strategy)
	}
	if outcome.FilesCopied != 1 {
		t.Errorf("expected pre-collected FilesCopied of 1, got %d", outcome.FilesCopied)
	}
	if outcome.BytesCopied != 1 {
		t.Errorf("expected pre-collected BytesCopied of 1, got %d", outcome.BytesCopied)
	}
	if _, err := os.Stat(sourcePath); !os.IsNotExist(err) {
		t.Error("expected source path to no longer exist after rename")
	}
	if _, err := os.Stat(filepath.Join(destinationPath, "a.txt")); err != nil {
		t.Errorf("expected destination content to exist: %v", err)
	}
}

func TestMoveFallsBackToCopyAndDeleteWhenDestinationNonEmpty(t *testing.T) {
	base := t.TempDir()
	sourcePath := filepath.Join(base, "source")
	if err := os.Mkdir(sourcePath, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sourcePath, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	destinationPath := filepath.Join(base, "destination")
	if err := os.Mkdir(destinationPath, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(destinationPath, "preexisting.txt"), []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}

	source, err := validate.ValidateSource(sourcePath)
	if err != nil {
		t.Fatal(err)
	}

	outcome, err := Move(context.Background(), source, destinationPath, plan.Options{Unlimited: true}, execute.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Strategy != StrategyCopyAndDelete {
		t.Errorf("expected StrategyCopyAndDelete, got %v", outcome.Strategy)
	}
	if _, err := os.Stat(sourcePath); !os.IsNotExist(err) {
		t.Error("expected source path to be removed after copy-and-delete fallback")
	}
	if _, err := os.Stat(filepath.Join(destinationPath, "a.txt")); err != nil {
		t.Errorf("expected destination content to exist: %v", err)
	}
}

func TestMoveOfSymlinkToDirectoryPreservesTarget(t *testing.T) {
	base := t.TempDir()
	realDir := filepath.Join(base, "real")
	if err := os.Mkdir(realDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(realDir, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	linkPath := filepath.Join(base, "link")
	if err := os.Symlink(realDir, linkPath); err != nil {
		t.Fatal(err)
	}
	destinationPath := filepath.Join(base, "destination")

	source, err := validate.ValidateSource(linkPath)
	if err != nil {
		t.Fatal(err)
	}

	outcome, err := Move(context.Background(), source, destinationPath, plan.Options{Unlimited: true}, execute.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if outcome.Strategy != StrategyCopyAndDelete {
		t.Errorf("expected StrategyCopyAndDelete for symlink source, got %v", outcome.Strategy)
	}
	if _, err := os.Lstat(linkPath); !os.IsNotExist(err) {
		t.Error("expected the symlink itself to be removed")
	}
	if _, err := os.Stat(realDir); err != nil {
		t.Errorf("expected the symlink's target directory to be left untouched: %v", err)
	}
	if _, err := os.Stat(filepath.Join(destinationPath, "a.txt")); err != nil {
		t.Errorf("expected destination content to exist: %v", err)
	}
}
