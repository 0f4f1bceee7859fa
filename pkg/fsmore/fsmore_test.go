package fsmore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyDirectoryDeepTree(t *testing.T) {
	source := t.TempDir()
	destination := filepath.Join(t.TempDir(), "dest")

	if err := os.MkdirAll(filepath.Join(source, "foo", "bar"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(source, "a.bin"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(source, "foo", "bar", "b.bin"), []byte("world!"), 0o644); err != nil {
		t.Fatal(err)
	}

	outcome, err := CopyDirectory(context.Background(), source, destination, CopyOptions{
		Destination: DefaultDestinationRule(),
		Depth:       UnlimitedDepth(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if outcome.FilesCopied != 2 {
		t.Errorf("expected 2 files copied, got %d", outcome.FilesCopied)
	}
	if outcome.DirectoriesCreated != 2 {
		t.Errorf("expected 2 directories created, got %d", outcome.DirectoriesCreated)
	}
	data, err := os.ReadFile(filepath.Join(destination, "foo", "bar", "b.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "world!" {
		t.Errorf("expected copied content %q, got %q", "world!", data)
	}
}

func TestCopyDirectoryRejectsCollisionUnderDisallowExisting(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()

	_, err := CopyDirectory(context.Background(), source, destination, CopyOptions{
		Destination: DefaultDestinationRule(),
		Depth:       UnlimitedDepth(),
	})
	if err == nil {
		t.Fatal("expected error when destination already exists under DisallowExisting")
	}
}

func TestCopyDirectoryWithProgressReachesCompletion(t *testing.T) {
	source := t.TempDir()
	destination := filepath.Join(t.TempDir(), "dest")
	if err := os.WriteFile(filepath.Join(source, "a.bin"), []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	var lastProgress *Progress
	_, err := CopyDirectoryWithProgress(context.Background(), source, destination, CopyOptions{
		Destination: DefaultDestinationRule(),
		Depth:       UnlimitedDepth(),
	}, func(p *Progress) {
		lastProgress = p.Clone()
	})
	if err != nil {
		t.Fatal(err)
	}
	if lastProgress == nil {
		t.Fatal("expected at least one progress callback")
	}
	if lastProgress.BytesFinished != lastProgress.BytesTotal {
		t.Errorf("expected final progress to report completion, got %d/%d", lastProgress.BytesFinished, lastProgress.BytesTotal)
	}
}

func TestMoveDirectoryByRename(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "source")
	if err := os.Mkdir(source, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(source, "a.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	destination := filepath.Join(base, "destination")

	outcome, err := MoveDirectory(context.Background(), source, destination, MoveOptions{
		Destination: DefaultDestinationRule(),
		Depth:       UnlimitedDepth(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !outcome.UsedRename {
		t.Error("expected rename strategy when destination does not exist")
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Error("expected source to no longer exist")
	}
}
