package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fsmore/fsmore/pkg/fsmore/fserrors"
)

func countKind(ops []QueuedOperation, kind OperationKind) int {
	count := 0
	for _, op := range ops {
		if op.Kind == kind {
			count++
		}
	}
	return count
}

func TestBuildDeepTree(t *testing.T) {
	source := t.TempDir()
	destination := filepath.Join(t.TempDir(), "dest")

	if err := os.MkdirAll(filepath.Join(source, "foo", "bar"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(source, "a.bin"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(source, "foo", "b.bin"), []byte("xy"), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := Build(source, destination, Options{Unlimited: true})
	if err != nil {
		t.Fatal(err)
	}
	if countKind(result.Operations, OpCreateDirectory) != 2 {
		t.Errorf("expected 2 directory operations, got %d", countKind(result.Operations, OpCreateDirectory))
	}
	if countKind(result.Operations, OpCopyFile) != 2 {
		t.Errorf("expected 2 file operations, got %d", countKind(result.Operations, OpCopyFile))
	}
	// Two file bytes plus one, and the metadata length of each directory.
	expectedBytes := uint64(3)
	for _, dir := range []string{filepath.Join(source, "foo"), filepath.Join(source, "foo", "bar")} {
		info, err := os.Lstat(dir)
		if err != nil {
			t.Fatal(err)
		}
		expectedBytes += uint64(info.Size())
	}
	if result.TotalBytes != expectedBytes {
		t.Errorf("expected %d total bytes, got %d", expectedBytes, result.TotalBytes)
	}

	for _, op := range result.Operations {
		if filepath.Dir(op.DestinationPath) == source {
			t.Errorf("destination path %s unexpectedly rooted at source", op.DestinationPath)
		}
	}
}

func TestBuildDepthLimit(t *testing.T) {
	source := t.TempDir()
	destination := filepath.Join(t.TempDir(), "dest")
	if err := os.MkdirAll(filepath.Join(source, "foo", "bar", "hello", "world"), 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Build(source, destination, Options{MaximumDepth: 2})
	if err != nil {
		t.Fatal(err)
	}
	for _, op := range result.Operations {
		if filepath.Base(op.DestinationPath) == "world" {
			t.Error("did not expect world directory past depth limit")
		}
	}
}

func TestBuildAbortsOnFileCollision(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()
	if err := os.WriteFile(filepath.Join(source, "a.txt"), []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(destination, "a.txt"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Build(source, destination, Options{Unlimited: true, FileCollisionPolicy: FileCollisionAbort})
	if _, ok := err.(*fserrors.DestinationItemAlreadyExists); !ok {
		t.Fatalf("expected DestinationItemAlreadyExists, got %#v", err)
	}
}

func TestBuildFailsOnFileCollisionUnderSkipPolicy(t *testing.T) {
	// FileCollisionSkip has no distinct meaning at planning time: a
	// pre-existing destination file fails preflight exactly as it would
	// under FileCollisionAbort. Skip only ever suppresses a collision
	// detected during execution (a race between planning and execution).
	source := t.TempDir()
	destination := t.TempDir()
	if err := os.WriteFile(filepath.Join(source, "a.txt"), []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(destination, "a.txt"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Build(source, destination, Options{Unlimited: true, FileCollisionPolicy: FileCollisionSkip})
	if _, ok := err.(*fserrors.DestinationItemAlreadyExists); !ok {
		t.Fatalf("expected DestinationItemAlreadyExists, got %#v", err)
	}
}

func TestBuildKeepsSymlink(t *testing.T) {
	source := t.TempDir()
	destination := filepath.Join(t.TempDir(), "dest")
	target := filepath.Join(source, "real.txt")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(source, "link.txt")); err != nil {
		t.Fatal(err)
	}

	result, err := Build(source, destination, Options{Unlimited: true, SymlinkPolicy: SymlinkKeep})
	if err != nil {
		t.Fatal(err)
	}
	if countKind(result.Operations, OpCreateSymlink) != 1 {
		t.Errorf("expected 1 symlink operation, got %d", countKind(result.Operations, OpCreateSymlink))
	}
}

func TestBuildFollowsSymlink(t *testing.T) {
	source := t.TempDir()
	destination := filepath.Join(t.TempDir(), "dest")
	target := filepath.Join(source, "real.txt")
	if err := os.WriteFile(target, []byte("xy"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(source, "link.txt")); err != nil {
		t.Fatal(err)
	}

	result, err := Build(source, destination, Options{Unlimited: true, SymlinkPolicy: SymlinkFollow})
	if err != nil {
		t.Fatal(err)
	}
	if countKind(result.Operations, OpCreateSymlink) != 0 {
		t.Error("expected no symlink operations under SymlinkFollow")
	}
	if countKind(result.Operations, OpCopyFile) != 2 {
		t.Errorf("expected 2 file copy operations (real.txt + resolved link.txt), got %d", countKind(result.Operations, OpCopyFile))
	}
}

func TestBuildAbortsOnBrokenSymlink(t *testing.T) {
	source := t.TempDir()
	destination := filepath.Join(t.TempDir(), "dest")
	if err := os.Symlink(filepath.Join(source, "nonexistent"), filepath.Join(source, "broken")); err != nil {
		t.Fatal(err)
	}

	_, err := Build(source, destination, Options{Unlimited: true, BrokenLinkPolicy: BrokenLinkAbort})
	if _, ok := err.(*fserrors.SymbolicLinkIsBroken); !ok {
		t.Fatalf("expected SymbolicLinkIsBroken, got %#v", err)
	}
}
