package execute

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsmore/fsmore/pkg/fsmore/fserrors"
	"github.com/fsmore/fsmore/pkg/fsmore/plan"
)

func TestExecuteCreatesTreeAndCopiesFiles(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()

	if err := os.WriteFile(filepath.Join(source, "a.bin"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(destination, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	p := plan.Plan{
		Operations: []plan.QueuedOperation{
			{Kind: plan.OpCreateDirectory, DestinationPath: filepath.Join(destination, "sub")},
			{Kind: plan.OpCopyFile, SourcePath: filepath.Join(source, "a.bin"), DestinationPath: filepath.Join(destination, "sub", "a.bin"), SizeBytes: 5},
		},
		TotalBytes: 5,
	}

	outcome, err := Execute(context.Background(), p, Options{SubdirCollisionPolicy: plan.SubdirCollisionContinue})
	if err != nil {
		t.Fatal(err)
	}
	if outcome.FilesCopied != 1 || outcome.DirectoriesCreated != 1 {
		t.Errorf("unexpected outcome: %+v", outcome)
	}
	data, err := os.ReadFile(filepath.Join(destination, "sub", "a.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("expected copied content %q, got %q", "hello", data)
	}
}

func TestExecuteWithProgressReportsEveryOperation(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()

	if err := os.WriteFile(filepath.Join(source, "a.bin"), []byte("hello world"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := plan.Plan{
		Operations: []plan.QueuedOperation{
			{Kind: plan.OpCopyFile, SourcePath: filepath.Join(source, "a.bin"), DestinationPath: filepath.Join(destination, "a.bin"), SizeBytes: 11},
		},
		TotalBytes: 11,
	}

	var calls int
	var finalBytesFinished uint64
	_, err := ExecuteWithProgress(context.Background(), p, Options{}, func(progress *Progress) {
		calls++
		finalBytesFinished = progress.BytesFinished
	})
	if err != nil {
		t.Fatal(err)
	}
	if calls == 0 {
		t.Fatal("expected at least one progress callback")
	}
	if finalBytesFinished != 11 {
		t.Errorf("expected final BytesFinished 11, got %d", finalBytesFinished)
	}
}

func TestExecuteAbortsOnExistingSubdirectoryUnderAbortPolicy(t *testing.T) {
	destination := t.TempDir()
	if err := os.MkdirAll(filepath.Join(destination, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}

	p := plan.Plan{
		Operations: []plan.QueuedOperation{
			{Kind: plan.OpCreateDirectory, DestinationPath: filepath.Join(destination, "sub")},
		},
	}

	_, err := Execute(context.Background(), p, Options{SubdirCollisionPolicy: plan.SubdirCollisionAbort})
	if _, ok := err.(*fserrors.DestinationItemAlreadyExists); !ok {
		t.Fatalf("expected DestinationItemAlreadyExists, got %#v", err)
	}
}

func TestExecuteFailsCreateDirectoryWhenDestinationIsFile(t *testing.T) {
	destination := t.TempDir()
	destPath := filepath.Join(destination, "sub")
	if err := os.WriteFile(destPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := plan.Plan{
		Operations: []plan.QueuedOperation{
			{Kind: plan.OpCreateDirectory, DestinationPath: destPath},
		},
	}

	_, err := Execute(context.Background(), p, Options{SubdirCollisionPolicy: plan.SubdirCollisionContinue})
	if _, ok := err.(*fserrors.DestinationEntryUnexpected); !ok {
		t.Fatalf("expected DestinationEntryUnexpected, got %#v", err)
	}
}

func TestExecuteFailsCopyFileWhenDestinationIsDirectory(t *testing.T) {
	source := t.TempDir()
	destination := t.TempDir()
	if err := os.WriteFile(filepath.Join(source, "a.bin"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	destPath := filepath.Join(destination, "a.bin")
	if err := os.Mkdir(destPath, 0o755); err != nil {
		t.Fatal(err)
	}

	p := plan.Plan{
		Operations: []plan.QueuedOperation{
			{Kind: plan.OpCopyFile, SourcePath: filepath.Join(source, "a.bin"), DestinationPath: destPath, SizeBytes: 5},
		},
	}

	_, err := Execute(context.Background(), p, Options{})
	if _, ok := err.(*fserrors.DestinationEntryUnexpected); !ok {
		t.Fatalf("expected DestinationEntryUnexpected, got %#v", err)
	}
}

func TestExecuteAbortsOnCancelledContext(t *testing.T) {
	destination := t.TempDir()
	p := plan.Plan{
		Operations: []plan.QueuedOperation{
			{Kind: plan.OpCreateDirectory, DestinationPath: filepath.Join(destination, "sub")},
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Execute(ctx, p, Options{}); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}
