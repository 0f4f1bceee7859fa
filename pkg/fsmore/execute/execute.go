// Package execute implements the executor (C5/C6): it consumes a Plan and
// performs its operations in order, invoking an optional progress callback
// after every operation and at byte milestones during file copies.
package execute

import (
	"context"
	"os"

	"github.com/fsmore/fsmore/pkg/filecopy"
	"github.com/fsmore/fsmore/pkg/fsmore/fserrors"
	"github.com/fsmore/fsmore/pkg/fsmore/pathtype"
	"github.com/fsmore/fsmore/pkg/fsmore/plan"
)

// CurrentOperationKind identifies what the executor (or, for
// RemovingSourceDirectory, the mover) is presently doing.
type CurrentOperationKind uint8

const (
	CreatingDirectory CurrentOperationKind = iota
	CopyingFile
	CreatingSymbolicLink
	// RemovingSourceDirectory is emitted only by the mover, after a
	// successful copy-and-delete fallback; it is defined here so the mover
	// can reuse this package's Progress type instead of declaring its own.
	RemovingSourceDirectory
	// MoveCompleted is emitted only by the mover, as the single synthetic
	// progress event reporting full completion when the fast rename path
	// succeeds (an atomic rename produces no intermediate progress of its
	// own).
	MoveCompleted
)

// FileProgress describes progress within a single CopyingFile operation.
type FileProgress struct {
	BytesFinished uint64
	BytesTotal    uint64
}

// Progress is the mutable view passed to a caller's progress callback. Its
// fields are overwritten in place between invocations; callers that need to
// retain a snapshot must call Clone.
type Progress struct {
	BytesTotal    uint64
	BytesFinished uint64

	FilesCopied        uint64
	SymlinksCreated    uint64
	DirectoriesCreated uint64

	CurrentOperationKind CurrentOperationKind
	CurrentOperationPath string
	FileProgress         FileProgress

	CurrentOperationIndex uint64
	TotalOperations       uint64
}

// Clone returns an independent copy of the progress snapshot.
func (p *Progress) Clone() *Progress {
	clone := *p
	return &clone
}

// Outcome summarizes what an execution pass actually did.
type Outcome struct {
	FilesCopied        uint64
	SymlinksCreated    uint64
	DirectoriesCreated uint64
	BytesCopied        uint64
}

// Options configures an execution pass.
type Options struct {
	FileCollisionPolicy   plan.FileCollisionPolicy
	SubdirCollisionPolicy plan.SubdirCollisionPolicy
	ReadBufferSize        int
	WriteBufferSize       int
	// ProgressUpdateByteInterval is the minimum number of bytes copied
	// within a single file between two progress callback invocations.
	// Ignored when no progress handler is supplied.
	ProgressUpdateByteInterval uint64
}

// Execute performs every operation in p in order, without progress
// reporting. ctx is checked for cancellation between operations, not
// mid-syscall.
func Execute(ctx context.Context, p plan.Plan, options Options) (Outcome, error) {
	return run(ctx, p, options, nil)
}

// ExecuteWithProgress performs every operation in p in order, invoking
// progressHandler after every operation transition and at byte milestones
// during file copies.
func ExecuteWithProgress(ctx context.Context, p plan.Plan, options Options, progressHandler func(*Progress)) (Outcome, error) {
	return run(ctx, p, options, progressHandler)
}

func run(ctx context.Context, p plan.Plan, options Options, progressHandler func(*Progress)) (Outcome, error) {
	var outcome Outcome
	var progress *Progress
	var bytesFinishedSoFar uint64

	if progressHandler != nil {
		progress = &Progress{
			BytesTotal:      p.TotalBytes,
			TotalOperations: uint64(len(p.Operations)),
		}
	}

	for index, op := range p.Operations {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		if progress != nil {
			progress.CurrentOperationIndex = uint64(index)
			progress.CurrentOperationPath = op.DestinationPath
		}

		switch op.Kind {
		case plan.OpCreateDirectory:
			if progress != nil {
				progress.CurrentOperationKind = CreatingDirectory
			}
			if err := executeCreateDirectory(op, options.SubdirCollisionPolicy); err != nil {
				return outcome, err
			}
			outcome.DirectoriesCreated++
			bytesFinishedSoFar += op.SizeBytes
			if progress != nil {
				progress.DirectoriesCreated++
				progress.BytesFinished = bytesFinishedSoFar
				progressHandler(progress)
			}

		case plan.OpCopyFile:
			if progress != nil {
				progress.CurrentOperationKind = CopyingFile
				progress.FileProgress = FileProgress{BytesTotal: op.SizeBytes}
			}
			bytesCopied, err := executeCopyFile(op, options, bytesFinishedSoFar, progress, progressHandler)
			if err != nil {
				return outcome, err
			}
			outcome.FilesCopied++
			outcome.BytesCopied += bytesCopied
			// Use the actual byte count, not the planned op.SizeBytes: the
			// source may have changed size between planning and execution.
			bytesFinishedSoFar += bytesCopied
			if progress != nil {
				progress.FilesCopied++
				progress.FileProgress = FileProgress{BytesFinished: bytesCopied, BytesTotal: bytesCopied}
				progress.BytesFinished = bytesFinishedSoFar
				progressHandler(progress)
			}

		case plan.OpCreateSymlink:
			if progress != nil {
				progress.CurrentOperationKind = CreatingSymbolicLink
			}
			if err := executeCreateSymlink(op); err != nil {
				return outcome, err
			}
			outcome.SymlinksCreated++
			bytesFinishedSoFar += op.SizeBytes
			if progress != nil {
				progress.SymlinksCreated++
				progress.BytesFinished = bytesFinishedSoFar
				progressHandler(progress)
			}
		}
	}

	return outcome, nil
}

// executeCreateDirectory creates op.DestinationPath, re-checking the
// collision predicates the planner already evaluated: a destination that
// appeared (or changed type) between planning and execution is re-classified
// rather than silently treated as success.
func executeCreateDirectory(op plan.QueuedOperation, policy plan.SubdirCollisionPolicy) error {
	if err := os.Mkdir(op.DestinationPath, 0o755); err != nil {
		if !os.IsExist(err) {
			return &fserrors.UnableToCreateDirectory{Path: op.DestinationPath, Err: err}
		}
		return reconcileExistingDirectory(op.DestinationPath, policy)
	}
	return nil
}

func reconcileExistingDirectory(path string, policy plan.SubdirCollisionPolicy) error {
	typ, err := pathtype.Classify(path)
	if err != nil {
		return &fserrors.UnableToAccess{Path: path, Err: err}
	}
	if typ != pathtype.BareDirectory && typ != pathtype.SymlinkToDirectory {
		return &fserrors.DestinationEntryUnexpected{Path: path}
	}
	if policy == plan.SubdirCollisionContinue {
		return nil
	}
	return &fserrors.DestinationItemAlreadyExists{Path: path}
}

// checkDestinationIsFile re-classifies a computed destination path
// immediately before a file copy, so that a destination occupied by
// something other than a file (e.g. a directory materializing between
// planning and execution) fails with DestinationEntryUnexpected rather than
// surfacing as an opaque FileCopyError from the underlying open call.
func checkDestinationIsFile(path string) error {
	typ, err := pathtype.Classify(path)
	if err != nil {
		return &fserrors.UnableToAccess{Path: path, Err: err}
	}
	if typ == pathtype.NotFound || typ == pathtype.BareFile || typ == pathtype.SymlinkToFile {
		return nil
	}
	return &fserrors.DestinationEntryUnexpected{Path: path}
}

func executeCopyFile(op plan.QueuedOperation, options Options, baseline uint64, progress *Progress, progressHandler func(*Progress)) (uint64, error) {
	if err := checkDestinationIsFile(op.DestinationPath); err != nil {
		return 0, err
	}

	collision := filecopy.Abort
	switch options.FileCollisionPolicy {
	case plan.FileCollisionOverwrite:
		collision = filecopy.Overwrite
	case plan.FileCollisionSkip:
		collision = filecopy.Skip
	}

	if progressHandler == nil {
		_, bytesCopied, err := filecopy.Copy(op.SourcePath, op.DestinationPath, filecopy.Options{OnCollision: collision})
		if err != nil {
			return 0, &fserrors.FileCopyError{FilePath: op.SourcePath, Err: err}
		}
		return bytesCopied, nil
	}

	totalReconciled := false
	_, bytesCopied, err := filecopy.CopyWithProgress(op.SourcePath, op.DestinationPath, filecopy.ProgressOptions{
		OnCollision:                collision,
		ReadBufferSize:             options.ReadBufferSize,
		WriteBufferSize:            options.WriteBufferSize,
		ProgressUpdateByteInterval: options.ProgressUpdateByteInterval,
	}, func(bytesFinished, bytesTotal uint64) {
		// The source may have changed size since planning; reconcile the
		// aggregate total against the actual size exactly once per file,
		// not on every byte-milestone callback.
		if !totalReconciled {
			if bytesTotal != op.SizeBytes {
				progress.BytesTotal = progress.BytesTotal - op.SizeBytes + bytesTotal
			}
			totalReconciled = true
		}
		progress.FileProgress = FileProgress{BytesFinished: bytesFinished, BytesTotal: bytesTotal}
		progress.BytesFinished = baseline + bytesFinished
		progressHandler(progress)
	})
	if err != nil {
		return 0, &fserrors.FileCopyError{FilePath: op.SourcePath, Err: err}
	}
	return bytesCopied, nil
}
