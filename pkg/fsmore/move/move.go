// Package move implements the mover (C7): it first attempts an atomic
// rename, and falls back to a full copy followed by source removal when the
// rename is not possible (cross-device, or the destination fails the
// platform's rename preconditions).
package move

import (
	"context"
	"os"

	"github.com/fsmore/fsmore/pkg/fsmore/dirsize"
	"github.com/fsmore/fsmore/pkg/fsmore/execute"
	"github.com/fsmore/fsmore/pkg/fsmore/fserrors"
	"github.com/fsmore/fsmore/pkg/fsmore/plan"
	"github.com/fsmore/fsmore/pkg/fsmore/validate"
)

// Strategy records which of the two move strategies was actually used.
type Strategy uint8

const (
	// StrategyRename indicates the move completed via a single atomic
	// rename syscall.
	StrategyRename Strategy = iota
	// StrategyCopyAndDelete indicates the move completed by planning and
	// executing a full copy, then removing the source.
	StrategyCopyAndDelete
)

// Outcome describes the result of a move.
type Outcome struct {
	Strategy Strategy
	execute.Outcome
}

// Move performs a directory move without progress reporting.
func Move(ctx context.Context, source validate.Source, destinationPath string, planOptions plan.Options, execOptions execute.Options) (Outcome, error) {
	return run(ctx, source, destinationPath, planOptions, execOptions, nil)
}

// MoveWithProgress performs a directory move, invoking progressHandler per
// the executor's contract during the copy-and-delete fallback. When the
// fast rename path succeeds, progressHandler is invoked exactly once with a
// synthetic final progress event reporting full completion, since a rename
// is atomic and produces no intermediate per-operation progress of its own.
func MoveWithProgress(ctx context.Context, source validate.Source, destinationPath string, planOptions plan.Options, execOptions execute.Options, progressHandler func(*execute.Progress)) (Outcome, error) {
	return run(ctx, source, destinationPath, planOptions, execOptions, progressHandler)
}

func run(ctx context.Context, source validate.Source, destinationPath string, planOptions plan.Options, execOptions execute.Options, progressHandler func(*execute.Progress)) (Outcome, error) {
	// Collect source statistics unconditionally before attempting a rename,
	// so that a successful rename (which produces no per-entry accounting
	// of its own) can still report accurate totals.
	stats, err := dirsize.DirectorySize(ctx, source.Path, dirsize.Options{
		FollowSymbolicLinks: planOptions.SymlinkPolicy == plan.SymlinkFollow,
		Unlimited:           planOptions.Unlimited,
		MaximumDepth:        planOptions.MaximumDepth,
	})
	if err != nil {
		return Outcome{}, err
	}

	if !source.OriginalWasSymlinkToDirectory {
		if ready, err := renamePreconditionsMet(destinationPath); err != nil {
			return Outcome{}, &fserrors.UnableToAccess{Path: destinationPath, Err: err}
		} else if ready {
			if err := os.Rename(source.Path, destinationPath); err == nil {
				renameOutcome := execute.Outcome{
					FilesCopied:        stats.FileCount,
					SymlinksCreated:    stats.SymlinkCount,
					DirectoriesCreated: stats.DirectoryCount,
					BytesCopied:        stats.TotalBytes,
				}
				if progressHandler != nil {
					progressHandler(&execute.Progress{
						CurrentOperationKind:  execute.MoveCompleted,
						CurrentOperationPath:  destinationPath,
						CurrentOperationIndex: 1,
						TotalOperations:       1,
						BytesTotal:            stats.TotalBytes,
						BytesFinished:         stats.TotalBytes,
						FilesCopied:           stats.FileCount,
						SymlinksCreated:       stats.SymlinkCount,
						DirectoriesCreated:    stats.DirectoryCount,
					})
				}
				return Outcome{Strategy: StrategyRename, Outcome: renameOutcome}, nil
			} else if !isCrossDeviceError(err) {
				return Outcome{}, &fserrors.UnableToAccess{Path: destinationPath, Err: err}
			}
			// Cross-device: fall through to copy-and-delete.
		}
	}

	builtPlan, err := plan.Build(source.Path, destinationPath, planOptions)
	if err != nil {
		return Outcome{}, err
	}

	// The plan holds no operation for the destination root itself.
	if _, err := os.Lstat(destinationPath); os.IsNotExist(err) {
		if err := os.Mkdir(destinationPath, 0o755); err != nil {
			return Outcome{}, &fserrors.UnableToCreateDirectory{Path: destinationPath, Err: err}
		}
	}

	var execOutcome execute.Outcome
	if progressHandler != nil {
		execOutcome, err = execute.ExecuteWithProgress(ctx, builtPlan, execOptions, progressHandler)
	} else {
		execOutcome, err = execute.Execute(ctx, builtPlan, execOptions)
	}
	if err != nil {
		return Outcome{}, err
	}

	if progressHandler != nil {
		progressHandler(&execute.Progress{
			CurrentOperationKind:  execute.RemovingSourceDirectory,
			CurrentOperationPath:  source.OriginalPath,
			CurrentOperationIndex: uint64(len(builtPlan.Operations)),
			TotalOperations:       uint64(len(builtPlan.Operations)),
			BytesTotal:            builtPlan.TotalBytes,
			BytesFinished:         builtPlan.TotalBytes,
		})
	}

	if err := removeSource(source); err != nil {
		return Outcome{}, err
	}

	return Outcome{Strategy: StrategyCopyAndDelete, Outcome: execOutcome}, nil
}

// removeSource deletes the source after a successful copy. If the original
// source path was a symbolic link to a directory, only the link itself is
// removed — its target directory, whose content has now been copied
// elsewhere, may still be referenced by other paths and is left untouched.
func removeSource(source validate.Source) error {
	if source.OriginalWasSymlinkToDirectory {
		if err := os.Remove(source.OriginalPath); err != nil {
			return &fserrors.UnableToAccess{Path: source.OriginalPath, Err: err}
		}
		return nil
	}
	if err := os.RemoveAll(source.Path); err != nil {
		return &fserrors.UnableToAccess{Path: source.Path, Err: err}
	}
	return nil
}
