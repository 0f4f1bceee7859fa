package fsmore

import (
	"context"
	"os"

	"github.com/fsmore/fsmore/pkg/fsmore/execute"
	"github.com/fsmore/fsmore/pkg/fsmore/fserrors"
	"github.com/fsmore/fsmore/pkg/fsmore/move"
	"github.com/fsmore/fsmore/pkg/fsmore/plan"
	"github.com/fsmore/fsmore/pkg/fsmore/validate"
)

func mkdirDestinationRoot(path string) error {
	if err := os.Mkdir(path, 0o755); err != nil {
		return &fserrors.UnableToCreateDirectory{Path: path, Err: err}
	}
	return nil
}

// CopyOptions configures CopyDirectory and CopyDirectoryWithProgress.
type CopyOptions struct {
	Destination         DestinationRule
	Depth               DepthLimit
	SymlinkPolicy       SymlinkPolicy
	BrokenLinkPolicy    BrokenLinkPolicy
	ReadBufferSize      int
	WriteBufferSize     int
	// ProgressUpdateByteInterval is the minimum number of bytes copied
	// within a single file between two progress callback invocations.
	// Ignored by CopyDirectory.
	ProgressUpdateByteInterval uint64
}

// MoveOptions configures MoveDirectory and MoveDirectoryWithProgress. It
// shares CopyOptions' fields because a move that cannot be satisfied by a
// single rename falls back to exactly the copy-and-delete procedure
// CopyOptions governs.
type MoveOptions = CopyOptions

// CopyOutcome summarizes a completed copy.
type CopyOutcome struct {
	FilesCopied        uint64
	SymlinksCreated    uint64
	DirectoriesCreated uint64
	BytesCopied        uint64
}

// MoveOutcome summarizes a completed move.
type MoveOutcome struct {
	CopyOutcome
	// UsedRename indicates the move completed via a single atomic rename
	// rather than a copy-and-delete fallback. The embedded CopyOutcome is
	// populated in both cases: for a rename, from statistics collected by
	// scanning the source before the rename was attempted, since an atomic
	// rename itself produces no per-entry accounting.
	UsedRename bool
}

func (o CopyOptions) planOptions() plan.Options {
	return plan.Options{
		SymlinkPolicy:         plan.SymlinkPolicy(o.SymlinkPolicy),
		BrokenLinkPolicy:      plan.BrokenLinkPolicy(o.BrokenLinkPolicy),
		Unlimited:             o.Depth.Unlimited,
		MaximumDepth:          o.Depth.MaximumDepth,
		FileCollisionPolicy:   plan.FileCollisionPolicy(o.Destination.FileCollisionPolicy),
		SubdirCollisionPolicy: plan.SubdirCollisionPolicy(o.Destination.SubdirCollisionPolicy),
	}
}

func (o CopyOptions) executeOptions() execute.Options {
	return execute.Options{
		FileCollisionPolicy:        plan.FileCollisionPolicy(o.Destination.FileCollisionPolicy),
		SubdirCollisionPolicy:      plan.SubdirCollisionPolicy(o.Destination.SubdirCollisionPolicy),
		ReadBufferSize:             o.ReadBufferSize,
		WriteBufferSize:            o.WriteBufferSize,
		ProgressUpdateByteInterval: o.ProgressUpdateByteInterval,
	}
}

func validatePair(sourcePath, destinationPath string, rule DestinationRule) (validate.Source, validate.Destination, error) {
	source, err := validate.ValidateSource(sourcePath)
	if err != nil {
		return validate.Source{}, validate.Destination{}, err
	}
	destination, err := validate.ValidateDestination(destinationPath, rule)
	if err != nil {
		return validate.Source{}, validate.Destination{}, err
	}
	if err := validate.ValidatePair(source.Path, destination.Path); err != nil {
		return validate.Source{}, validate.Destination{}, err
	}
	return source, destination, nil
}

// CopyDirectory recursively copies source to destination, without progress
// reporting. The root of source is always followed if it is itself a
// symbolic link.
func CopyDirectory(ctx context.Context, source, destination string, options CopyOptions) (CopyOutcome, error) {
	validatedSource, validatedDestination, err := validatePair(source, destination, options.Destination)
	if err != nil {
		return CopyOutcome{}, err
	}

	if err := ensureDestinationRoot(validatedDestination); err != nil {
		return CopyOutcome{}, err
	}

	builtPlan, err := plan.Build(validatedSource.Path, validatedDestination.Path, options.planOptions())
	if err != nil {
		return CopyOutcome{}, err
	}

	outcome, err := execute.Execute(ctx, builtPlan, options.executeOptions())
	if err != nil {
		return CopyOutcome{}, err
	}
	return fromExecuteOutcome(outcome), nil
}

// CopyDirectoryWithProgress recursively copies source to destination,
// invoking progressHandler after every operation transition and at byte
// milestones during file copies (per options.ProgressUpdateByteInterval).
func CopyDirectoryWithProgress(ctx context.Context, source, destination string, options CopyOptions, progressHandler func(*Progress)) (CopyOutcome, error) {
	validatedSource, validatedDestination, err := validatePair(source, destination, options.Destination)
	if err != nil {
		return CopyOutcome{}, err
	}

	if err := ensureDestinationRoot(validatedDestination); err != nil {
		return CopyOutcome{}, err
	}

	builtPlan, err := plan.Build(validatedSource.Path, validatedDestination.Path, options.planOptions())
	if err != nil {
		return CopyOutcome{}, err
	}

	outcome, err := execute.ExecuteWithProgress(ctx, builtPlan, options.executeOptions(), adaptProgressHandler(progressHandler))
	if err != nil {
		return CopyOutcome{}, err
	}
	return fromExecuteOutcome(outcome), nil
}

// MoveDirectory moves source to destination, without progress reporting.
// It attempts a single atomic rename first, falling back to a full copy
// followed by source removal when the rename cannot be satisfied (a
// cross-device destination, a non-empty destination on platforms that
// require an empty one, or a source that is itself a symbolic link to a
// directory).
func MoveDirectory(ctx context.Context, source, destination string, options MoveOptions) (MoveOutcome, error) {
	validatedSource, validatedDestination, err := validatePair(source, destination, options.Destination)
	if err != nil {
		return MoveOutcome{}, err
	}

	outcome, err := move.Move(ctx, validatedSource, validatedDestination.Path, options.planOptions(), options.executeOptions())
	if err != nil {
		return MoveOutcome{}, err
	}
	return fromMoveOutcome(outcome), nil
}

// MoveDirectoryWithProgress moves source to destination, invoking
// progressHandler per the same contract as CopyDirectoryWithProgress during
// a copy-and-delete fallback, or exactly once with a synthetic completion
// event when the fast rename path succeeds.
func MoveDirectoryWithProgress(ctx context.Context, source, destination string, options MoveOptions, progressHandler func(*Progress)) (MoveOutcome, error) {
	validatedSource, validatedDestination, err := validatePair(source, destination, options.Destination)
	if err != nil {
		return MoveOutcome{}, err
	}

	outcome, err := move.MoveWithProgress(ctx, validatedSource, validatedDestination.Path, options.planOptions(), options.executeOptions(), adaptProgressHandler(progressHandler))
	if err != nil {
		return MoveOutcome{}, err
	}
	return fromMoveOutcome(outcome), nil
}

// ensureDestinationRoot creates the destination root directory itself when
// it does not yet exist. It is never represented as a Plan operation,
// since the planner's logical-path rebasing assumes it already exists by
// the time execution begins.
func ensureDestinationRoot(destination validate.Destination) error {
	if destination.State != validate.DoesNotExist {
		return nil
	}
	return mkdirDestinationRoot(destination.Path)
}

func fromExecuteOutcome(outcome execute.Outcome) CopyOutcome {
	return CopyOutcome{
		FilesCopied:        outcome.FilesCopied,
		SymlinksCreated:    outcome.SymlinksCreated,
		DirectoriesCreated: outcome.DirectoriesCreated,
		BytesCopied:        outcome.BytesCopied,
	}
}

func fromMoveOutcome(outcome move.Outcome) MoveOutcome {
	return MoveOutcome{
		CopyOutcome: fromExecuteOutcome(outcome.Outcome),
		UsedRename:  outcome.Strategy == move.StrategyRename,
	}
}

func adaptProgressHandler(handler func(*Progress)) func(*execute.Progress) {
	if handler == nil {
		return nil
	}
	shared := &Progress{}
	return func(p *execute.Progress) {
		shared.BytesTotal = p.BytesTotal
		shared.BytesFinished = p.BytesFinished
		shared.FilesCopied = p.FilesCopied
		shared.SymlinksCreated = p.SymlinksCreated
		shared.DirectoriesCreated = p.DirectoriesCreated
		shared.CurrentOperationKind = CurrentOperationKind(p.CurrentOperationKind)
		shared.CurrentOperationPath = p.CurrentOperationPath
		shared.FileProgress = FileProgress{BytesFinished: p.FileProgress.BytesFinished, BytesTotal: p.FileProgress.BytesTotal}
		shared.CurrentOperationIndex = p.CurrentOperationIndex
		shared.TotalOperations = p.TotalOperations
		handler(shared)
	}
}
