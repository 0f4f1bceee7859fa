// Package plan implements the planner (C4): a depth-first walk of a
// validated source directory that produces an ordered queue of atomic
// operations, performing every collision and symlink-policy check up front
// so that, barring a race with an external process, execution cannot fail
// partway through for a reason the plan could have caught.
package plan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/fsmore/fsmore/pkg/fsmore/fserrors"
	"github.com/fsmore/fsmore/pkg/fsmore/pathtype"
	"github.com/fsmore/fsmore/pkg/fsmore/scan"
)

// FileCollisionPolicy mirrors fsmore.FileCollisionPolicy, redeclared here to
// avoid an import cycle (the top-level package depends on plan).
type FileCollisionPolicy uint8

const (
	FileCollisionAbort FileCollisionPolicy = iota
	FileCollisionOverwrite
	FileCollisionSkip
)

// SubdirCollisionPolicy mirrors fsmore.SubdirCollisionPolicy.
type SubdirCollisionPolicy uint8

const (
	SubdirCollisionAbort SubdirCollisionPolicy = iota
	SubdirCollisionContinue
)

// SymlinkPolicy mirrors fsmore.SymlinkPolicy.
type SymlinkPolicy uint8

const (
	SymlinkKeep SymlinkPolicy = iota
	SymlinkFollow
)

// BrokenLinkPolicy mirrors fsmore.BrokenLinkPolicy.
type BrokenLinkPolicy uint8

const (
	BrokenLinkKeep BrokenLinkPolicy = iota
	BrokenLinkAbort
)

// OperationKind mirrors fsmore.OperationKind.
type OperationKind uint8

const (
	OpCopyFile OperationKind = iota
	OpCreateDirectory
	OpCreateSymlink
)

// SymlinkKind mirrors fsmore.SymlinkKind.
type SymlinkKind uint8

const (
	SymlinkKindFile SymlinkKind = iota
	SymlinkKindDirectory
)

// QueuedOperation mirrors fsmore.QueuedOperation.
type QueuedOperation struct {
	Kind            OperationKind
	SourcePath      string
	DestinationPath string
	SizeBytes       uint64
	LinkTarget      string
	LinkKind        SymlinkKind
}

// Plan mirrors fsmore.Plan.
type Plan struct {
	ID              string
	DestinationRoot string
	Operations      []QueuedOperation
	TotalBytes      uint64
}

// Options configures a planning pass.
type Options struct {
	SymlinkPolicy         SymlinkPolicy
	BrokenLinkPolicy      BrokenLinkPolicy
	Unlimited             bool
	MaximumDepth          uint
	FileCollisionPolicy   FileCollisionPolicy
	SubdirCollisionPolicy SubdirCollisionPolicy
}

// Build walks sourcePath (which must already be validated and
// canonicalized) and produces a Plan rooted at destinationPath (likewise
// already validated; it need not yet exist).
func Build(sourcePath, destinationPath string, options Options) (Plan, error) {
	scanner := scan.New(sourcePath, scan.Options{
		Unlimited:           options.Unlimited,
		MaximumScanDepth:    options.MaximumDepth,
		FollowSymbolicLinks: options.SymlinkPolicy == SymlinkFollow,
	})

	result := Plan{
		ID:              uuid.NewString(),
		DestinationRoot: destinationPath,
	}

	for {
		entry, ok := scanner.Next()
		if !ok {
			break
		}

		destPath, err := rebase(sourcePath, destinationPath, entry.LogicalPath)
		if err != nil {
			return Plan{}, err
		}

		op, skip, err := planEntry(entry, destPath, options)
		if err != nil {
			return Plan{}, err
		}
		if skip {
			continue
		}
		result.Operations = append(result.Operations, op)
		result.TotalBytes += op.SizeBytes
	}
	if err := scanner.Err(); err != nil {
		return Plan{}, &fserrors.UnableToAccess{Path: sourcePath, Err: err}
	}

	return result, nil
}

func rebase(sourcePath, destinationPath, logicalPath string) (string, error) {
	rel, err := filepath.Rel(sourcePath, logicalPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", &fserrors.EntryEscapesSourceDirectory{Path: logicalPath}
	}
	return filepath.Join(destinationPath, rel), nil
}

func planEntry(entry scan.Entry, destPath string, options Options) (QueuedOperation, bool, error) {
	if entry.Type == pathtype.BrokenSymlink {
		if options.BrokenLinkPolicy == BrokenLinkAbort || options.SymlinkPolicy == SymlinkFollow {
			return QueuedOperation{}, false, &fserrors.SymbolicLinkIsBroken{Path: entry.Path}
		}
		target, err := os.Readlink(entry.Path)
		if err != nil {
			return QueuedOperation{}, false, &fserrors.UnableToAccess{Path: entry.Path, Err: err}
		}
		if err := checkDestinationFree(destPath, options.FileCollisionPolicy); err != nil {
			return QueuedOperation{}, false, err
		}
		return QueuedOperation{
			Kind:            OpCreateSymlink,
			DestinationPath: destPath,
			SizeBytes:       uint64(entry.Info.Size()),
			LinkTarget:      target,
			LinkKind:        SymlinkKindFile,
		}, false, nil
	}

	if entry.Cycle != nil {
		return QueuedOperation{}, false, entry.Cycle
	}
	if entry.Err != nil {
		return QueuedOperation{}, false, &fserrors.UnableToAccess{Path: entry.Path, Err: entry.Err}
	}

	switch entry.Type {
	case pathtype.BareDirectory:
		if err := checkDestinationDirectory(destPath, options.SubdirCollisionPolicy); err != nil {
			return QueuedOperation{}, false, err
		}
		return QueuedOperation{
			Kind:            OpCreateDirectory,
			DestinationPath: destPath,
			SizeBytes:       uint64(entry.Info.Size()),
		}, false, nil

	case pathtype.BareFile:
		if err := checkDestinationFree(destPath, options.FileCollisionPolicy); err != nil {
			return QueuedOperation{}, false, err
		}
		return QueuedOperation{
			Kind:            OpCopyFile,
			SourcePath:      entry.Path,
			DestinationPath: destPath,
			SizeBytes:       uint64(entry.Info.Size()),
		}, false, nil

	case pathtype.SymlinkToFile:
		if options.SymlinkPolicy == SymlinkFollow {
			if err := checkDestinationFree(destPath, options.FileCollisionPolicy); err != nil {
				return QueuedOperation{}, false, err
			}
			return QueuedOperation{
				Kind:            OpCopyFile,
				SourcePath:      entry.Path,
				DestinationPath: destPath,
				SizeBytes:       uint64(entry.Info.Size()),
			}, false, nil
		}
		target, err := os.Readlink(entry.Path)
		if err != nil {
			return QueuedOperation{}, false, &fserrors.UnableToAccess{Path: entry.Path, Err: err}
		}
		if err := checkDestinationFree(destPath, options.FileCollisionPolicy); err != nil {
			return QueuedOperation{}, false, err
		}
		return QueuedOperation{
			Kind:            OpCreateSymlink,
			DestinationPath: destPath,
			SizeBytes:       uint64(entry.Info.Size()),
			LinkTarget:      target,
			LinkKind:        SymlinkKindFile,
		}, false, nil

	case pathtype.SymlinkToDirectory:
		if options.SymlinkPolicy == SymlinkFollow {
			if err := checkDestinationDirectory(destPath, options.SubdirCollisionPolicy); err != nil {
				return QueuedOperation{}, false, err
			}
			return QueuedOperation{
				Kind:            OpCreateDirectory,
				DestinationPath: destPath,
				SizeBytes:       uint64(entry.Info.Size()),
			}, false, nil
		}
		target, err := os.Readlink(entry.Path)
		if err != nil {
			return QueuedOperation{}, false, &fserrors.UnableToAccess{Path: entry.Path, Err: err}
		}
		if err := checkDestinationFree(destPath, options.FileCollisionPolicy); err != nil {
			return QueuedOperation{}, false, err
		}
		return QueuedOperation{
			Kind:            OpCreateSymlink,
			DestinationPath: destPath,
			SizeBytes:       uint64(entry.Info.Size()),
			LinkTarget:      target,
			LinkKind:        SymlinkKindDirectory,
		}, false, nil

	default:
		return QueuedOperation{}, true, nil
	}
}

// checkDestinationFree fails if path already exists, regardless of whether
// policy is FileCollisionAbort or FileCollisionSkip: at the directory level
// there is no "quietly drop this one file" outcome distinct from aborting —
// Skip only ever suppresses a collision at the single-file granularity of
// filecopy.Copy during execution, never at planning time. Only
// FileCollisionOverwrite permits planning to proceed.
func checkDestinationFree(path string, policy FileCollisionPolicy) error {
	typ, err := pathtype.Classify(path)
	if err != nil {
		return &fserrors.UnableToAccess{Path: path, Err: err}
	}
	if typ == pathtype.NotFound {
		return nil
	}
	if policy == FileCollisionOverwrite {
		return nil
	}
	return &fserrors.DestinationItemAlreadyExists{Path: path}
}

func checkDestinationDirectory(path string, policy SubdirCollisionPolicy) error {
	typ, err := pathtype.Classify(path)
	if err != nil {
		return &fserrors.UnableToAccess{Path: path, Err: err}
	}
	if typ == pathtype.NotFound {
		return nil
	}
	if typ != pathtype.BareDirectory && typ != pathtype.SymlinkToDirectory {
		return &fserrors.DestinationEntryUnexpected{Path: path}
	}
	if policy == SubdirCollisionContinue {
		return nil
	}
	return &fserrors.DestinationItemAlreadyExists{Path: path}
}
