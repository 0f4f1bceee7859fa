// Package validate implements the pre-flight checks the planner and mover
// both depend on: confirming the source exists and is a directory,
// confirming the destination is acceptable under the caller's
// DestinationRule, and rejecting a destination that is itself nested inside
// the source.
package validate

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsmore/fsmore/pkg/fsmore/fserrors"
	"github.com/fsmore/fsmore/pkg/fsmore/pathtype"
	"github.com/fsmore/fsmore/pkg/fsmore/scan"
)

// Source describes a validated source directory.
type Source struct {
	// Path is the canonicalized source path.
	Path string
	// OriginalPath is the literal path the caller passed in, before
	// symlink resolution. The mover needs this to remove only the
	// symlink itself — not its target — when OriginalWasSymlinkToDirectory
	// is set.
	OriginalPath string
	// OriginalWasSymlinkToDirectory records whether the path the caller
	// passed in was itself a symbolic link to a directory, rather than a
	// bare directory — the root is always followed regardless, but the
	// mover uses this to skip the rename attempt and to remove only the
	// link once the copy is done.
	OriginalWasSymlinkToDirectory bool
}

// ValidateSource confirms that path exists, is (or resolves to) a
// directory, and returns its canonical form.
func ValidateSource(path string) (Source, error) {
	typ, err := pathtype.Classify(path)
	if err != nil {
		return Source{}, &fserrors.UnableToAccessSource{Path: path, Err: err}
	}

	switch typ {
	case pathtype.NotFound, pathtype.BrokenSymlink:
		return Source{}, &fserrors.SourceNotFound{Path: path}
	case pathtype.BareFile, pathtype.SymlinkToFile, pathtype.Unrecognized:
		return Source{}, &fserrors.SourceNotADirectory{Path: path}
	}

	canonical, err := filepath.EvalSymlinks(path)
	if err != nil {
		return Source{}, &fserrors.UnableToAccessSource{Path: path, Err: err}
	}
	canonical, err = filepath.Abs(canonical)
	if err != nil {
		return Source{}, &fserrors.UnableToAccessSource{Path: path, Err: err}
	}

	return Source{
		Path:                          canonical,
		OriginalPath:                  path,
		OriginalWasSymlinkToDirectory: typ == pathtype.SymlinkToDirectory,
	}, nil
}

// DestinationState classifies what, if anything, already occupies the
// destination root.
type DestinationState uint8

const (
	// DoesNotExist indicates no filesystem entry currently occupies the
	// destination path.
	DoesNotExist DestinationState = iota
	// IsEmptyDirectory indicates the destination path is an existing,
	// empty directory.
	IsEmptyDirectory
	// IsNonEmptyDirectory indicates the destination path is an existing
	// directory containing at least one entry.
	IsNonEmptyDirectory
)

// Destination describes a validated destination root.
type Destination struct {
	// Path is the destination path: canonicalized if it already exists,
	// otherwise taken literally (there is nothing to canonicalize yet).
	Path  string
	State DestinationState
}

// ValidateDestination confirms that path is acceptable as a destination
// root under rule, computes its current state, and returns its canonical
// (or literal, if absent) form.
func ValidateDestination(path string, rule DestinationRuleLike) (Destination, error) {
	typ, err := pathtype.Classify(path)
	if err != nil {
		return Destination{}, &fserrors.UnableToAccessDestination{Path: path, Err: err}
	}

	var state DestinationState
	var resolvedPath string

	switch typ {
	case pathtype.NotFound, pathtype.BrokenSymlink:
		state = DoesNotExist
		resolvedPath = path
	case pathtype.BareFile, pathtype.SymlinkToFile, pathtype.Unrecognized:
		return Destination{}, &fserrors.DestinationNotADirectory{Path: path}
	case pathtype.BareDirectory, pathtype.SymlinkToDirectory:
		canonical, err := filepath.EvalSymlinks(path)
		if err != nil {
			return Destination{}, &fserrors.UnableToAccessDestination{Path: path, Err: err}
		}
		canonical, err = filepath.Abs(canonical)
		if err != nil {
			return Destination{}, &fserrors.UnableToAccessDestination{Path: path, Err: err}
		}
		resolvedPath = canonical

		empty, err := scan.IsEmpty(canonical)
		if err != nil {
			return Destination{}, &fserrors.UnableToAccessDestination{Path: path, Err: err}
		}
		if empty {
			state = IsEmptyDirectory
		} else {
			state = IsNonEmptyDirectory
		}
	}

	if err := enforceRule(path, state, rule); err != nil {
		return Destination{}, err
	}

	return Destination{Path: resolvedPath, State: state}, nil
}

// DestinationRuleLike is the minimal view of a fsmore.DestinationRule this
// package needs, avoiding an import cycle with the top-level package (which
// depends on validate for its own implementation).
type DestinationRuleLike interface {
	// AllowsDoesNotExist reports whether the destination may legitimately
	// be absent.
	AllowsDoesNotExist() bool
	// AllowsEmpty reports whether the destination may be an existing empty
	// directory.
	AllowsEmpty() bool
	// AllowsNonEmpty reports whether the destination may be an existing
	// non-empty directory.
	AllowsNonEmpty() bool
}

func enforceRule(path string, state DestinationState, rule DestinationRuleLike) error {
	switch state {
	case DoesNotExist:
		if !rule.AllowsDoesNotExist() {
			return &fserrors.DestinationAlreadyExists{Path: path}
		}
	case IsEmptyDirectory:
		if !rule.AllowsEmpty() && !rule.AllowsNonEmpty() {
			return &fserrors.DestinationAlreadyExists{Path: path}
		}
	case IsNonEmptyDirectory:
		if !rule.AllowsNonEmpty() {
			return &fserrors.DestinationNotEmpty{Path: path}
		}
	}
	return nil
}

// ValidatePair confirms that the destination does not nest inside the
// source — copying or moving a directory into its own descendant cannot
// terminate. sourcePath and destinationPath must already be canonicalized
// (destinationPath may be a not-yet-existing literal path when the
// destination root itself does not exist; in that case it is canonicalized
// here relative to its existing parent).
func ValidatePair(sourcePath, destinationPath string) error {
	canonicalDestination := destinationPath
	if _, err := os.Lstat(destinationPath); os.IsNotExist(err) {
		parent := filepath.Dir(destinationPath)
		canonicalParent, parentErr := filepath.EvalSymlinks(parent)
		if parentErr == nil {
			canonicalParent, parentErr = filepath.Abs(canonicalParent)
		}
		if parentErr == nil {
			canonicalDestination = filepath.Join(canonicalParent, filepath.Base(destinationPath))
		}
	}

	if canonicalDestination == sourcePath || isWithin(canonicalDestination, sourcePath) {
		return &fserrors.DescendantOfSourceDirectory{Source: sourcePath, Destination: canonicalDestination}
	}
	return nil
}

// isWithin reports whether candidate is a descendant of ancestor (both
// assumed canonical, absolute, and clean).
func isWithin(candidate, ancestor string) bool {
	rel, err := filepath.Rel(ancestor, candidate)
	if err != nil {
		return false
	}
	if rel == "." {
		return false
	}
	return !strings.HasPrefix(rel, "..")
}
