// Package fserrors defines the typed error taxonomy used throughout fsmore.
// Errors are split into two layers, mirroring the two phases of a copy or
// move: preparation errors (validation and planning, destination
// untouched) and execution errors (destination may be partially modified).
// Every error carries the offending path and, where applicable, the
// underlying I/O error, and implements Unwrap so callers can use errors.As
// against both the specific variant and the wrapped cause.
package fserrors

import "fmt"

// SourceNotFound indicates that the source path does not exist.
type SourceNotFound struct {
	Path string
}

func (e *SourceNotFound) Error() string {
	return fmt.Sprintf("source directory does not exist: %s", e.Path)
}

// SourceNotADirectory indicates that the source path exists but is not a
// directory (nor a symlink to one).
type SourceNotADirectory struct {
	Path string
}

func (e *SourceNotADirectory) Error() string {
	return fmt.Sprintf("source path is not a directory: %s", e.Path)
}

// UnableToAccessSource wraps an I/O error encountered while validating the
// source path.
type UnableToAccessSource struct {
	Path string
	Err  error
}

func (e *UnableToAccessSource) Error() string {
	return fmt.Sprintf("unable to access source directory %s: %v", e.Path, e.Err)
}

func (e *UnableToAccessSource) Unwrap() error { return e.Err }

// DestinationNotADirectory indicates that the destination path exists but
// is not a directory.
type DestinationNotADirectory struct {
	Path string
}

func (e *DestinationNotADirectory) Error() string {
	return fmt.Sprintf("destination path is not a directory: %s", e.Path)
}

// UnableToAccessDestination wraps an I/O error encountered while validating
// or accessing the destination path.
type UnableToAccessDestination struct {
	Path string
	Err  error
}

func (e *UnableToAccessDestination) Error() string {
	return fmt.Sprintf("unable to access destination %s: %v", e.Path, e.Err)
}

func (e *UnableToAccessDestination) Unwrap() error { return e.Err }

// DestinationAlreadyExists indicates that the destination root exists but
// the configured DestinationRule requires it not to.
type DestinationAlreadyExists struct {
	Path string
}

func (e *DestinationAlreadyExists) Error() string {
	return fmt.Sprintf("destination already exists: %s", e.Path)
}

// DestinationNotEmpty indicates that the destination root is a non-empty
// directory but the configured DestinationRule requires it to be empty.
type DestinationNotEmpty struct {
	Path string
}

func (e *DestinationNotEmpty) Error() string {
	return fmt.Sprintf("destination directory is not empty: %s", e.Path)
}

// DescendantOfSourceDirectory indicates that the canonical destination path
// is equal to, or nested inside, the canonical source path.
type DescendantOfSourceDirectory struct {
	Source      string
	Destination string
}

func (e *DescendantOfSourceDirectory) Error() string {
	return fmt.Sprintf("destination %s is the same as, or nested inside, source %s", e.Destination, e.Source)
}

// EntryEscapesSourceDirectory indicates that an entry's logical path could
// not be rebased onto the destination because it no longer shares the
// source's prefix (see the logical-path design note).
type EntryEscapesSourceDirectory struct {
	Path string
}

func (e *EntryEscapesSourceDirectory) Error() string {
	return fmt.Sprintf("entry escapes source directory: %s", e.Path)
}

// SymbolicLinkIsBroken indicates that a symlink's target does not exist and
// BrokenLinkPolicy is Abort.
type SymbolicLinkIsBroken struct {
	Path string
}

func (e *SymbolicLinkIsBroken) Error() string {
	return fmt.Sprintf("symbolic link target does not exist: %s", e.Path)
}

// DestinationItemAlreadyExists indicates that the planner's preflight (or
// the executor's per-operation recheck) found a destination entry whose
// presence the configured collision policy disallows.
type DestinationItemAlreadyExists struct {
	Path string
}

func (e *DestinationItemAlreadyExists) Error() string {
	return fmt.Sprintf("destination item already exists: %s", e.Path)
}

// UnableToAccess wraps a generic I/O error encountered while planning,
// tagged with the offending path.
type UnableToAccess struct {
	Path string
	Err  error
}

func (e *UnableToAccess) Error() string {
	return fmt.Sprintf("unable to access %s: %v", e.Path, e.Err)
}

func (e *UnableToAccess) Unwrap() error { return e.Err }

// UnableToCreateDirectory indicates that the executor failed to create a
// destination directory.
type UnableToCreateDirectory struct {
	Path string
	Err  error
}

func (e *UnableToCreateDirectory) Error() string {
	return fmt.Sprintf("unable to create directory %s: %v", e.Path, e.Err)
}

func (e *UnableToCreateDirectory) Unwrap() error { return e.Err }

// DestinationEntryUnexpected indicates a time-of-check/time-of-use
// divergence: the destination entry observed during the executor's
// per-operation recheck no longer matches what the plan expected.
type DestinationEntryUnexpected struct {
	Path string
}

func (e *DestinationEntryUnexpected) Error() string {
	return fmt.Sprintf("destination directory or file has been created externally mid-execution: %s", e.Path)
}

// SymlinkCreationError indicates that the executor failed to create a
// symbolic link at the destination.
type SymlinkCreationError struct {
	LinkPath string
	Err      error
}

func (e *SymlinkCreationError) Error() string {
	return fmt.Sprintf("unable to create symbolic link %s: %v", e.LinkPath, e.Err)
}

func (e *SymlinkCreationError) Unwrap() error { return e.Err }

// FileCopyError wraps a failure of the external copy_file/copy_file_with_progress
// primitive for a specific file.
type FileCopyError struct {
	FilePath string
	Err      error
}

func (e *FileCopyError) Error() string {
	return fmt.Sprintf("unable to copy file %s: %v", e.FilePath, e.Err)
}

func (e *FileCopyError) Unwrap() error { return e.Err }

// SymlinkCycleEncountered is surfaced by the scanner (not as a terminal
// error, but as a reported item) when following a symlink would revisit an
// ancestor directory of the current descent path.
type SymlinkCycleEncountered struct {
	DirectoryPath string
}

func (e *SymlinkCycleEncountered) Error() string {
	return fmt.Sprintf("symbolic link cycle encountered at: %s", e.DirectoryPath)
}
