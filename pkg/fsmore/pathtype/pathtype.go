// Package pathtype classifies filesystem paths into the type tags consumed
// by the rest of fsmore. It is the single authority for path
// classification — other packages must not reimplement these checks.
package pathtype

import (
	"fmt"
	"os"
)

// Type is a path classification tag.
type Type uint8

const (
	// NotFound indicates that the path does not exist.
	NotFound Type = iota
	// BareFile indicates a regular file (not a symlink).
	BareFile
	// BareDirectory indicates a regular directory (not a symlink).
	BareDirectory
	// SymlinkToFile indicates a symbolic link whose target is a file.
	SymlinkToFile
	// SymlinkToDirectory indicates a symbolic link whose target is a directory.
	SymlinkToDirectory
	// BrokenSymlink indicates a symbolic link whose target does not exist.
	BrokenSymlink
	// Unrecognized indicates an entry that is none of the above (sockets,
	// devices, named pipes, and the like).
	Unrecognized
)

// String renders a human-readable name for the type tag.
func (t Type) String() string {
	switch t {
	case NotFound:
		return "not-found"
	case BareFile:
		return "file"
	case BareDirectory:
		return "directory"
	case SymlinkToFile:
		return "symlink-to-file"
	case SymlinkToDirectory:
		return "symlink-to-directory"
	case BrokenSymlink:
		return "broken-symlink"
	case Unrecognized:
		return "unrecognized"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// IsSymlink reports whether the type tag represents any kind of symbolic
// link, broken or not.
func (t Type) IsSymlink() bool {
	return t == SymlinkToFile || t == SymlinkToDirectory || t == BrokenSymlink
}

// IsDirectory reports whether the type tag represents a directory, whether
// reached directly or through a symlink.
func (t Type) IsDirectory() bool {
	return t == BareDirectory || t == SymlinkToDirectory
}

// Classify determines the Type of the entry at path using one stat call
// that does not follow symlinks plus, only when that first stat reports a
// symlink, a second stat call that does follow it.
func Classify(path string) (Type, error) {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NotFound, nil
		}
		return NotFound, err
	}

	mode := info.Mode()
	if mode&os.ModeSymlink == 0 {
		if mode.IsDir() {
			return BareDirectory, nil
		}
		if mode.IsRegular() {
			return BareFile, nil
		}
		return Unrecognized, nil
	}

	// The entry is a symlink; follow it to classify the target.
	targetInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return BrokenSymlink, nil
		}
		return NotFound, err
	}
	if targetInfo.IsDir() {
		return SymlinkToDirectory, nil
	}
	if targetInfo.Mode().IsRegular() {
		return SymlinkToFile, nil
	}
	return Unrecognized, nil
}
