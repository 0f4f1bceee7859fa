// Package scan implements a lazy, depth-aware iterator over directory
// contents, the basis for both the planner's source walk and the mover's
// pre-rename statistics collection. It holds at most one open directory
// handle at a time, in the manner of the teacher's pkg/filesystem.Walk, but
// additionally tracks symbolic-link ancestry to detect cycles when
// interior links are followed.
package scan

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/fsmore/fsmore/pkg/fsmore/fserrors"
	"github.com/fsmore/fsmore/pkg/fsmore/pathtype"
)

// Depth identifies how deep an entry was discovered relative to the base
// directory. BaseDirectory is a sentinel used only for the entry
// representing the scan root itself.
type Depth struct {
	IsBase bool
	Value  uint
}

// AtDepth constructs a non-base Depth.
func AtDepth(value uint) Depth { return Depth{Value: value} }

// BaseDirectory is the sentinel depth for the scan root entry.
var BaseDirectory = Depth{IsBase: true}

// Entry is a single item yielded by the scanner: either a successfully
// classified filesystem entry, or a reported failure/cycle that does not
// terminate the overall scan.
type Entry struct {
	// Path is the physical path of the entry (post symlink-resolution when
	// FollowSymbolicLinks caused it to be resolved).
	Path string
	// LogicalPath is the path as it would appear had no symlink along the
	// way been followed — the base directory joined with each traversed
	// entry's file name, never canonicalized. Used by the planner to
	// compute destination paths by prefix substitution.
	LogicalPath string
	// Info is the (possibly symlink-resolved) file info for Path.
	Info os.FileInfo
	// Type is the PathTyper classification of the *unresolved* entry (i.e.
	// it reports SymlinkToFile/SymlinkToDirectory/BrokenSymlink for
	// symlinks even when FollowSymbolicLinks caused Info/Path to already
	// be resolved).
	Type pathtype.Type
	// Depth is the entry's depth relative to the base directory.
	Depth Depth

	// Err, if non-nil, indicates this entry represents a failure rather
	// than a successfully classified item. It holds the underlying I/O
	// error wrapped with the entry's path; cycles are reported through
	// Cycle instead.
	Err error
	// Cycle, if non-nil, indicates this entry represents a detected
	// symlink cycle rather than a real filesystem entry.
	Cycle *fserrors.SymlinkCycleEncountered
}

// Options configures a scan.
type Options struct {
	// YieldBaseDirectory causes the scanner to yield an Entry for the base
	// directory itself (at BaseDirectory depth) before its children.
	YieldBaseDirectory bool
	// MaximumScanDepth limits how deep directories are descended into.
	// Ignored when Unlimited is set.
	MaximumScanDepth uint
	Unlimited        bool
	// FollowSymbolicLinks causes interior symlinks encountered during the
	// walk to be resolved and their targets emitted/descended into (with
	// cycle detection against the current ancestor chain).
	FollowSymbolicLinks bool
	// FollowBaseDirectorySymbolicLink causes a base directory that is
	// itself a symlink to be resolved once before scanning begins.
	FollowBaseDirectorySymbolicLink bool
}

func (o Options) depthPermitsDescent(depth uint) bool {
	return o.Unlimited || depth < o.MaximumScanDepth
}

// pendingDir is a directory queued for later descent, along with the
// physical paths of the directories above it on the current descent path —
// used for cycle detection.
type pendingDir struct {
	physicalPath string
	logicalPath  string
	depth        uint
	ancestors    []string
}

// Scanner is a lazy iterator over a directory tree.
type Scanner struct {
	options Options
	pending []pendingDir
	current *os.File
	names   []string
	index   int
	frame   pendingDir
	done    bool
	started bool
	err     error
}

// New constructs a Scanner rooted at base.
func New(base string, options Options) *Scanner {
	return &Scanner{
		options: options,
		pending: []pendingDir{{physicalPath: base, logicalPath: base, depth: 0, ancestors: nil}},
	}
}

// Next advances the scanner and returns the next Entry, or false when the
// scan is complete. Errors classifying or stating individual entries are
// surfaced as Entry values with Err set rather than terminating the scan.
// A queued directory that cannot be opened or read ends the scan: Next
// returns false and the error is available via Err().
func (s *Scanner) Next() (Entry, bool) {
	for {
		if s.current == nil {
			if !s.openNextPending() {
				return Entry{}, false
			}
			if entry, ok, isContinue := s.maybeYieldBase(); !isContinue {
				return entry, ok
			}
		}

		if s.index >= len(s.names) {
			s.current.Close()
			s.current = nil
			continue
		}

		name := s.names[s.index]
		s.index++

		childPhysical := filepath.Join(s.frame.physicalPath, name)
		childLogical := filepath.Join(s.frame.logicalPath, name)

		entry, queued := s.classifyChild(childPhysical, childLogical, s.frame.depth, s.frame.ancestors)
		if queued != nil {
			s.pending = append(s.pending, *queued)
		}
		return entry, true
	}
}

// Err returns any error that prevented the scan from continuing (as
// opposed to per-entry errors reported through Entry.Err).
func (s *Scanner) Err() error { return s.err }

func (s *Scanner) openNextPending() bool {
	if len(s.pending) == 0 {
		return false
	}
	s.frame = s.pending[0]
	s.pending = s.pending[1:]

	directory, err := os.Open(s.frame.physicalPath)
	if err != nil {
		s.err = errors.Wrapf(err, "unable to open directory %s", s.frame.physicalPath)
		return false
	}
	names, err := directory.Readdirnames(0)
	if err != nil {
		directory.Close()
		s.err = errors.Wrapf(err, "unable to read directory %s", s.frame.physicalPath)
		return false
	}
	s.current = directory
	s.names = names
	s.index = 0
	return true
}

// maybeYieldBase handles the one-time emission of the base directory entry
// for the frame that was just opened, when that frame is the scan root and
// YieldBaseDirectory is set. Returns isContinue=false when it produced an
// Entry to return to the caller immediately.
func (s *Scanner) maybeYieldBase() (Entry, bool, bool) {
	if s.started || s.frame.depth != 0 || len(s.frame.ancestors) != 0 {
		s.started = true
		return Entry{}, false, true
	}
	s.started = true
	if !s.options.YieldBaseDirectory {
		return Entry{}, false, true
	}
	info, err := os.Lstat(s.frame.physicalPath)
	if err != nil {
		return Entry{Err: errors.Wrap(err, "unable to stat base directory")}, true, false
	}
	return Entry{
		Path:        s.frame.physicalPath,
		LogicalPath: s.frame.logicalPath,
		Info:        info,
		Type:        pathtype.BareDirectory,
		Depth:       BaseDirectory,
	}, true, false
}

func (s *Scanner) classifyChild(physical, logical string, parentDepth uint, ancestors []string) (Entry, *pendingDir) {
	typ, err := pathtype.Classify(physical)
	if err != nil {
		return Entry{Path: physical, LogicalPath: logical, Err: errors.Wrapf(err, "unable to access %s", physical)}, nil
	}

	depth := AtDepth(parentDepth)
	// chain is the descent path down to and including the directory being read.
	chain := append(append([]string{}, ancestors...), s.frame.physicalPath)

	switch typ {
	case pathtype.BareFile:
		info, statErr := os.Lstat(physical)
		if statErr != nil {
			return Entry{Path: physical, LogicalPath: logical, Err: errors.Wrapf(statErr, "unable to access %s", physical)}, nil
		}
		return Entry{Path: physical, LogicalPath: logical, Info: info, Type: typ, Depth: depth}, nil

	case pathtype.BareDirectory:
		info, statErr := os.Lstat(physical)
		if statErr != nil {
			return Entry{Path: physical, LogicalPath: logical, Err: errors.Wrapf(statErr, "unable to access %s", physical)}, nil
		}
		entry := Entry{Path: physical, LogicalPath: logical, Info: info, Type: typ, Depth: depth}
		if s.options.depthPermitsDescent(parentDepth) {
			return entry, &pendingDir{physicalPath: physical, logicalPath: logical, depth: parentDepth + 1, ancestors: chain}
		}
		return entry, nil

	case pathtype.SymlinkToFile, pathtype.SymlinkToDirectory, pathtype.BrokenSymlink:
		if !s.options.FollowSymbolicLinks {
			info, statErr := os.Lstat(physical)
			if statErr != nil {
				return Entry{Path: physical, LogicalPath: logical, Err: errors.Wrapf(statErr, "unable to access %s", physical)}, nil
			}
			return Entry{Path: physical, LogicalPath: logical, Info: info, Type: typ, Depth: depth}, nil
		}

		resolved, resolveErr := filepath.EvalSymlinks(physical)
		if resolveErr != nil {
			return Entry{Path: physical, LogicalPath: logical, Type: typ, Err: errors.Wrapf(resolveErr, "unable to resolve symlink %s", physical)}, nil
		}

		if typ == pathtype.SymlinkToDirectory {
			for _, ancestor := range chain {
				if ancestor == resolved {
					return Entry{
						Path:        physical,
						LogicalPath: logical,
						Type:        typ,
						Depth:       depth,
						Cycle:       &fserrors.SymlinkCycleEncountered{DirectoryPath: resolved},
					}, nil
				}
			}
		}

		info, statErr := os.Stat(physical)
		if statErr != nil {
			return Entry{Path: physical, LogicalPath: logical, Type: typ, Err: errors.Wrapf(statErr, "unable to access resolved symlink target %s", physical)}, nil
		}
		entry := Entry{Path: resolved, LogicalPath: logical, Info: info, Type: typ, Depth: depth}
		if typ == pathtype.SymlinkToDirectory && s.options.depthPermitsDescent(parentDepth) {
			return entry, &pendingDir{physicalPath: resolved, logicalPath: logical, depth: parentDepth + 1, ancestors: chain}
		}
		return entry, nil

	default:
		info, statErr := os.Lstat(physical)
		if statErr != nil {
			return Entry{Path: physical, LogicalPath: logical, Err: errors.Wrapf(statErr, "unable to access %s", physical)}, nil
		}
		return Entry{Path: physical, LogicalPath: logical, Info: info, Type: typ, Depth: depth}, nil
	}
}

// IsEmpty reports whether the directory at path has no entries. It is used
// by both the Validator (computing destination state) and the Mover
// (checking rename preconditions), per the design note against duplicating
// this single-entry ReadDir check in multiple places.
func IsEmpty(path string) (bool, error) {
	directory, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer directory.Close()

	_, err = directory.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	} else if err != nil {
		return false, err
	}
	return false, nil
}
