package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/fsmore/fsmore/pkg/fsmore"
)

// register attaches the shared transfer flags to flags.
func (f *transferFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.destinationRule, "destination-rule", "disallow-existing", "Destination collision policy (disallow-existing, allow-empty, allow-non-empty)")
	flags.StringVar(&f.onFileCollision, "on-file-collision", "abort", "File collision policy (abort, overwrite, skip)")
	flags.StringVar(&f.onSubdirectory, "on-subdirectory-collision", "abort", "Subdirectory collision policy (abort, continue)")
	flags.StringVar(&f.symlinks, "symlinks", "keep", "Symbolic link policy (keep, follow)")
	flags.StringVar(&f.brokenLinks, "broken-links", "keep", "Broken symbolic link policy (keep, abort)")
	flags.UintVar(&f.maxDepth, "max-depth", 0, "Maximum descent depth (ignored if --unlimited-depth is set)")
	flags.BoolVar(&f.unlimitedDepth, "unlimited-depth", true, "Descend without a depth limit")
	flags.StringVar(&f.readBufferSize, "read-buffer-size", "", "Read buffer size for file copies (e.g. 64KiB)")
	flags.StringVar(&f.writeBufferSize, "write-buffer-size", "", "Write buffer size for file copies (e.g. 64KiB)")
	flags.StringVar(&f.progressInterval, "progress-interval", "", "Minimum bytes between progress updates (e.g. 64KiB)")
	flags.BoolVar(&f.showProgress, "progress", false, "Display a live progress line")
}

// transferFlags holds the command-line flags shared by the copy and move
// commands.
type transferFlags struct {
	destinationRule  string
	onFileCollision  string
	onSubdirectory   string
	symlinks         string
	brokenLinks      string
	maxDepth         uint
	unlimitedDepth   bool
	readBufferSize   string
	writeBufferSize  string
	progressInterval string
	showProgress     bool
}

func (f *transferFlags) toCopyOptions() (fsmore.CopyOptions, error) {
	rule, err := parseDestinationRule(f.destinationRule, f.onFileCollision, f.onSubdirectory)
	if err != nil {
		return fsmore.CopyOptions{}, err
	}

	symlinkPolicy, err := parseSymlinkPolicy(f.symlinks)
	if err != nil {
		return fsmore.CopyOptions{}, err
	}

	brokenLinkPolicy, err := parseBrokenLinkPolicy(f.brokenLinks)
	if err != nil {
		return fsmore.CopyOptions{}, err
	}

	depth := fsmore.UnlimitedDepth()
	if !f.unlimitedDepth {
		depth = fsmore.LimitedDepth(f.maxDepth)
	}

	readBufferSize, err := parseByteSize(f.readBufferSize)
	if err != nil {
		return fsmore.CopyOptions{}, err
	}
	writeBufferSize, err := parseByteSize(f.writeBufferSize)
	if err != nil {
		return fsmore.CopyOptions{}, err
	}
	progressInterval, err := parseByteSize(f.progressInterval)
	if err != nil {
		return fsmore.CopyOptions{}, err
	}

	return fsmore.CopyOptions{
		Destination:                rule,
		Depth:                      depth,
		SymlinkPolicy:              symlinkPolicy,
		BrokenLinkPolicy:           brokenLinkPolicy,
		ReadBufferSize:             int(readBufferSize),
		WriteBufferSize:            int(writeBufferSize),
		ProgressUpdateByteInterval: progressInterval,
	}, nil
}

func parseDestinationRule(kind, onFileCollision, onSubdirectory string) (fsmore.DestinationRule, error) {
	var ruleKind fsmore.DestinationRuleKind
	switch kind {
	case "disallow-existing":
		ruleKind = fsmore.DisallowExisting
	case "allow-empty":
		ruleKind = fsmore.AllowEmpty
	case "allow-non-empty":
		ruleKind = fsmore.AllowNonEmpty
	default:
		return fsmore.DestinationRule{}, fmt.Errorf("unknown destination rule: %s", kind)
	}

	var fileCollision fsmore.FileCollisionPolicy
	switch onFileCollision {
	case "abort":
		fileCollision = fsmore.FileCollisionAbort
	case "overwrite":
		fileCollision = fsmore.FileCollisionOverwrite
	case "skip":
		fileCollision = fsmore.FileCollisionSkip
	default:
		return fsmore.DestinationRule{}, fmt.Errorf("unknown file collision policy: %s", onFileCollision)
	}

	var subdirCollision fsmore.SubdirCollisionPolicy
	switch onSubdirectory {
	case "abort":
		subdirCollision = fsmore.SubdirCollisionAbort
	case "continue":
		subdirCollision = fsmore.SubdirCollisionContinue
	default:
		return fsmore.DestinationRule{}, fmt.Errorf("unknown subdirectory collision policy: %s", onSubdirectory)
	}

	return fsmore.DestinationRule{
		Kind:                  ruleKind,
		FileCollisionPolicy:   fileCollision,
		SubdirCollisionPolicy: subdirCollision,
	}, nil
}

func parseSymlinkPolicy(value string) (fsmore.SymlinkPolicy, error) {
	switch value {
	case "keep":
		return fsmore.SymlinkKeep, nil
	case "follow":
		return fsmore.SymlinkFollow, nil
	default:
		return 0, fmt.Errorf("unknown symlink policy: %s", value)
	}
}

func parseBrokenLinkPolicy(value string) (fsmore.BrokenLinkPolicy, error) {
	switch value {
	case "keep":
		return fsmore.BrokenLinkKeep, nil
	case "abort":
		return fsmore.BrokenLinkAbort, nil
	default:
		return 0, fmt.Errorf("unknown broken link policy: %s", value)
	}
}

func parseByteSize(value string) (uint64, error) {
	if value == "" {
		return 0, nil
	}
	return humanize.ParseBytes(value)
}
