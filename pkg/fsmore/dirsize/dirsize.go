// Package dirsize implements DirectorySize, a lightweight scan-only
// utility supplementing the copy/move engine: reporting the aggregate size
// of a directory tree without performing any destination-side work. It is
// useful for pre-flight disk-space checks and for the `fsmore du`
// command-line tool.
package dirsize

import (
	"context"

	"github.com/fsmore/fsmore/pkg/fsmore/fserrors"
	"github.com/fsmore/fsmore/pkg/fsmore/scan"
	"github.com/fsmore/fsmore/pkg/fsmore/validate"
)

// Result reports the aggregate size of a directory tree.
type Result struct {
	TotalBytes     uint64
	FileCount      uint64
	DirectoryCount uint64
	SymlinkCount   uint64
}

// Options configures a DirectorySize scan.
type Options struct {
	FollowSymbolicLinks bool
	Unlimited           bool
	MaximumDepth        uint
}

// DirectorySize walks path and reports its aggregate size. ctx is checked
// for cancellation between entries.
func DirectorySize(ctx context.Context, path string, options Options) (Result, error) {
	source, err := validate.ValidateSource(path)
	if err != nil {
		return Result{}, err
	}

	scanner := scan.New(source.Path, scan.Options{
		YieldBaseDirectory:  true,
		Unlimited:           options.Unlimited,
		MaximumScanDepth:    options.MaximumDepth,
		FollowSymbolicLinks: options.FollowSymbolicLinks,
	})

	var result Result
	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		entry, ok := scanner.Next()
		if !ok {
			break
		}
		if entry.Cycle != nil {
			return result, entry.Cycle
		}
		if entry.Err != nil {
			return result, &fserrors.UnableToAccess{Path: entry.Path, Err: entry.Err}
		}
		if entry.Info == nil {
			continue
		}

		if entry.Depth == scan.BaseDirectory {
			continue
		}

		switch {
		case entry.Type.IsSymlink():
			result.SymlinkCount++
			result.TotalBytes += uint64(entry.Info.Size())
		case entry.Info.IsDir():
			result.DirectoryCount++
		default:
			result.FileCount++
			result.TotalBytes += uint64(entry.Info.Size())
		}
	}
	if err := scanner.Err(); err != nil {
		return result, &fserrors.UnableToAccess{Path: source.Path, Err: err}
	}

	return result, nil
}
