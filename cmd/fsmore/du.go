package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fsmore/fsmore/cmd"
	"github.com/fsmore/fsmore/pkg/fsmore/dirsize"
)

var duCommand = &cobra.Command{
	Use:   "du <path>",
	Short: "Report the aggregate size of a directory tree",
	Run:   cmd.Mainify(duMain),
}

var duConfiguration struct {
	followSymlinks bool
	maxDepth       uint
	unlimitedDepth bool
}

func init() {
	flags := duCommand.Flags()
	flags.BoolVar(&duConfiguration.followSymlinks, "follow-symlinks", false, "Follow symbolic links encountered during the walk")
	flags.UintVar(&duConfiguration.maxDepth, "max-depth", 0, "Maximum descent depth (ignored if --unlimited-depth is set)")
	flags.BoolVar(&duConfiguration.unlimitedDepth, "unlimited-depth", true, "Descend without a depth limit")
}

func duMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("invalid number of arguments (expected exactly one path)")
	}

	result, err := dirsize.DirectorySize(context.Background(), arguments[0], dirsize.Options{
		FollowSymbolicLinks: duConfiguration.followSymlinks,
		Unlimited:           duConfiguration.unlimitedDepth,
		MaximumDepth:        duConfiguration.maxDepth,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%s (%d file(s), %d director(ies), %d symbolic link(s))\n",
		humanize.Bytes(result.TotalBytes), result.FileCount, result.DirectoryCount, result.SymlinkCount)
	return nil
}
