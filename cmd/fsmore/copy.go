package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/fsmore/fsmore/cmd"
	"github.com/fsmore/fsmore/pkg/fsmore"
)

var copyCommand = &cobra.Command{
	Use:   "copy <source> <destination>",
	Short: "Recursively copy a directory",
	Run:   cmd.Mainify(copyMain),
}

var copyConfiguration transferFlags

func init() {
	copyConfiguration.register(copyCommand.Flags())
}

func copyMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 2 {
		return errors.New("invalid number of arguments (expected source and destination)")
	}
	source, destination := arguments[0], arguments[1]

	options, err := copyConfiguration.toCopyOptions()
	if err != nil {
		return err
	}

	ctx := context.Background()

	if !copyConfiguration.showProgress {
		outcome, err := fsmore.CopyDirectory(ctx, source, destination, options)
		if err != nil {
			return err
		}
		printCopyOutcome(outcome)
		return nil
	}

	var printer cmd.StatusLinePrinter
	outcome, err := fsmore.CopyDirectoryWithProgress(ctx, source, destination, options, func(progress *fsmore.Progress) {
		printer.Print(formatProgress(progress))
	})
	printer.BreakIfNonEmpty()
	if err != nil {
		return err
	}
	printCopyOutcome(outcome)
	return nil
}

func printCopyOutcome(outcome fsmore.CopyOutcome) {
	fmt.Printf("Copied %d file(s), created %d director(ies) and %d symbolic link(s), %s total\n",
		outcome.FilesCopied, outcome.DirectoriesCreated, outcome.SymlinksCreated, humanize.Bytes(outcome.BytesCopied))
}

func formatProgress(progress *fsmore.Progress) string {
	return fmt.Sprintf("[%d/%d] %s (%s/%s)",
		progress.CurrentOperationIndex+1, progress.TotalOperations,
		progress.CurrentOperationPath,
		humanize.Bytes(progress.BytesFinished), humanize.Bytes(progress.BytesTotal))
}
