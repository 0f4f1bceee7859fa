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

var moveCommand = &cobra.Command{
	Use:   "move <source> <destination>",
	Short: "Move a directory, using an atomic rename where possible",
	Run:   cmd.Mainify(moveMain),
}

var moveConfiguration transferFlags

func init() {
	moveConfiguration.register(moveCommand.Flags())
}

func moveMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 2 {
		return errors.New("invalid number of arguments (expected source and destination)")
	}
	source, destination := arguments[0], arguments[1]

	options, err := moveConfiguration.toCopyOptions()
	if err != nil {
		return err
	}

	ctx := context.Background()

	if !moveConfiguration.showProgress {
		outcome, err := fsmore.MoveDirectory(ctx, source, destination, options)
		if err != nil {
			return err
		}
		printMoveOutcome(outcome)
		return nil
	}

	var printer cmd.StatusLinePrinter
	outcome, err := fsmore.MoveDirectoryWithProgress(ctx, source, destination, options, func(progress *fsmore.Progress) {
		printer.Print(formatProgress(progress))
	})
	printer.BreakIfNonEmpty()
	if err != nil {
		return err
	}
	printMoveOutcome(outcome)
	return nil
}

func printMoveOutcome(outcome fsmore.MoveOutcome) {
	if outcome.UsedRename {
		fmt.Println("Moved via atomic rename")
		return
	}
	fmt.Printf("Moved via copy-and-delete: %d file(s), %d director(ies), %d symbolic link(s), %s total\n",
		outcome.FilesCopied, outcome.DirectoriesCreated, outcome.SymlinksCreated, humanize.Bytes(outcome.BytesCopied))
}
