// Command fsmore provides a command-line interface to pkg/fsmore's
// recursive directory copy and move operations.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fsmore/fsmore/cmd"
	"github.com/fsmore/fsmore/pkg/buildinfo"
)

var rootCommand = &cobra.Command{
	Use:          "fsmore",
	Short:        "Safe, fine-grained recursive directory copy and move",
	Args:         cmd.DisallowArguments,
	SilenceUsage: true,
}

var rootConfiguration struct {
	help    bool
	version bool
}

func rootMain(command *cobra.Command, arguments []string) error {
	if rootConfiguration.version {
		fmt.Println(buildinfo.Version)
		return nil
	}
	return command.Help()
}

func main() {
	cmd.HandleTerminalCompatibility()

	rootCommand.Run = cmd.Mainify(rootMain)

	rootCommand.AddCommand(copyCommand, moveCommand, duCommand)

	flags := rootCommand.PersistentFlags()
	flags.BoolVarP(&rootConfiguration.help, "help", "h", false, "Show help information")

	localFlags := rootCommand.Flags()
	localFlags.BoolVarP(&rootConfiguration.version, "version", "v", false, "Show version information")

	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
