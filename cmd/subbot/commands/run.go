package commands

import (
	"github.com/spf13/cobra"

	corecmd "github.com/m3rciful/subbot/core/cmd"
	"github.com/m3rciful/subbot/internal/app"
)

// runner is swapped in tests.
var runner = corecmd.Run

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner(app.RunOptions(configPath))
		},
	}
}
