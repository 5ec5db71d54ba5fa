package commands

import (
	"github.com/spf13/cobra"

	"github.com/m3rciful/subbot/core/buildinfo"
)

var configPath string

// Execute runs the subbot CLI.
func Execute() error {
	return newRoot().Execute()
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "subbot",
		Short:         "Telegram bot for managing subscription links",
		Version:       buildinfo.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $CONFIG_PATH or config.yaml)")

	root.AddCommand(runCmd(), versionCmd())
	return root
}
