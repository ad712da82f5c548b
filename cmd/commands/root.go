package commands

import (
	"github.com/ncobase/taskmanager/cmd/commands/migrate"
	"github.com/spf13/cobra"

	_ "github.com/ncobase/taskmanager/data/all"
)

// NewRootCmd creates the root command. Without a subcommand it serves the API.
func NewRootCmd() *cobra.Command {
	serve := NewServeCommand()

	rootCmd := &cobra.Command{
		Use:           "taskmanager",
		Short:         "Task Manager API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	rootCmd.PersistentFlags().StringP(migrate.ConfFlag, "c", "", "config file path (default: search ./config.yaml, $HOME/.taskmanager, /etc/taskmanager)")

	rootCmd.AddCommand(
		serve,
		migrate.NewCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}
