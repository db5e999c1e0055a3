// Package cli holds the admin commands of the signup service.
package cli

import "github.com/spf13/cobra"

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "admin",
		Short: "admin cli for the signup service",
		Long:  "admin cli to run migrations and generate signing keys for the signup service",
		Run: func(cmd *cobra.Command, args []string) {
			//show help if no sub-command is provided
			cmd.Help()
		},
		SilenceUsage: true,
	}

	root.AddCommand(newMigrateCommand())
	root.AddCommand(newGenKeyCommand())

	return root
}

func Execute() error {
	return newRootCommand().Execute()
}
