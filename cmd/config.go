package cmd

import (
	"github.com/spf13/cobra"
)

// configCmd represents the config command group
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage gamescout configuration",
	Long: `Provides commands to initialize, show, locate, and manage gamescout configuration files.
This command itself does not perform any action but serves as a parent for subcommands.`,
}

func init() {
	rootCmd.AddCommand(configCmd)
}
