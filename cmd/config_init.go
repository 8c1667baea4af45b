package cmd

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gamescout configuration",
	Long: `Creates the configuration directory with a default config.yaml and the three
prompt template files if they don't exist. Existing files are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configInitRunE(&DefaultConfigProvider{}, cmd.OutOrStdout(), cmd, args)
	},
}

func init() {
	configCmd.AddCommand(initCmd)
}

// configInitRunE contains the core logic for the config init command.
// It accepts dependencies for testability.
func configInitRunE(configProvider ConfigProvider, writer io.Writer, cmd *cobra.Command, args []string) error {
	log.Info().Msg("Initializing configuration...")
	if err := configProvider.CreateDefaultConfigFiles(""); err != nil {
		log.Error().Err(err).Msg("Failed to initialize configuration files")
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}
	log.Info().Msg("Configuration initialization complete.")
	fmt.Fprintln(writer, "Configuration directory and default files ensured.")
	fmt.Fprintln(writer, "Next: store your API key with 'scout config set-key <key>' and run 'scout serve'.")
	return nil
}
