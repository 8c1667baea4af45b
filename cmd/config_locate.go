package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/karolswdev/gamescout/internal/config"
)

// configLocateRunE contains the core logic for the config locate command.
// It uses dependency injection for testability.
func configLocateRunE(cfgProvider ConfigProvider, out io.Writer) error {
	configDir, err := cfgProvider.EnsureConfigDir()
	if err != nil {
		return fmt.Errorf("error ensuring config directory: %w", err)
	}

	fmt.Fprintf(out, "Configuration directory: %s\n", configDir)
	fmt.Fprintln(out, "Expected configuration files:")
	fmt.Fprintf(out, "- %s\n", filepath.Join(configDir, config.DefaultConfigFileName))
	for _, name := range config.PromptFileNames {
		fmt.Fprintf(out, "- %s\n", filepath.Join(configDir, name))
	}

	return nil
}

// locateCmd represents the locate command
var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Locate gamescout configuration files",
	Long: `Displays the paths to the configuration files being used by gamescout.
Set GAMESCOUT_CONFIG_DIR to use a different directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configLocateRunE(&DefaultConfigProvider{}, cmd.OutOrStdout())
	},
}

func init() {
	configCmd.AddCommand(locateCmd)
}
