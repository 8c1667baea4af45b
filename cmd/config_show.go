package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/karolswdev/gamescout/internal/config"
)

// configShowCmd represents the show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current gamescout configuration",
	Long: `Displays the currently loaded configuration values
from config files and environment variables. The API key itself is never printed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRunE(&DefaultConfigProvider{}, &defaultKeyringClient{}, cmd.OutOrStdout())
	},
}

// configShowRunE contains the core logic for the 'config show' command.
func configShowRunE(cfgProvider ConfigProvider, keyringClient KeyringClient, writer io.Writer) error {
	cfg, err := cfgProvider.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}

	fmt.Fprintln(writer, "Current gamescout Configuration:")
	fmt.Fprintf(writer, "  Listen Address: %s\n", cfg.Server.ListenAddr)
	fmt.Fprintf(writer, "  Session TTL:    %s\n", cfg.Server.SessionTTL)
	fmt.Fprintf(writer, "  Max Sessions:   %d\n", cfg.Server.MaxSessions)
	fmt.Fprintf(writer, "  UI Language:    %s\n", cfg.UI.Language)
	fmt.Fprintf(writer, "  LLM Provider:   %s\n", cfg.LLM.Provider)
	fmt.Fprintf(writer, "  LLM Timeout:    %s\n", cfg.LLM.Timeout)
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		fmt.Fprintf(writer, "    OpenAI Model: %s\n", cfg.LLM.OpenAI.ModelName)
		fmt.Fprintf(writer, "    Temperature:  %.2f\n", cfg.LLM.OpenAI.Temperature)
		fmt.Fprintf(writer, "    JSON Mode:    %t\n", cfg.LLM.OpenAI.JSONMode)
		if cfg.LLM.OpenAI.BaseURL != "" {
			fmt.Fprintf(writer, "    OpenAI BaseURL: %s\n", cfg.LLM.OpenAI.BaseURL)
		}
	case config.ProviderFlows:
		fmt.Fprintf(writer, "    Flows BaseURL: %s\n", cfg.LLM.Flows.BaseURL)
	default:
		fmt.Fprintf(writer, "    (No specific settings shown for provider '%s')\n", cfg.LLM.Provider)
	}

	if cfg.LLM.Provider != config.ProviderOpenAI {
		fmt.Fprintln(writer, "  LLM API Key:    Not used by this provider")
		return nil
	}

	_, err = keyringClient.GetAPIKey(config.KeyringServiceName, config.KeyringUserName)
	apiKeyStatus := "Set (use 'scout config set-key' to change)"
	if err != nil {
		if errors.Is(err, config.ErrAPIKeyNotFound) {
			apiKeyStatus = "Not Set (use 'scout config set-key' to set)"
		} else {
			apiKeyStatus = fmt.Sprintf("Status Unknown (error checking keychain/env: %v)", err)
		}
	}
	fmt.Fprintf(writer, "  LLM API Key:    %s\n", apiKeyStatus)

	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
