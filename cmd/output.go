package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/karolswdev/gamescout/internal/actions"
	"github.com/karolswdev/gamescout/internal/config"
	"github.com/karolswdev/gamescout/internal/flowclient"
	"github.com/karolswdev/gamescout/internal/game"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// ErrActionFailed wraps the user-facing message of a failed server action.
var ErrActionFailed = errors.New("action failed")

// ErrUnknownOutputFormat is returned for an unsupported --output value.
var ErrUnknownOutputFormat = errors.New("unknown output format")

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "", outputText:
		return outputText, nil
	case outputJSON, outputYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q (use text, json or yaml)", ErrUnknownOutputFormat, format)
	}
}

// writeResult prints an action result in the requested format. A failed
// result prints its message to errOut and returns ErrActionFailed.
func writeResult(out, errOut io.Writer, format string, res actions.Result) error {
	if res.Failed() {
		fmt.Fprintln(errOut, res.Error)
		return fmt.Errorf("%w: %s", ErrActionFailed, res.Error)
	}

	switch format {
	case outputJSON:
		jsonData, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			Log.Error().Err(err).Msg("Failed to marshal recommendations to JSON")
			return fmt.Errorf("failed to format recommendations as JSON: %w", err)
		}
		fmt.Fprintln(out, string(jsonData))
	case outputYAML:
		games := res.Recommendations
		if games == nil {
			games = []game.Game{}
		}
		yamlData, err := yaml.Marshal(games)
		if err != nil {
			Log.Error().Err(err).Msg("Failed to marshal recommendations to YAML")
			return fmt.Errorf("failed to format recommendations as YAML: %w", err)
		}
		fmt.Fprint(out, string(yamlData))
	default:
		writeGamesText(out, res.Recommendations)
	}
	return nil
}

func writeGamesText(out io.Writer, games []game.Game) {
	if len(games) == 0 {
		fmt.Fprintln(out, "No games found.")
		return
	}
	for i, g := range games {
		writeGameText(out, i+1, g, "")
	}
}

// writeGameText prints one numbered game card. marker precedes the number,
// e.g. "*" for the selected game in explore.
func writeGameText(out io.Writer, n int, g game.Game, marker string) {
	if marker == "" {
		marker = " "
	}
	fmt.Fprintf(out, "%s%d. %s [%s] %s\n", marker, n, g.Title, g.Genre, g.Price)
	if g.Summary != "" {
		fmt.Fprintf(out, "     %s\n", g.Summary)
	}
	if g.RecentReviewTrend != "" {
		fmt.Fprintf(out, "     Reviews: %s (%s)\n", g.RecentReviewTrend, g.Variant())
	}
	fmt.Fprintf(out, "     Health:  %s %.1f/10\n", healthBar(g), g.HealthScore())
	for _, s := range g.StoreURLs {
		fmt.Fprintf(out, "     %s: %s\n", s.Platform, s.URL)
	}
}

func healthBar(g game.Game) string {
	filled := g.HealthPercent() / 10
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", 10-filled) + "]"
}

// reportSetupError prints guidance for errors raised while loading the
// configuration or building the gateway.
func reportSetupError(w io.Writer, err error) {
	switch {
	case errors.Is(err, config.ErrConfigRead), errors.Is(err, config.ErrConfigParse):
		fmt.Fprintln(w, "Error reading or parsing config.yaml. Please check its format and permissions.")
		fmt.Fprintln(w, "You might need to run 'scout config init'.")
	case errors.Is(err, config.ErrConfigInvalid), errors.Is(err, config.ErrUnknownProvider):
		fmt.Fprintf(w, "Invalid configuration: %v\n", err)
		fmt.Fprintln(w, "Check config.yaml ('scout config locate') and GAMESCOUT_* environment variables.")
	case errors.Is(err, config.ErrConfigDirCreate), errors.Is(err, config.ErrConfigDirStat), errors.Is(err, config.ErrConfigDirNotDir):
		fmt.Fprintln(w, "Error accessing configuration directory. Please check permissions.")
	case errors.Is(err, config.ErrPromptRead):
		fmt.Fprintf(w, "Error reading a prompt template: %v\n", err)
	case errors.Is(err, config.ErrAPIKeyNotFound):
		fmt.Fprintln(w, "Error: LLM API key not found.")
		fmt.Fprintf(w, "Please store it using 'scout config set-key <your-key>' or set the %s environment variable.\n", config.EnvAPIKeyName)
	case errors.Is(err, flowclient.ErrFlowsURLMissing), errors.Is(err, flowclient.ErrFlowsURLParse):
		fmt.Fprintf(w, "Error: the flow server URL is not usable: %v\n", err)
		fmt.Fprintln(w, "Set 'llm.flows.base_url' in config.yaml or the GAMESCOUT_LLM_FLOWS_BASE_URL environment variable.")
	default:
		fmt.Fprintf(w, "An unexpected error occurred during setup: %v\n", err)
	}
}

// actionsFromProvider builds the provider and returns its action runner,
// printing guidance to stderr on failure.
func actionsFromProvider(cmd *cobra.Command) (ActionRunner, *Provider, error) {
	provider, err := GetProvider()
	if err != nil {
		Log.Error().Err(err).Msg("Failed to get service provider")
		reportSetupError(cmd.ErrOrStderr(), err)
		return nil, nil, err
	}
	act, err := provider.RequireActions()
	if err != nil {
		Log.Error().Err(err).Msg("LLM gateway unavailable")
		reportSetupError(cmd.ErrOrStderr(), err)
		return nil, nil, err
	}
	return act, provider, nil
}

// commandContext returns the command's context, or Background when the
// command runs outside Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
