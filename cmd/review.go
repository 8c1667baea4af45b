package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// reviewRunE holds the logic for the review command, accepting dependencies.
func reviewRunE(act ActionRunner, cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	trend := strings.Join(args, " ")
	res := act.SummarizeReviewTrend(commandContext(cmd), trend)
	if res.Error != "" {
		cmd.PrintErrln(res.Error)
		return fmt.Errorf("%w: %s", ErrActionFailed, res.Error)
	}

	out := cmd.OutOrStdout()
	payload := map[string]string{"summary": res.Summary}
	switch format {
	case outputJSON:
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format summary as JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	case outputYAML:
		data, err := yaml.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to format summary as YAML: %w", err)
		}
		fmt.Fprint(out, string(data))
	default:
		fmt.Fprintln(out, res.Summary)
	}
	return nil
}

// reviewCmd represents the review command
var reviewCmd = &cobra.Command{
	Use:   "review [recent review trend...]",
	Short: "Summarize a game's recent review trend",
	Long: `Summarizes a recent-review-trend label (as shown on a game card, e.g.
"Mostly Positive since the 1.2 patch") in one or two sentences.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(strings.Join(args, "")) == "" {
			return errors.New("no review trend provided")
		}
		act, _, err := actionsFromProvider(cmd)
		if err != nil {
			return err
		}
		return reviewRunE(act, cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
