package cmd

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

// recommendRunE holds the logic for the recommend command, accepting dependencies.
func recommendRunE(act ActionRunner, cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		err := errors.New("no query provided")
		Log.Error().Err(err).Msg("Query missing")
		cmd.PrintErrln("Error: No query provided.")
		cmd.PrintErrln("Describe the game you are looking for, e.g. scout recommend \"co-op RPG with lots of replay value\".")
		return err
	}

	Log.Debug().Str("query", query).Msg("Requesting recommendations")
	res := act.GetGameRecommendations(commandContext(cmd), query)
	if !res.Failed() {
		Log.Info().Int("count", len(res.Recommendations)).Msg("Received recommendations")
	}
	return writeResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, res)
}

// recommendCmd represents the recommend command
var recommendCmd = &cobra.Command{
	Use:   "recommend [what you want to play...]",
	Short: "Recommend games for a natural-language request",
	Long: `Asks the configured LLM gateway for game recommendations matching the
request and prints them. Use -o json or -o yaml for machine-readable output;
the JSON form matches the web API's /api/recommendations response.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		act, _, err := actionsFromProvider(cmd)
		if err != nil {
			return err
		}
		return recommendRunE(act, cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}
