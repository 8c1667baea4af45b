package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/karolswdev/gamescout/internal/actions"
	"github.com/karolswdev/gamescout/internal/game"
)

// ErrGameFileRead is returned when the --game file cannot be read or decoded.
var ErrGameFileRead = errors.New("failed to read game file")

// readGame decodes one game from r. The file may be JSON (as printed by
// 'scout recommend -o json' for a single entry) or YAML.
func readGame(r io.Reader) (game.Game, error) {
	var g game.Game
	data, err := io.ReadAll(r)
	if err != nil {
		return g, fmt.Errorf("%w: %w", ErrGameFileRead, err)
	}
	if err := yaml.Unmarshal(data, &g); err != nil {
		return g, fmt.Errorf("%w: %w", ErrGameFileRead, err)
	}
	return g, nil
}

func openGameFile(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGameFileRead, err)
	}
	return f, nil
}

// similarRunE holds the logic for the similar command, accepting dependencies.
func similarRunE(act ActionRunner, cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	gamePath, _ := cmd.Flags().GetString("game")
	query, _ := cmd.Flags().GetString("query")
	originalQuery, _ := cmd.Flags().GetString("original-query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}

	rc, err := openGameFile(gamePath, cmd.InOrStdin())
	if err != nil {
		Log.Error().Err(err).Str("path", gamePath).Msg("Failed to open game file")
		cmd.PrintErrf("Error: could not open game file %q: %v\n", gamePath, err)
		return err
	}
	defer rc.Close()

	ref, err := readGame(rc)
	if err != nil {
		Log.Error().Err(err).Str("path", gamePath).Msg("Failed to decode game file")
		cmd.PrintErrf("Error: %q is not a valid game JSON/YAML document: %v\n", gamePath, err)
		return err
	}

	Log.Debug().Str("game", ref.Title).Str("query", query).Msg("Requesting similar games")
	res := act.FindSimilarGames(commandContext(cmd), actions.FindSimilarRequest{
		Game:          ref,
		Query:         query,
		OriginalQuery: originalQuery,
	})
	return writeResult(cmd.OutOrStdout(), cmd.ErrOrStderr(), format, res)
}

// similarCmd represents the similar command
var similarCmd = &cobra.Command{
	Use:   "similar --game <file> --query <refinement>",
	Short: "Find games similar to a given game, refined by a new condition",
	Long: `Reads a game (JSON or YAML, "-" for stdin) and asks for games similar to it
that also satisfy the refinement. Pass the request that produced the game with
--original-query to keep its theme.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		act, _, err := actionsFromProvider(cmd)
		if err != nil {
			return err
		}
		return similarRunE(act, cmd, args)
	},
}

func init() {
	similarCmd.Flags().StringP("game", "g", "", "Path to the reference game (JSON or YAML, - for stdin)")
	similarCmd.Flags().StringP("query", "q", "", "How the new games should differ")
	similarCmd.Flags().String("original-query", "", "The request the reference game came from")
	_ = similarCmd.MarkFlagRequired("game")

	rootCmd.AddCommand(similarCmd)
}
