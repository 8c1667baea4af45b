package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/karolswdev/gamescout/internal/branch"
)

const exploreHelp = `Commands:
  search <request>        start over with a new request
  select <level> <n|title> toggle the selection in a row (n is the card number)
  refine <level> <how>     find games similar to the selected one, differing as described
  summary <level> <n|title> summarize a game's recent review trend
  show                     print all rows again
  help                     show this help
  quit                     leave`

// explorer is an interactive drill-down session over one branch controller.
type explorer struct {
	act  ActionRunner
	ctrl *branch.Controller
	out  io.Writer
}

func newExplorer(act ActionRunner, out io.Writer) *explorer {
	return &explorer{act: act, ctrl: branch.NewController(act), out: out}
}

// exploreRunE reads commands from in until EOF or quit.
func exploreRunE(ctx context.Context, act ActionRunner, in io.Reader, out io.Writer) error {
	e := newExplorer(act, out)
	fmt.Fprintln(out, "What kind of game are you looking for? Type 'search <request>' or 'help'.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := e.exec(ctx, line); quit {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		Log.Error().Err(err).Msg("Failed to read explore input")
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// exec runs one command line and reports whether the session should end.
func (e *explorer) exec(ctx context.Context, line string) bool {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(verb) {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		fmt.Fprintln(e.out, exploreHelp)
	case "show":
		e.render()
	case "search":
		e.search(ctx, rest)
	case "select":
		e.selectGame(rest)
	case "refine":
		e.refine(ctx, rest)
	case "summary":
		e.summary(ctx, rest)
	default:
		fmt.Fprintf(e.out, "Unknown command %q. Type 'help' for the list.\n", verb)
	}
	return false
}

func (e *explorer) search(ctx context.Context, query string) {
	err := e.ctrl.Search(ctx, query)
	switch {
	case errors.Is(err, branch.ErrEmptyQuery):
		fmt.Fprintln(e.out, "Usage: search <request>")
		return
	case err != nil:
		Log.Debug().Err(err).Msg("Search did not produce a branch")
	}
	e.render()
}

func (e *explorer) selectGame(args string) {
	level, ref, ok := e.levelArgs(args, "select <level> <n|title>")
	if !ok {
		return
	}
	if err := e.ctrl.Select(level, e.resolveTitle(level, ref)); err != nil {
		e.reportBranchError(level, err)
		return
	}
	e.render()
}

func (e *explorer) refine(ctx context.Context, args string) {
	level, query, ok := e.levelArgs(args, "refine <level> <how>")
	if !ok {
		return
	}
	if err := e.ctrl.Refine(ctx, level, query); err != nil && !errors.Is(err, branch.ErrRequestFailed) {
		e.reportBranchError(level, err)
		return
	}
	e.render()
}

func (e *explorer) summary(ctx context.Context, args string) {
	level, ref, ok := e.levelArgs(args, "summary <level> <n|title>")
	if !ok {
		return
	}
	snap := e.ctrl.Snapshot()
	if level >= len(snap.Branches) {
		e.reportBranchError(level, branch.ErrLevelOutOfRange)
		return
	}
	title := e.resolveTitle(level, ref)
	for _, g := range snap.Branches[level].Games {
		if g.Title != title {
			continue
		}
		res := e.act.SummarizeReviewTrend(ctx, g.RecentReviewTrend)
		if res.Error != "" {
			fmt.Fprintf(e.out, "! %s\n", res.Error)
			return
		}
		fmt.Fprintf(e.out, "%s: %s\n", g.Title, res.Summary)
		return
	}
	e.reportBranchError(level, branch.ErrUnknownGame)
}

// levelArgs splits "<level> <rest>".
func (e *explorer) levelArgs(args, usage string) (int, string, bool) {
	levelStr, rest, _ := strings.Cut(args, " ")
	level, err := strconv.Atoi(levelStr)
	rest = strings.TrimSpace(rest)
	if err != nil || level < 0 || rest == "" {
		fmt.Fprintf(e.out, "Usage: %s\n", usage)
		return 0, "", false
	}
	return level, rest, true
}

// resolveTitle maps a 1-based card number to its title; anything else is
// taken as a title.
func (e *explorer) resolveTitle(level int, ref string) string {
	n, err := strconv.Atoi(ref)
	if err != nil {
		return ref
	}
	snap := e.ctrl.Snapshot()
	if level < len(snap.Branches) && n >= 1 && n <= len(snap.Branches[level].Games) {
		return snap.Branches[level].Games[n-1].Title
	}
	return ref
}

func (e *explorer) reportBranchError(level int, err error) {
	switch {
	case errors.Is(err, branch.ErrLevelOutOfRange):
		fmt.Fprintf(e.out, "There is no row %d. Type 'show' to see the rows.\n", level)
	case errors.Is(err, branch.ErrNoSelection):
		fmt.Fprintf(e.out, "Select a game in row %d first.\n", level)
	case errors.Is(err, branch.ErrUnknownGame):
		fmt.Fprintf(e.out, "No such game in row %d.\n", level)
	case errors.Is(err, branch.ErrEmptyQuery):
		fmt.Fprintln(e.out, "Describe how the new games should differ.")
	case errors.Is(err, branch.ErrStale):
		fmt.Fprintln(e.out, "That result arrived after the rows changed and was dropped.")
	default:
		fmt.Fprintf(e.out, "Error: %v\n", err)
	}
}

// render prints every branch of the current snapshot.
func (e *explorer) render() {
	snap := e.ctrl.Snapshot()
	if snap.SearchError != "" {
		fmt.Fprintf(e.out, "! %s\n", snap.SearchError)
	}
	for _, b := range snap.Branches {
		if b.Parent == nil {
			fmt.Fprintf(e.out, "== [%d] Recommendations for %q ==\n", b.Level, snap.OriginalQuery)
		} else {
			fmt.Fprintf(e.out, "== [%d] Similar to %q ==\n", b.Level, b.Parent.Title)
		}
		for i, g := range b.Games {
			marker := ""
			if g.Title == b.Selected {
				marker = "*"
			}
			writeGameText(e.out, i+1, g, marker)
		}
		if b.Error != "" {
			fmt.Fprintf(e.out, "! %s\n", b.Error)
		}
	}
}

// exploreCmd represents the explore command
var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Drill down through recommendations interactively",
	Long: `Starts an interactive session in the terminal. Search once, then pick a
game in any row and refine it to open a new row of similar games. Refining an
earlier row discards the rows after it.

` + exploreHelp,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		act, _, err := actionsFromProvider(cmd)
		if err != nil {
			return err
		}
		return exploreRunE(commandContext(cmd), act, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}
