package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/karolswdev/gamescout/internal/config"
	"github.com/karolswdev/gamescout/internal/llm"
)

// ErrUnknownPrompt is returned for a prompt name other than recommend, similar or review.
var ErrUnknownPrompt = errors.New("unknown prompt")

// promptDef ties a prompt name to its override file and built-in default.
type promptDef struct {
	Name     string
	File     string
	Default  string
	Override func(config.PromptTemplates) string
}

var promptDefs = []promptDef{
	{"recommend", config.RecommendPromptFileName, llm.DefaultRecommendTemplate, func(t config.PromptTemplates) string { return t.Recommend }},
	{"similar", config.SimilarPromptFileName, llm.DefaultSimilarTemplate, func(t config.PromptTemplates) string { return t.Similar }},
	{"review", config.ReviewPromptFileName, llm.DefaultReviewTrendTemplate, func(t config.PromptTemplates) string { return t.ReviewTrend }},
}

func lookupPrompt(name string) (promptDef, error) {
	for _, p := range promptDefs {
		if p.Name == name {
			return p, nil
		}
	}
	names := make([]string, 0, len(promptDefs))
	for _, p := range promptDefs {
		names = append(names, p.Name)
	}
	return promptDef{}, fmt.Errorf("%w %q (choose one of %s)", ErrUnknownPrompt, name, strings.Join(names, ", "))
}

// promptsShowRunE prints the effective template for each named prompt, or all
// of them when names is empty.
func promptsShowRunE(cfgProvider ConfigProvider, out io.Writer, names []string) error {
	tmpls, err := cfgProvider.LoadPromptTemplates()
	if err != nil {
		return fmt.Errorf("error loading prompt templates: %w", err)
	}

	defs := promptDefs
	if len(names) > 0 {
		defs = make([]promptDef, 0, len(names))
		for _, n := range names {
			p, err := lookupPrompt(n)
			if err != nil {
				return err
			}
			defs = append(defs, p)
		}
	}

	for i, p := range defs {
		if i > 0 {
			fmt.Fprintln(out)
		}
		body, source := p.Override(tmpls), p.File
		if strings.TrimSpace(body) == "" {
			body, source = p.Default, "built-in"
		}
		fmt.Fprintf(out, "--- %s (%s) ---\n", p.Name, source)
		fmt.Fprintln(out, strings.TrimRight(body, "\n"))
	}
	return nil
}

// promptsPathRunE prints where each prompt override file lives.
func promptsPathRunE(cfgProvider ConfigProvider, out io.Writer) error {
	configDir, err := cfgProvider.EnsureConfigDir()
	if err != nil {
		return fmt.Errorf("error ensuring config directory: %w", err)
	}
	for _, p := range promptDefs {
		fmt.Fprintf(out, "%-9s %s\n", p.Name, filepath.Join(configDir, p.File))
	}
	return nil
}

// resolveEditor picks $VISUAL, then $EDITOR, then a per-OS default.
func resolveEditor() string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if editor := os.Getenv(env); editor != "" {
			return editor
		}
	}
	if runtime.GOOS == "windows" {
		return "notepad"
	}
	return "vi"
}

// promptsEditRunE makes sure the override file exists, seeded with the
// built-in template, and opens it in the user's editor.
func promptsEditRunE(cfgProvider ConfigProvider, name string, run func(*exec.Cmd) error) error {
	p, err := lookupPrompt(name)
	if err != nil {
		return err
	}
	if err := cfgProvider.CreateDefaultConfigFiles(""); err != nil {
		return fmt.Errorf("failed to create default prompt files: %w", err)
	}
	configDir, err := cfgProvider.EnsureConfigDir()
	if err != nil {
		return fmt.Errorf("failed to ensure config directory: %w", err)
	}
	path := filepath.Join(configDir, p.File)

	editor := resolveEditor()
	Log.Debug().Str("editor", editor).Str("path", path).Msg("Launching editor")

	editorCmd := exec.Command(editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := run(editorCmd); err != nil {
		Log.Error().Err(err).Str("editor", editor).Msg("Editor command failed")
		return fmt.Errorf("failed to run editor '%s': %w", editor, err)
	}
	Log.Info().Str("prompt", p.Name).Msg("Editor finished.")
	return nil
}

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Manage the LLM prompt templates",
	Long: `The recommend, similar and review prompts are Go text/templates. A file in the
config directory overrides the built-in template; delete or empty it to go back
to the default. The JSON output contract is always appended by scout.

Template fields: {{.Query}}, {{.OriginalQuery}}, {{.GameJSON}}, {{.RecentReviewTrend}}.`,
}

var promptsShowCmd = &cobra.Command{
	Use:       "show [recommend|similar|review]...",
	Short:     "Print the effective prompt templates",
	ValidArgs: []string{"recommend", "similar", "review"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return promptsShowRunE(&DefaultConfigProvider{}, cmd.OutOrStdout(), args)
	},
}

var promptsEditCmd = &cobra.Command{
	Use:       "edit recommend|similar|review",
	Short:     "Edit a prompt template using $EDITOR",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"recommend", "similar", "review"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return promptsEditRunE(&DefaultConfigProvider{}, args[0], (*exec.Cmd).Run)
	},
}

var promptsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the prompt template file paths",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return promptsPathRunE(&DefaultConfigProvider{}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(promptsCmd)
	promptsCmd.AddCommand(promptsShowCmd)
	promptsCmd.AddCommand(promptsEditCmd)
	promptsCmd.AddCommand(promptsPathCmd)
}
