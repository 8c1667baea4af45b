package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// version is set during build time (e.g., via ldflags)
// Default is "dev" for local development.
var version = "dev"

var (
	logLevel string
	// Log is the globally configured zerolog logger instance used throughout the cmd package.
	// It's initialized in rootCmd's PersistentPreRunE based on the --log-level flag.
	Log zerolog.Logger
)

const (
	rootUse   = "scout"
	rootShort = "gamescout - AI game discovery with drill-down recommendations"
	rootLong  = `gamescout (scout) recommends video games from a natural-language request
and lets you drill down: pick a game, say how you want it to differ, and get a
new row of similar games. Run it as a web app ('scout serve') or from the
terminal ('scout recommend', 'scout explore').`
)

// configureLogger sets up the global zerolog logger based on the logLevel flag.
func configureLogger(levelStr string) error {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log.Logger = log.Output(output)

	level, err := zerolog.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		log.Warn().Msgf("Invalid log level '%s', defaulting to 'info'", levelStr)
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	Log = log.Logger.With().Timestamp().Logger()

	Log.Debug().Msgf("Log level set to '%s'", level.String())
	return nil
}

// loadDotEnv loads a .env file from the working directory when one exists.
// Variables already set in the environment win.
func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			Log.Warn().Err(err).Msg("Failed to load .env file")
		}
		return
	}
	Log.Debug().Msg("Loaded environment from .env")
}

// persistentPreRunLogic contains the logic for PersistentPreRunE, reusable by NewRootCmd.
func persistentPreRunLogic(cmd *cobra.Command, args []string) error {
	showVersion, _ := cmd.Flags().GetBool("version")
	if showVersion {
		fmt.Fprintln(cmd.OutOrStdout(), version)
		os.Exit(0)
	}
	lvl, err := cmd.Flags().GetString("log-level")
	if err != nil {
		lvl = logLevel
	}
	if err := configureLogger(lvl); err != nil {
		return err
	}
	loadDotEnv()
	return nil
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:               rootUse,
	Short:             rootShort,
	Long:              rootLong,
	PersistentPreRunE: persistentPreRunLogic,
	SilenceUsage:      true,
}

// Execute is the main entry point for the Cobra CLI application.
// It is called directly from main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		if Log.GetLevel() == zerolog.Disabled {
			_ = configureLogger("info")
		}
		Log.Error().Err(err).Msg("Command execution failed")
		os.Exit(1)
	}
}

func addRootFlags(c *cobra.Command, level *string) {
	c.PersistentFlags().StringVar(level, "log-level", "info", "Set log level (debug, info, warn, error, fatal, panic)")
	c.PersistentFlags().Bool("version", false, "Show application version")
	c.PersistentFlags().StringP("output", "o", outputText, "Output format (text|json|yaml)")
}

// NewRootCmd creates a new instance of the root command, configured for testing or embedding.
// It mirrors the setup of the package-level rootCmd.
func NewRootCmd() *cobra.Command {
	newCmd := &cobra.Command{
		Use:               rootUse,
		Short:             rootShort,
		Long:              rootLong,
		PersistentPreRunE: persistentPreRunLogic,
		SilenceUsage:      true,
	}

	var instanceLogLevel string
	addRootFlags(newCmd, &instanceLogLevel)

	newCmd.AddCommand(configCmd)
	newCmd.AddCommand(promptsCmd)
	newCmd.AddCommand(recommendCmd)
	newCmd.AddCommand(similarCmd)
	newCmd.AddCommand(reviewCmd)
	newCmd.AddCommand(exploreCmd)
	newCmd.AddCommand(serveCmd)
	newCmd.AddCommand(completionCmd)

	return newCmd
}

// completionCmd represents the completion command
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `To load completions:

Bash:
  $ source <(scout completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ scout completion bash > /etc/bash_completion.d/scout
  # macOS:
  $ scout completion bash > /usr/local/etc/bash_completion.d/scout

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ scout completion zsh > "${fpath[1]}/_scout"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ scout completion fish | source

  # To load completions for each session, execute once:
  $ scout completion fish > ~/.config/fish/completions/scout.fish

PowerShell:
  PS> scout completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> scout completion powershell > scout.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := cmd.Root()
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(out)
		case "zsh":
			return root.GenZshCompletion(out)
		case "fish":
			return root.GenFishCompletion(out, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(out)
		default:
			return fmt.Errorf("unsupported shell type %q", args[0])
		}
	},
}

func init() {
	addRootFlags(rootCmd, &logLevel)

	// Subcommands add themselves via their own init() functions.
	rootCmd.AddCommand(completionCmd)
}
