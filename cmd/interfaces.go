package cmd

import (
	"context"

	"github.com/karolswdev/gamescout/internal/actions"
	"github.com/karolswdev/gamescout/internal/config"
)

// ConfigProvider defines an interface for components that load the gamescout
// configuration: the main config, prompt template overrides, and the API key.
// It also includes methods for managing the configuration directory and
// default files. This abstraction allows for easier testing by mocking
// configuration loading behavior.
type ConfigProvider interface {
	LoadConfig() (*config.AppConfig, error)
	LoadPromptTemplates() (config.PromptTemplates, error)
	GetAPIKey() (string, error)
	CreateDefaultConfigFiles(configDir string) error
	EnsureConfigDir() (string, error)
}

// ActionRunner is the set of server actions the commands drive. It is
// satisfied by *actions.Actions and doubles as a branch.Source.
type ActionRunner interface {
	GetGameRecommendations(ctx context.Context, query string) actions.Result
	FindSimilarGames(ctx context.Context, req actions.FindSimilarRequest) actions.Result
	SummarizeReviewTrend(ctx context.Context, trend string) actions.SummaryResult
}

// KeyringClient defines an interface for components that interact with the
// operating system's secure credential store (keychain/keyring). It abstracts
// the operations of setting and retrieving the LLM API key.
type KeyringClient interface {
	Set(service, user, password string) error
	GetAPIKey(service, user string) (string, error)
}
