package cmd

import (
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	keyring "github.com/zalando/go-keyring"

	"github.com/karolswdev/gamescout/internal/actions"
	"github.com/karolswdev/gamescout/internal/config"
	"github.com/karolswdev/gamescout/internal/flowclient"
	"github.com/karolswdev/gamescout/internal/llm"
	"github.com/karolswdev/gamescout/internal/recommend"
)

// ErrLLMNotConfigured is returned by commands that need the LLM gateway when
// none could be built from the configuration.
var ErrLLMNotConfigured = errors.New("LLM gateway not initialized")

// --- Concrete Implementations of Shared Interfaces ---

// DefaultConfigProvider implements the ConfigProvider interface using the actual config package functions.
// Exported for potential use in tests directly.
type DefaultConfigProvider struct{}

func (p *DefaultConfigProvider) LoadConfig() (*config.AppConfig, error) {
	return config.LoadConfig("")
}

func (p *DefaultConfigProvider) LoadPromptTemplates() (config.PromptTemplates, error) {
	return config.LoadPromptTemplates("")
}

func (p *DefaultConfigProvider) GetAPIKey() (string, error) {
	return config.GetAPIKey()
}

// CreateDefaultConfigFiles creates the default files in configDir, or in the
// resolved config directory when configDir is empty.
func (p *DefaultConfigProvider) CreateDefaultConfigFiles(configDir string) error {
	return config.CreateDefaultConfigFiles(configDir)
}

// EnsureConfigDir calls the underlying config function to ensure the config directory exists.
func (p *DefaultConfigProvider) EnsureConfigDir() (string, error) {
	return config.EnsureConfigDir("")
}

// --- Keyring Client Implementation ---

// defaultKeyringClient implements the KeyringClient interface using the actual keyring package.
type defaultKeyringClient struct{}

// Set calls the underlying keyring package's Set function.
func (k *defaultKeyringClient) Set(service, user, password string) error {
	return keyring.Set(service, user, password)
}

// GetAPIKey resolves the key the way the gateway will: keychain first, then
// the environment. service and user are fixed by the config package.
func (k *defaultKeyringClient) GetAPIKey(service, user string) (string, error) {
	return config.GetAPIKey()
}

// --- LLM gateway construction ---

// NewLLMClient builds the gateway selected by cfg.LLM.Provider. The OpenAI
// gateway needs apiKey; the flows gateway does not.
func NewLLMClient(cfg *config.AppConfig, tmpls config.PromptTemplates, apiKey string) (llm.Client, error) {
	switch cfg.LLM.Provider {
	case config.ProviderOpenAI:
		if apiKey == "" {
			return nil, config.ErrAPIKeyNotFound
		}
		Log.Debug().Str("provider", cfg.LLM.Provider).Str("model", cfg.LLM.OpenAI.ModelName).Msg("Initializing OpenAI LLM client")
		openAIConfig := openai.DefaultConfig(apiKey)
		if cfg.LLM.OpenAI.BaseURL != "" {
			openAIConfig.BaseURL = cfg.LLM.OpenAI.BaseURL
			Log.Debug().Str("baseURLUsed", openAIConfig.BaseURL).Msg("Using custom OpenAI BaseURL")
		}
		client, err := llm.NewOpenAIClient(openai.NewClientWithConfig(openAIConfig), llm.OpenAIOptions{
			ModelName:   cfg.LLM.OpenAI.ModelName,
			Temperature: cfg.LLM.OpenAI.Temperature,
			JSONMode:    cfg.LLM.OpenAI.JSONMode,
			Templates: llm.Templates{
				Recommend:   tmpls.Recommend,
				Similar:     tmpls.Similar,
				ReviewTrend: tmpls.ReviewTrend,
			},
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case config.ProviderFlows:
		Log.Debug().Str("provider", cfg.LLM.Provider).Str("baseURL", cfg.LLM.Flows.BaseURL).Msg("Initializing flow server client")
		client, err := flowclient.New(cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.LLM.Provider)
	}
}

// --- Central Provider ---

// Provider serves as a central dependency injection container, aggregating the
// configuration and the services the commands need. Actions is nil when the
// LLM gateway could not be built; commands that need it call RequireActions.
type Provider struct {
	Config    ConfigProvider
	Keyring   KeyringClient
	AppConfig *config.AppConfig
	LLM       llm.Client
	Actions   ActionRunner

	llmErr error
}

// RequireActions returns the action runner or an error naming why there is none.
func (p *Provider) RequireActions() (ActionRunner, error) {
	switch {
	case p.Actions != nil:
		return p.Actions, nil
	case p.llmErr != nil:
		return nil, fmt.Errorf("%w: %w", ErrLLMNotConfigured, p.llmErr)
	default:
		return nil, ErrLLMNotConfigured
	}
}

// GetProvider loads the configuration and wires the gateway, the
// recommendation service, and the server actions. A missing API key is not
// fatal here so that configuration commands keep working.
func GetProvider() (*Provider, error) {
	return newProvider(&DefaultConfigProvider{}, &defaultKeyringClient{})
}

func newProvider(cfgProvider ConfigProvider, keyringClient KeyringClient) (*Provider, error) {
	appCfg, err := cfgProvider.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load application config: %w", err)
	}

	tmpls, err := cfgProvider.LoadPromptTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}

	provider := &Provider{
		Config:    cfgProvider,
		Keyring:   keyringClient,
		AppConfig: appCfg,
	}

	var apiKey string
	if appCfg.LLM.Provider == config.ProviderOpenAI {
		apiKey, err = cfgProvider.GetAPIKey()
		if err != nil {
			Log.Warn().Err(err).Msg("Failed to get LLM API key during provider setup. LLM operations will fail.")
			provider.llmErr = err
			return provider, nil
		}
	}

	llmClient, err := NewLLMClient(appCfg, tmpls, apiKey)
	if err != nil {
		Log.Warn().Err(err).Msg("Failed to initialize LLM client. LLM operations will fail.")
		provider.llmErr = err
		return provider, nil
	}

	provider.LLM = llmClient
	provider.Actions = actions.New(recommend.New(llmClient, appCfg.LLM.Timeout), appCfg.UI.Language)

	Log.Debug().Str("provider", appCfg.LLM.Provider).Msg("Service Provider initialized successfully.")
	return provider, nil
}
