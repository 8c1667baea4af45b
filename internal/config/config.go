package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"

	"github.com/karolswdev/gamescout/internal/llm"
)

const (
	// DefaultConfigFileName is the standard name for the main configuration file.
	DefaultConfigFileName = "config.yaml"
	// RecommendPromptFileName overrides the top-level recommendation prompt.
	RecommendPromptFileName = "recommend_prompt.txt"
	// SimilarPromptFileName overrides the "find similar" prompt.
	SimilarPromptFileName = "similar_prompt.txt"
	// ReviewPromptFileName overrides the review-trend summary prompt.
	ReviewPromptFileName = "review_prompt.txt"
	// DefaultConfigDirName is the standard name for the configuration directory within the user's home directory.
	DefaultConfigDirName = ".gamescout"
	// ConfigDirEnvVar is the environment variable used to override the default configuration directory path.
	ConfigDirEnvVar = "GAMESCOUT_CONFIG_DIR"
	// EnvPrefix is the prefix for environment overrides of config keys.
	EnvPrefix = "GAMESCOUT"
)

// Provider names accepted in llm.provider.
const (
	ProviderOpenAI = "openai"
	ProviderFlows  = "flows"
)

// PromptFileNames lists the prompt template files in the order they are shown.
var PromptFileNames = []string{RecommendPromptFileName, SimilarPromptFileName, ReviewPromptFileName}

// EnsureConfigDir checks if the configuration directory exists, creating it if necessary.
// It prioritizes baseDir if provided. If baseDir is empty, it checks the GAMESCOUT_CONFIG_DIR
// environment variable. If the environment variable is also empty or unset, it defaults to ~/.gamescout.
// It returns the validated configuration directory path or an error if creation/validation fails.
func EnsureConfigDir(baseDir string) (string, error) {
	configDirPath, err := resolveConfigDir(baseDir)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(configDirPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", configDirPath).Msg("Config directory does not exist, attempting to create")
			if mkdirErr := os.MkdirAll(configDirPath, 0700); mkdirErr != nil {
				log.Error().Err(mkdirErr).Str("path", configDirPath).Msg("Failed to create config directory")
				return "", fmt.Errorf("%w: %w", ErrConfigDirCreate, mkdirErr)
			}
			log.Info().Str("path", configDirPath).Msg("Successfully created config directory")
			return configDirPath, nil
		}
		log.Error().Err(err).Str("path", configDirPath).Msg("Failed to stat config directory path")
		return "", fmt.Errorf("%w: %w", ErrConfigDirStat, err)
	}

	if !info.IsDir() {
		log.Error().Str("path", configDirPath).Msg("Config path exists but is not a directory")
		return "", ErrConfigDirNotDir
	}

	log.Debug().Str("path", configDirPath).Msg("Config directory exists and is a directory")
	return configDirPath, nil
}

func resolveConfigDir(baseDir string) (string, error) {
	if baseDir != "" {
		log.Debug().Str("path", baseDir).Msg("Using provided base directory path")
		return baseDir, nil
	}
	if envDir := os.Getenv(ConfigDirEnvVar); envDir != "" {
		log.Debug().Str("path", envDir).Str("env_var", ConfigDirEnvVar).Msg("Using config directory path from environment variable")
		return envDir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	configDirPath := filepath.Join(homeDir, DefaultConfigDirName)
	log.Debug().Str("path", configDirPath).Msg("Using default config directory path")
	return configDirPath, nil
}

// ServerConfig holds settings for the web front-end.
type ServerConfig struct {
	ListenAddr string        `mapstructure:"listen_addr" json:"listen_addr" yaml:"listen_addr"`
	SessionTTL time.Duration `mapstructure:"session_ttl" json:"session_ttl" yaml:"session_ttl"`
	// MaxSessions caps live browser sessions; 0 means no cap.
	MaxSessions int `mapstructure:"max_sessions" json:"max_sessions" yaml:"max_sessions"`
}

// OpenAIConfig holds configuration specific to the OpenAI provider.
type OpenAIConfig struct {
	ModelName   string  `mapstructure:"model_name" json:"model_name" yaml:"model_name"`
	BaseURL     string  `mapstructure:"base_url" json:"base_url,omitempty" yaml:"base_url,omitempty"`
	JSONMode    bool    `mapstructure:"json_mode" json:"json_mode" yaml:"json_mode"`
	Temperature float32 `mapstructure:"temperature" json:"temperature" yaml:"temperature"`
	// APIKey is handled separately via keyring/env var (GetAPIKey).
}

// FlowsConfig holds configuration for a remote flow server.
type FlowsConfig struct {
	BaseURL string `mapstructure:"base_url" json:"base_url" yaml:"base_url"`
}

// LLMConfig holds the gateway provider selection and common settings.
// Provider-specific settings are nested.
type LLMConfig struct {
	Provider string        `mapstructure:"provider" json:"provider" yaml:"provider"`
	Timeout  time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
	OpenAI   OpenAIConfig  `mapstructure:"openai" json:"openai" yaml:"openai"`
	Flows    FlowsConfig   `mapstructure:"flows" json:"flows" yaml:"flows"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Language string `mapstructure:"language" json:"language" yaml:"language"`
}

// AppConfig holds the overall application configuration.
type AppConfig struct {
	Server ServerConfig `mapstructure:"server" json:"server" yaml:"server"`
	LLM    LLMConfig    `mapstructure:"llm" json:"llm" yaml:"llm"`
	UI     UIConfig     `mapstructure:"ui" json:"ui" yaml:"ui"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.session_ttl", "30m")
	v.SetDefault("server.max_sessions", 10000)
	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.openai.model_name", "gpt-4o")
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openai.json_mode", true)
	v.SetDefault("llm.openai.temperature", 0.7)
	v.SetDefault("llm.flows.base_url", "http://localhost:3400")
	v.SetDefault("ui.language", "ja")
}

// LoadConfig loads the application configuration from the config file (e.g., ~/.gamescout/config.yaml or baseDir/config.yaml),
// environment variables (GAMESCOUT_*), and sets defaults.
// If baseDir is empty, it uses the default ~/.gamescout.
func LoadConfig(baseDir string) (*AppConfig, error) {
	configDir, err := EnsureConfigDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure config directory: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	configPath := filepath.Join(configDir, DefaultConfigFileName)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	log.Debug().Str("path", configPath).Msg("Attempting to load config file")

	// llm.openai.model_name maps to GAMESCOUT_LLM_OPENAI_MODEL_NAME
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Warn().Str("path", configPath).Msg("Config file not found. Using defaults and environment variables.")
		} else {
			log.Error().Err(err).Str("path", configPath).Msg("Failed to read config file")
			return nil, fmt.Errorf("%w: %w", ErrConfigRead, err)
		}
	} else {
		log.Debug().Str("path", configPath).Msg("Read config file successfully")
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		log.Error().Err(err).Str("path", configPath).Msg("Failed to unmarshal config file")
		return nil, fmt.Errorf("%w: %w", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Debug().Str("path", configPath).Interface("config", cfg).Msg("Unmarshalled config successfully")

	return &cfg, nil
}

// Validate checks values viper cannot type-check on its own.
func (c *AppConfig) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderFlows:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.LLM.Provider)
	}
	if c.LLM.Timeout < 0 {
		return fmt.Errorf("%w: llm.timeout must not be negative", ErrConfigInvalid)
	}
	if c.Server.SessionTTL < 0 {
		return fmt.Errorf("%w: server.session_ttl must not be negative", ErrConfigInvalid)
	}
	if c.Server.MaxSessions < 0 {
		return fmt.Errorf("%w: server.max_sessions must not be negative", ErrConfigInvalid)
	}
	if c.LLM.OpenAI.Temperature < 0 || c.LLM.OpenAI.Temperature > 2 {
		return fmt.Errorf("%w: llm.openai.temperature must be between 0 and 2", ErrConfigInvalid)
	}
	return nil
}

// PromptTemplates holds the prompt override files' contents. Empty fields mean
// the file is absent and the built-in template applies.
type PromptTemplates struct {
	Recommend   string
	Similar     string
	ReviewTrend string
}

// LoadPromptTemplates reads the prompt override files from the config directory.
// Missing files are not an error.
func LoadPromptTemplates(baseDir string) (PromptTemplates, error) {
	var tmpls PromptTemplates

	configDir, err := EnsureConfigDir(baseDir)
	if err != nil {
		return tmpls, fmt.Errorf("failed to ensure config directory for prompts: %w", err)
	}

	targets := []struct {
		name string
		dst  *string
	}{
		{RecommendPromptFileName, &tmpls.Recommend},
		{SimilarPromptFileName, &tmpls.Similar},
		{ReviewPromptFileName, &tmpls.ReviewTrend},
	}
	for _, target := range targets {
		content, err := readOptionalFile(filepath.Join(configDir, target.name))
		if err != nil {
			return PromptTemplates{}, err
		}
		*target.dst = content
	}
	return tmpls, nil
}

// readOptionalFile returns the file content, or "" if the file doesn't exist.
func readOptionalFile(path string) (string, error) {
	log.Debug().Str("path", path).Msg("Attempting to load prompt file")
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", path).Msg("Prompt file not found, using built-in template")
			return "", nil
		}
		log.Error().Err(err).Str("path", path).Msg("Failed to read prompt file")
		return "", fmt.Errorf("%w: %w", ErrPromptRead, err)
	}
	log.Debug().Str("path", path).Int("bytes", len(fileBytes)).Msg("Read prompt file successfully")
	return string(fileBytes), nil
}

// --- Default File Creation ---

const defaultConfigYAML = `# User-specific configuration for gamescout (scout)
# Located at ~/.gamescout/config.yaml

server:
  # Address the web front-end listens on.
  listen_addr: ":8080"
  # Idle browser sessions are forgotten after this long.
  session_ttl: "30m"
  # Most browser sessions kept at once; the least recently used is dropped.
  max_sessions: 10000

llm:
  # "openai" calls the chat completion API directly.
  # "flows" calls a remote flow server exposing the recommendation flows.
  provider: "openai"
  # Upper bound for a single recommendation call. 0 disables the timeout.
  timeout: "60s"

  openai:
    model_name: "gpt-4o"
    # Ask the API for a JSON object reply.
    json_mode: true
    temperature: 0.7
    # Optional: custom base URL for the OpenAI API (e.g., for proxies)
    # base_url: ""

  flows:
    base_url: "http://localhost:3400"

ui:
  # Language of user-facing messages: "ja" or "en".
  language: "ja"
`

// writeFileIfNotExists checks if a file exists. If not, it writes the provided content.
func writeFileIfNotExists(filePath string, content string, perm os.FileMode) error {
	_, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", filePath).Msg("File does not exist, attempting to write default content")
			if errWrite := os.WriteFile(filePath, []byte(content), perm); errWrite != nil {
				log.Error().Err(errWrite).Str("path", filePath).Msg("Failed to write default file content")
				return fmt.Errorf("%w: %w", ErrDefaultFileWrite, errWrite)
			}
			log.Info().Str("path", filePath).Msg("Successfully wrote default file content")
			return nil
		}
		log.Error().Err(err).Str("path", filePath).Msg("Failed to stat file path")
		return fmt.Errorf("%w: %w", ErrDefaultFileStat, err)
	}
	log.Debug().Str("path", filePath).Msg("File already exists, no action needed")
	return nil
}

// CreateDefaultConfigFiles ensures the configuration directory exists (using default or baseDir)
// and creates config.yaml and the three prompt template files within that directory
// if they do not already exist. The prompt files start out as the built-in templates.
func CreateDefaultConfigFiles(baseDir string) error {
	configDir, err := EnsureConfigDir(baseDir)
	if err != nil {
		return fmt.Errorf("failed to ensure config directory: %w", err)
	}

	filesToCreate := []struct {
		name    string
		content string
		perm    os.FileMode
	}{
		{DefaultConfigFileName, defaultConfigYAML, 0600},
		{RecommendPromptFileName, llm.DefaultRecommendTemplate + "\n", 0644},
		{SimilarPromptFileName, llm.DefaultSimilarTemplate + "\n", 0644},
		{ReviewPromptFileName, llm.DefaultReviewTrendTemplate + "\n", 0644},
	}

	for _, file := range filesToCreate {
		filePath := filepath.Join(configDir, file.name)
		log.Debug().Str("file", file.name).Msg("Ensuring default file")
		if err := writeFileIfNotExists(filePath, file.content, file.perm); err != nil {
			return err
		}
	}

	return nil
}

// --- API Key Handling ---

const (
	// KeyringServiceName is the OS keychain service the API key is stored under.
	KeyringServiceName = "gamescout"
	// KeyringUserName is the OS keychain account the API key is stored under.
	KeyringUserName = "llm_api_key"
	// EnvAPIKeyName defines the environment variable name used to look up the LLM API key
	// as a fallback if it's not found in the OS keychain.
	EnvAPIKeyName = "GAMESCOUT_LLM_API_KEY"
)

// GetAPIKey retrieves the LLM API key.
// It first tries the OS keychain/keyring using KeyringServiceName and KeyringUserName.
// If not found there, it checks the environment variable GAMESCOUT_LLM_API_KEY.
// If not found in either, it returns ErrAPIKeyNotFound.
func GetAPIKey() (string, error) {
	log.Debug().Str("service", KeyringServiceName).Str("user", KeyringUserName).Msg("Attempting to get API key from keychain")
	key, err := keyring.Get(KeyringServiceName, KeyringUserName)
	if err == nil {
		log.Debug().Msg("API key retrieved successfully (from keychain)")
		return key, nil
	}

	if !errors.Is(err, keyring.ErrNotFound) {
		log.Error().Err(err).Str("service", KeyringServiceName).Str("user", KeyringUserName).Msg("Error reading key from keychain")
		return "", fmt.Errorf("%w: %w", ErrKeyringGet, err)
	}

	log.Debug().Str("service", KeyringServiceName).Str("user", KeyringUserName).Msgf("API key not found in keychain, checking environment variable %s", EnvAPIKeyName)
	key = os.Getenv(EnvAPIKeyName)
	if key != "" {
		log.Debug().Msg("API key retrieved successfully (from env var)")
		return key, nil
	}

	log.Error().Str("env_var", EnvAPIKeyName).Msg("API key not found in environment variable either.")
	return "", ErrAPIKeyNotFound
}

// SetAPIKey stores the LLM API key in the OS keychain/keyring.
func SetAPIKey(apiKey string) error {
	log.Debug().Str("service", KeyringServiceName).Str("user", KeyringUserName).Msg("Attempting to set API key in keychain")
	if err := keyring.Set(KeyringServiceName, KeyringUserName, apiKey); err != nil {
		log.Error().Err(err).Str("service", KeyringServiceName).Str("user", KeyringUserName).Msg("Failed to set API key in keychain")
		return fmt.Errorf("%w: %w", ErrKeyringSet, err)
	}
	log.Info().Str("service", KeyringServiceName).Str("user", KeyringUserName).Msg("API key stored successfully in keychain")
	return nil
}
