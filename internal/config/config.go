package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"refeval/internal/domain"
	"refeval/internal/logging"
)

const defaultExternalHTTPTimeout = 90 * time.Second
const defaultExternalHTTPTimeoutSeconds = int(defaultExternalHTTPTimeout / time.Second)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

const (
	defaultOpenAIModel    = "gpt-4.1-mini-2025-04-14"
	defaultAnthropicModel = "claude-sonnet-4-5-20250929"
	defaultGeminiModel    = "gemini-2.5-flash"
)

type Config struct {
	LLMProvider     string `yaml:"llm_provider"`
	LLMModel        string `yaml:"llm_model"`
	LLMBaseURL      string `yaml:"llm_base_url"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`

	StrategyName         string   `yaml:"strategy"`
	Language             string   `yaml:"language"`
	FewshotLanguage      string   `yaml:"fewshot_language"`
	FewshotDir           string   `yaml:"fewshot_dir"`
	FewshotCount         int      `yaml:"fewshot_count"`
	RefactoringTypeNames []string `yaml:"refactoring_types"`

	DatasetPath string `yaml:"dataset_path"`
	ResultsDir  string `yaml:"results_dir"`
	MetricsDir  string `yaml:"metrics_dir"`

	ExternalHTTPTimeoutSeconds int    `yaml:"external_http_timeout_seconds"`
	LogLevel                   string `yaml:"log_level"`

	SlackBotToken   string `yaml:"slack_bot_token"`
	ReportChannelID string `yaml:"report_channel_id"`

	// Computed from the raw names above, not from YAML.
	Strategy         domain.Strategy          `yaml:"-"`
	RefactoringTypes []domain.RefactoringType `yaml:"-"`
}

// LoadConfig is Load for process entry points: any problem is fatal.
func LoadConfig() Config {
	cfg, err := Load()
	if err != nil {
		logging.L.Fatalf("invalid configuration: %v", err)
	}
	return cfg
}

// Load reads .env, then config.yaml (or CONFIG_PATH), then environment overrides,
// applies defaults and validates. Every validation problem is reported at once.
func Load() (Config, error) {
	var cfg Config

	if err := godotenv.Load(); err == nil {
		logging.L.Debugf("config loaded .env")
	}

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", configPath, err)
		}
		logging.L.Infof("config loaded path=%s", configPath)
	}

	var errs *multierror.Error

	envOverride(&cfg.LLMProvider, "LLM_PROVIDER")
	envOverride(&cfg.LLMModel, "LLM_MODEL")
	envOverride(&cfg.LLMBaseURL, "LLM_BASE_URL")
	envOverride(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	envOverride(&cfg.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	envOverride(&cfg.GeminiAPIKey, "GEMINI_API_KEY")
	envOverride(&cfg.StrategyName, "STRATEGY")
	envOverride(&cfg.Language, "REFEVAL_LANGUAGE")
	envOverride(&cfg.FewshotLanguage, "FEWSHOT_LANGUAGE")
	envOverride(&cfg.FewshotDir, "FEWSHOT_DIR")
	errs = multierror.Append(errs, envOverrideInt(&cfg.FewshotCount, "FEWSHOT_COUNT"))
	envOverride(&cfg.DatasetPath, "DATASET_PATH")
	envOverride(&cfg.ResultsDir, "RESULTS_DIR")
	envOverride(&cfg.MetricsDir, "METRICS_DIR")
	errs = multierror.Append(errs, envOverrideInt(&cfg.ExternalHTTPTimeoutSeconds, "EXTERNAL_HTTP_TIMEOUT_SECONDS"))
	envOverride(&cfg.LogLevel, "LOG_LEVEL")
	envOverride(&cfg.SlackBotToken, "SLACK_BOT_TOKEN")
	envOverride(&cfg.ReportChannelID, "REPORT_CHANNEL_ID")

	if names := os.Getenv("REFACTORING_TYPES"); names != "" {
		cfg.RefactoringTypeNames = nil
		for _, name := range strings.Split(names, ",") {
			name = strings.TrimSpace(name)
			if name != "" {
				cfg.RefactoringTypeNames = append(cfg.RefactoringTypeNames, name)
			}
		}
	}

	if cfg.LLMProvider == "" {
		cfg.LLMProvider = ProviderOpenAI
	}
	cfg.LLMProvider = strings.ToLower(strings.TrimSpace(cfg.LLMProvider))
	if cfg.LLMModel == "" {
		cfg.LLMModel = defaultModel(cfg.LLMProvider)
	}
	if cfg.StrategyName == "" {
		cfg.StrategyName = string(domain.StrategyZeroShot)
	}
	if cfg.Language == "" {
		cfg.Language = "python"
	}
	if cfg.FewshotLanguage == "" {
		cfg.FewshotLanguage = "java"
	}
	if cfg.FewshotDir == "" {
		cfg.FewshotDir = "./prompts"
	}
	if cfg.FewshotCount == 0 {
		cfg.FewshotCount = 2
	}
	if cfg.DatasetPath == "" {
		cfg.DatasetPath = "./data/python_test.json"
	}
	if cfg.ResultsDir == "" {
		cfg.ResultsDir = "./results/gpt4.1mini"
	}
	if cfg.MetricsDir == "" {
		cfg.MetricsDir = filepath.Join(cfg.ResultsDir, "metrics")
	}
	if cfg.ExternalHTTPTimeoutSeconds == 0 {
		cfg.ExternalHTTPTimeoutSeconds = defaultExternalHTTPTimeoutSeconds
	}

	switch cfg.LLMProvider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
	default:
		errs = multierror.Append(errs, fmt.Errorf("llm_provider must be 'openai', 'anthropic' or 'gemini', got '%s'", cfg.LLMProvider))
	}

	strategy, err := domain.ParseStrategy(cfg.StrategyName)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	cfg.Strategy = strategy

	if len(cfg.RefactoringTypeNames) == 0 {
		cfg.RefactoringTypes = append([]domain.RefactoringType(nil), domain.EvaluationTypes...)
	} else {
		cfg.RefactoringTypes = nil
		for _, name := range cfg.RefactoringTypeNames {
			rType, err := domain.ParseRefactoringType(name)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("invalid refactoring_types entry: %w", err))
				continue
			}
			cfg.RefactoringTypes = append(cfg.RefactoringTypes, rType)
		}
	}

	if cfg.FewshotCount < 1 {
		errs = multierror.Append(errs, fmt.Errorf("invalid fewshot_count '%d': must be >= 1", cfg.FewshotCount))
	}
	if cfg.ExternalHTTPTimeoutSeconds < 5 {
		errs = multierror.Append(errs, fmt.Errorf("invalid external_http_timeout_seconds '%d': must be >= 5", cfg.ExternalHTTPTimeoutSeconds))
	}
	if (cfg.SlackBotToken == "") != (cfg.ReportChannelID == "") {
		errs = multierror.Append(errs, errors.New("slack_bot_token and report_channel_id must be set together"))
	}

	logging.SetLevel(cfg.LogLevel)
	return cfg, errs.ErrorOrNil()
}

// RequireCredentials reports a missing API key for the selected provider. Only
// commands that talk to the model call it.
func (c Config) RequireCredentials() error {
	if c.APIKey() == "" {
		return fmt.Errorf("%s_api_key is required when llm_provider=%s", c.LLMProvider, c.LLMProvider)
	}
	return nil
}

func (c Config) APIKey() string {
	switch c.LLMProvider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return c.OpenAIAPIKey
	}
}

func (c Config) SlackConfigured() bool {
	return c.SlackBotToken != "" && c.ReportChannelID != ""
}

func (c Config) ExternalHTTPTimeout() time.Duration {
	return time.Duration(c.ExternalHTTPTimeoutSeconds) * time.Second
}

func defaultModel(provider string) string {
	switch provider {
	case ProviderAnthropic:
		return defaultAnthropicModel
	case ProviderGemini:
		return defaultGeminiModel
	default:
		return defaultOpenAIModel
	}
}

func envOverride(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

func envOverrideInt(field *int, envKey string) error {
	if val := os.Getenv(envKey); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", envKey, val, err)
		}
		*field = parsed
	}
	return nil
}
