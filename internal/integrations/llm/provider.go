package llm

import (
	"context"
	"fmt"

	"refeval/internal/config"
	"refeval/internal/httpx"
)

// NewClassifier builds the backend selected by cfg.LLMProvider. Credentials are
// expected to have been checked with cfg.RequireCredentials.
func NewClassifier(ctx context.Context, cfg config.Config) (Classifier, error) {
	httpClient := httpx.ExternalHTTPClient()
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		return NewOpenAIClassifier(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMBaseURL, httpClient), nil
	case config.ProviderAnthropic:
		return NewAnthropicClassifier(cfg.AnthropicAPIKey, cfg.LLMModel, cfg.LLMBaseURL, httpClient), nil
	case config.ProviderGemini:
		return NewGeminiClassifier(ctx, cfg.GeminiAPIKey, cfg.LLMModel, cfg.LLMBaseURL, httpClient)
	default:
		return nil, fmt.Errorf("llm_provider must be 'openai', 'anthropic' or 'gemini', got '%s'", cfg.LLMProvider)
	}
}
