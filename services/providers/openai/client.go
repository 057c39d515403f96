package openai

import (
	"fmt"

	"github.com/upb/llm-completion/services/providers"
)

const (
	// Name is the provider name used in logs, metrics and failure messages
	Name = "openai"

	DefaultModel     = "gpt-3.5-turbo"
	DefaultEndpoint  = "https://api.openai.com/v1/chat/completions"
	DefaultMaxTokens = 256
)

// Config configures an OpenAI chat completion client
type Config struct {
	APIKey       string
	Model        string
	Endpoint     string
	Organization string
	MaxTokens    int

	Policy  providers.RetryPolicy
	Options providers.ClientOptions
}

// NewClient creates a retrying client for the OpenAI chat completions API
func NewClient(cfg Config) (*providers.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", Name, providers.ErrMissingAPIKey)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	headers := map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
	}
	if cfg.Organization != "" {
		headers["OpenAI-Organization"] = cfg.Organization
	}

	return providers.NewClient(providers.ProviderConfig{
		Name:     Name,
		Style:    providers.StyleOpenAI,
		Endpoint: cfg.Endpoint,
		Headers:  headers,
		Defaults: map[string]any{
			"model":      cfg.Model,
			"max_tokens": cfg.MaxTokens,
		},
	}, cfg.Policy, cfg.Options)
}
