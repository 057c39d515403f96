package cohere

import (
	"fmt"

	"github.com/upb/llm-completion/services/providers"
)

const (
	// Name is the provider name used in logs, metrics and failure messages
	Name = "cohere"

	DefaultModel     = "command"
	DefaultEndpoint  = "https://api.cohere.ai/v1/generate"
	DefaultMaxTokens = 256
)

// Config configures a Cohere generate client
type Config struct {
	APIKey    string
	Model     string
	Endpoint  string
	MaxTokens int

	Policy  providers.RetryPolicy
	Options providers.ClientOptions
}

// NewClient creates a retrying client for the Cohere generate API
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

	return providers.NewClient(providers.ProviderConfig{
		Name:     Name,
		Style:    providers.StyleGenerate,
		Endpoint: cfg.Endpoint,
		Headers: map[string]string{
			// upper-case scheme as documented by Cohere
			"Authorization": "BEARER " + cfg.APIKey,
		},
		Defaults: map[string]any{
			"model":      cfg.Model,
			"max_tokens": cfg.MaxTokens,
		},
	}, cfg.Policy, cfg.Options)
}
