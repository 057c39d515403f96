package azure

import (
	"fmt"

	"github.com/upb/llm-completion/services/providers"
)

const (
	// Name is the provider name used in logs, metrics and failure messages
	Name = "azure"

	DefaultMaxTokens = 256
)

// Config configures an Azure OpenAI client.
// Endpoint is the full deployment URL, including the api-version query.
type Config struct {
	APIKey    string
	Endpoint  string
	MaxTokens int

	Policy  providers.RetryPolicy
	Options providers.ClientOptions
}

// NewClient creates a retrying client for an Azure OpenAI deployment
func NewClient(cfg Config) (*providers.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", Name, providers.ErrMissingAPIKey)
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%s: %w", Name, providers.ErrMissingEndpoint)
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	return providers.NewClient(providers.ProviderConfig{
		Name:     Name,
		Style:    providers.StyleOpenAI,
		Endpoint: cfg.Endpoint,
		Headers: map[string]string{
			"api-key": cfg.APIKey,
		},
		Defaults: map[string]any{
			"max_tokens": cfg.MaxTokens,
		},
	}, cfg.Policy, cfg.Options)
}
