package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/upb/llm-completion/internal/observability"
	"github.com/upb/llm-completion/services/providers"
	"github.com/upb/llm-completion/services/providers/azure"
	"github.com/upb/llm-completion/services/providers/cohere"
	"github.com/upb/llm-completion/services/providers/openai"
)

// Provider environment variables, in selection priority order
const (
	EnvOpenAIKey          = "OPENAI_API_KEY"
	EnvOpenAIModel        = "OPENAI_MODEL"
	EnvOpenAIEndpoint     = "OPENAI_ENDPOINT"
	EnvOpenAIOrganization = "OPENAI_ORGANIZATION"

	EnvAzureKey      = "AZURE_OPENAI_API_KEY"
	EnvAzureEndpoint = "AZURE_OPENAI_ENDPOINT"

	EnvCohereKey      = "COHERE_API_KEY"
	EnvCohereEndpoint = "COHERE_ENDPOINT"

	EnvMaxTokens = "MAX_TOKENS"
)

// DefaultMaxTokens is used when MAX_TOKENS is unset
const DefaultMaxTokens = 256

var (
	// ErrNoProviderConfigured is returned when none of the provider keys is set
	ErrNoProviderConfigured = errors.New("no completion provider configured: set OPENAI_API_KEY, AZURE_OPENAI_API_KEY or COHERE_API_KEY")

	// ErrMissingVariable is returned when a selected provider lacks a companion variable
	ErrMissingVariable = errors.New("missing required environment variable")

	// ErrInvalidVariable is returned when a variable is present but unusable
	ErrInvalidVariable = errors.New("invalid environment variable")
)

// Env is a snapshot of the environment variables that drive provider selection
type Env map[string]string

// Get returns the trimmed value of key
func (e Env) Get(key string) string {
	return strings.TrimSpace(e[key])
}

// EnvFromOS builds an Env from the process environment. Variables in a .env
// file in the working directory fill in keys the process does not set.
func EnvFromOS() Env {
	env := make(Env)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	if fileEnv, err := godotenv.Read(); err == nil {
		for k, v := range fileEnv {
			if _, set := env[k]; !set {
				env[k] = v
			}
		}
	}
	return env
}

// SelectClient builds the client for the first configured provider, checking
// OpenAI, then Azure, then Cohere.
func SelectClient(env Env, policy providers.RetryPolicy, logger *zap.Logger, metrics observability.Metrics) (*providers.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxTokens, err := maxTokens(env)
	if err != nil {
		return nil, err
	}

	opts := providers.ClientOptions{
		Logger:  logger,
		Metrics: metrics,
	}

	var client *providers.Client
	switch {
	case env.Get(EnvOpenAIKey) != "":
		model := env.Get(EnvOpenAIModel)
		if model == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingVariable, EnvOpenAIModel)
		}
		client, err = openai.NewClient(openai.Config{
			APIKey:       env.Get(EnvOpenAIKey),
			Model:        model,
			Endpoint:     env.Get(EnvOpenAIEndpoint),
			Organization: env.Get(EnvOpenAIOrganization),
			MaxTokens:    maxTokens,
			Policy:       policy,
			Options:      opts,
		})

	case env.Get(EnvAzureKey) != "":
		endpoint := env.Get(EnvAzureEndpoint)
		if endpoint == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingVariable, EnvAzureEndpoint)
		}
		client, err = azure.NewClient(azure.Config{
			APIKey:    env.Get(EnvAzureKey),
			Endpoint:  endpoint,
			MaxTokens: maxTokens,
			Policy:    policy,
			Options:   opts,
		})

	case env.Get(EnvCohereKey) != "":
		client, err = cohere.NewClient(cohere.Config{
			APIKey:    env.Get(EnvCohereKey),
			Endpoint:  env.Get(EnvCohereEndpoint),
			MaxTokens: maxTokens,
			Policy:    policy,
			Options:   opts,
		})

	default:
		return nil, ErrNoProviderConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create completion client: %w", err)
	}

	logger.Info("completion provider selected",
		zap.String("provider", client.Name()),
		zap.Int("max_tokens", maxTokens),
		zap.Int("max_attempts", policy.MaxAttempts),
		zap.Duration("pause", policy.Pause))

	return client, nil
}

func maxTokens(env Env) (int, error) {
	raw := env.Get(EnvMaxTokens)
	if raw == "" {
		return DefaultMaxTokens, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidVariable, EnvMaxTokens, raw)
	}
	return n, nil
}
