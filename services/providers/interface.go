package providers

import (
	"context"
	"net/http"
	"time"
)

// CompletionClient is the uniform completion interface shared by every provider
type CompletionClient interface {
	// Name returns the provider name (e.g., "openai", "azure", "cohere")
	Name() string

	// Complete obtains a completion for a single prompt.
	// Service-level outcomes (including exhausted retries) are reported in the Result;
	// the error is reserved for transport faults, malformed responses and cancellation.
	Complete(ctx context.Context, prompt string) (Result[string], error)
}

// HTTPClient is the transport used by Client. *http.Client satisfies it.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ProviderConfig holds the provider-specific wire configuration of a client.
// It is captured at construction and never mutated afterwards.
type ProviderConfig struct {
	// Name identifies the provider in logs, metrics and failure messages
	Name string

	// Style selects the request/response shape
	Style Style

	// Endpoint is the full URL requests are POSTed to
	Endpoint string

	// Headers are sent with every request (authentication, organization, ...)
	Headers map[string]string

	// Defaults are merged into every request body (model, max_tokens, ...)
	Defaults map[string]any
}

// clone returns a deep-enough copy so callers cannot mutate a live client's config
func (c ProviderConfig) clone() ProviderConfig {
	out := c
	out.Headers = make(map[string]string, len(c.Headers))
	for k, v := range c.Headers {
		out.Headers[k] = v
	}
	out.Defaults = make(map[string]any, len(c.Defaults))
	for k, v := range c.Defaults {
		out.Defaults[k] = v
	}
	return out
}

// RetryPolicy holds the retry tunables of a client
type RetryPolicy struct {
	// MaxAttempts is the number of retries after the first attempt
	MaxAttempts int `yaml:"max_attempts" validate:"gte=0"`

	// Pause is the fixed delay between attempts
	Pause time.Duration `yaml:"pause" validate:"gte=0"`

	// Timeout bounds a single HTTP attempt (0 disables it)
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`
}

// DefaultRetryPolicy returns the default retry configuration
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Pause:       1 * time.Second,
		Timeout:     60 * time.Second,
	}
}

// ProviderError represents an error from a provider
type ProviderError struct {
	// Provider that generated the error
	Provider string

	// Code is the error code
	Code string

	// Message is the error message
	Message string

	// StatusCode is the HTTP status code (if applicable)
	StatusCode int

	// Retryable indicates if the request can be retried
	Retryable bool

	// Cause is the underlying error
	Cause error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return e.Provider + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Provider + ": " + e.Message
}

// Unwrap implements error unwrapping
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// NewProviderError creates a new provider error
func NewProviderError(provider, code, message string, statusCode int, retryable bool, cause error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Retryable:  retryable,
		Cause:      cause,
	}
}
