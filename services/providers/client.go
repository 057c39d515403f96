package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/upb/llm-completion/internal/observability"
	"go.uber.org/zap"
)

// maxDrainBytes bounds how much of a failed response body is read before closing it
const maxDrainBytes = 64 << 10

// ClientOptions carries the optional collaborators of a Client
type ClientOptions struct {
	// HTTPClient overrides the transport (default: a fresh *http.Client)
	HTTPClient HTTPClient

	// Backoff overrides the delay policy (default: FixedBackoff(policy.Pause))
	Backoff Backoff

	// Sleeper overrides how the client waits between attempts
	Sleeper Sleeper

	Logger  *zap.Logger
	Metrics observability.Metrics
}

// Client is a CompletionClient that retries transient HTTP failures.
// All fields are read-only after construction, so a Client is safe for concurrent use.
type Client struct {
	config     ProviderConfig
	policy     RetryPolicy
	backoff    Backoff
	httpClient HTTPClient
	sleep      Sleeper
	logger     *zap.Logger
	metrics    observability.Metrics
}

var _ CompletionClient = (*Client)(nil)

// NewClient creates a retrying completion client
func NewClient(config ProviderConfig, policy RetryPolicy, opts ClientOptions) (*Client, error) {
	if strings.TrimSpace(config.Endpoint) == "" {
		return nil, fmt.Errorf("%s: %w", config.Name, ErrMissingEndpoint)
	}
	if _, err := BuildRequestBody("", config.Style, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", config.Name, err)
	}
	if policy.MaxAttempts < 0 || policy.Pause < 0 || policy.Timeout < 0 {
		return nil, fmt.Errorf("%s: retry policy values must not be negative", config.Name)
	}

	c := &Client{
		config:     config.clone(),
		policy:     policy,
		backoff:    opts.Backoff,
		httpClient: opts.HTTPClient,
		sleep:      opts.Sleeper,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
	}
	if c.backoff == nil {
		c.backoff = FixedBackoff(policy.Pause)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.sleep == nil {
		c.sleep = sleepContext
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.metrics == nil {
		c.metrics = observability.NopMetrics{}
	}
	c.logger = c.logger.With(zap.String("provider", config.Name))

	return c, nil
}

// Name returns the provider name
func (c *Client) Name() string {
	return c.config.Name
}

// Policy returns the retry policy the client was built with
func (c *Client) Policy() RetryPolicy {
	return c.policy
}

// Complete sends prompt to the provider, retrying transient failures.
//
// A 200 response yields Success with the extracted text. Any other status yields
// Failure carrying the status code and text, after retries for transient statuses
// are exhausted. The returned error is non-nil only for transport faults, malformed
// 200 responses and cancellation.
func (c *Client) Complete(ctx context.Context, prompt string) (Result[string], error) {
	start := time.Now()
	defer func() {
		c.metrics.ObserveDuration(c.config.Name, time.Since(start))
	}()

	body, err := BuildRequestBody(prompt, c.config.Style, c.config.Defaults)
	if err != nil {
		return c.fail(NewProviderError(c.config.Name, CodeRequest, "failed to build request", 0, false, err))
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return c.fail(NewProviderError(c.config.Name, CodeMarshal, "failed to marshal request", 0, false, err))
	}

	for retryCount := 0; ; retryCount++ {
		resp, err := c.attempt(ctx, payload)
		if err != nil {
			if ctx.Err() != nil {
				return c.canceled(ctx)
			}
			return c.fail(err)
		}
		c.metrics.RecordAttempt(c.config.Name, resp.statusCode)

		if resp.statusCode == http.StatusOK {
			text, err := ExtractCompletion(c.config.Style, resp.body)
			if err != nil {
				return c.fail(NewProviderError(c.config.Name, CodeMalformed, "failed to extract completion", resp.statusCode, false, err))
			}
			c.metrics.RecordResult(c.config.Name, observability.OutcomeSuccess)
			c.logger.Debug("completion succeeded",
				zap.Int("attempts", retryCount+1),
				zap.Duration("duration", time.Since(start)))
			return Success(text), nil
		}

		if !IsTransient(resp.statusCode) || retryCount >= c.policy.MaxAttempts {
			message := fmt.Sprintf("%s request failed with status %d %s", c.config.Name, resp.statusCode, resp.statusText)
			c.metrics.RecordResult(c.config.Name, observability.OutcomeFailure)
			c.logger.Info("completion failed",
				zap.Int("status", resp.statusCode),
				zap.Int("attempts", retryCount+1),
				zap.Bool("transient", IsTransient(resp.statusCode)))
			return Failure[string](message), nil
		}

		delay := c.backoff.Delay(retryCount)
		c.logger.Warn("transient provider failure, retrying",
			zap.Int("status", resp.statusCode),
			zap.Int("attempt", retryCount+1),
			zap.Duration("delay", delay))
		c.metrics.RecordRetry(c.config.Name)

		if err := c.sleep(ctx, delay); err != nil {
			return c.canceled(ctx)
		}
	}
}

type attemptResponse struct {
	statusCode int
	statusText string
	body       []byte
}

// attempt performs a single POST. Non-200 bodies are drained and discarded.
func (c *Client) attempt(ctx context.Context, payload []byte) (*attemptResponse, error) {
	if c.policy.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.policy.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, NewProviderError(c.config.Name, CodeRequest, "failed to create request", 0, false, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.config.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewProviderError(c.config.Name, CodeHTTP, "HTTP request failed", 0, false, fmt.Errorf("%w: %w", ErrTransport, err))
	}
	defer resp.Body.Close()

	out := &attemptResponse{
		statusCode: resp.StatusCode,
		statusText: statusText(resp),
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
		return out, nil
	}

	out.body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewProviderError(c.config.Name, CodeRead, "failed to read response", resp.StatusCode, false, fmt.Errorf("%w: %w", ErrTransport, err))
	}
	return out, nil
}

func (c *Client) fail(err error) (Result[string], error) {
	c.metrics.RecordResult(c.config.Name, observability.OutcomeError)
	c.logger.Error("completion error", zap.Error(err))
	return Result[string]{}, err
}

func (c *Client) canceled(ctx context.Context) (Result[string], error) {
	c.metrics.RecordResult(c.config.Name, observability.OutcomeCanceled)
	c.logger.Info("completion canceled", zap.Error(ctx.Err()))
	return Result[string]{}, NewProviderError(c.config.Name, CodeCanceled, "completion canceled", 0, false, fmt.Errorf("%w: %w", ErrCanceled, ctx.Err()))
}

// statusText returns the reason phrase of resp, e.g. "Service Unavailable"
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}
