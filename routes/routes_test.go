package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/upb/llm-completion/app"
	"github.com/upb/llm-completion/config"
	"github.com/upb/llm-completion/middleware"
	"github.com/upb/llm-completion/services/providers"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		CORS:        config.CORSConfig{AllowedOrigins: []string{"https://app.example.com"}},
		Retry:       providers.RetryPolicy{MaxAttempts: 1, Pause: time.Millisecond, Timeout: time.Second},
		Observability: config.ObservabilityConfig{
			LogLevel:       "error",
			LogFormat:      "json",
			MetricsEnabled: true,
		},
	}
}

// newGateway starts the gateway in front of a fake OpenAI-style provider
func newGateway(t *testing.T, provider http.HandlerFunc) *httptest.Server {
	t.Helper()

	upstream := httptest.NewServer(provider)
	t.Cleanup(upstream.Close)

	deps, err := app.NewDependencies(context.Background(), testConfig(), zaptest.NewLogger(t), app.Env{
		app.EnvOpenAIKey:      "sk-test",
		app.EnvOpenAIModel:    "gpt-4o",
		app.EnvOpenAIEndpoint: upstream.URL,
	})
	require.NoError(t, err)

	ts := httptest.NewServer(SetupRoutes(deps))
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestCompletionEndpoint(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ts := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"pong"}}]}`))
		})

		resp := postJSON(t, ts.URL+"/v1/completions", `{"prompt":"ping"}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))

		var body struct {
			Data struct {
				Completion string `json:"completion"`
				Provider   string `json:"provider"`
				RequestID  string `json:"request_id"`
			} `json:"data"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "pong", body.Data.Completion)
		assert.Equal(t, "openai", body.Data.Provider)
		assert.Equal(t, resp.Header.Get(middleware.RequestIDHeader), body.Data.RequestID)
	})

	t.Run("exhausted retries become bad gateway", func(t *testing.T) {
		ts := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		resp := postJSON(t, ts.URL+"/v1/completions", `{"prompt":"ping"}`)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body["message"], "503")
	})

	t.Run("malformed provider body becomes bad gateway", func(t *testing.T) {
		ts := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})

		resp := postJSON(t, ts.URL+"/v1/completions", `{"prompt":"ping"}`)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("wrong method", func(t *testing.T) {
		ts := newGateway(t, func(w http.ResponseWriter, r *http.Request) {})

		resp, err := http.Get(ts.URL + "/v1/completions")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestHealthEndpoints(t *testing.T) {
	ts := newGateway(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, path := range []string{"/health", "/health/ready"} {
		t.Run(path, func(t *testing.T) {
			resp, err := http.Get(ts.URL + path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		})
	}
}

func TestReadinessWithoutProvider(t *testing.T) {
	deps := &app.Dependencies{Config: testConfig(), Logger: zaptest.NewLogger(t)}
	ts := httptest.NewServer(SetupRoutes(deps))
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health/ready")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	resp2, err := http.Post(ts.URL+"/v1/completions", "application/json", bytes.NewBufferString(`{"prompt":"x"}`))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"pong"}}]}`))
	})

	postJSON(t, ts.URL+"/v1/completions", `{"prompt":"ping"}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `completion_attempts_total{provider="openai",status="200"} 1`)
	assert.Contains(t, string(raw), `completion_results_total{outcome="success",provider="openai"} 1`)
}

func TestCORSMiddleware(t *testing.T) {
	ts := newGateway(t, func(w http.ResponseWriter, r *http.Request) {})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/v1/completions", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "https://app.example.com", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestNotFound(t *testing.T) {
	ts := newGateway(t, func(w http.ResponseWriter, r *http.Request) {})

	resp, err := http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "not_found", body["error"])
}
