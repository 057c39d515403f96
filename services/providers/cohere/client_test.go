package cohere

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upb/llm-completion/services/providers"
)

func TestNewClient_MissingKey(t *testing.T) {
	_, err := NewClient(Config{Model: "command-light"})
	assert.ErrorIs(t, err, providers.ErrMissingAPIKey)
}

func TestClient_Complete(t *testing.T) {
	var (
		gotHeader http.Header
		gotBody   map[string]any
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Clone()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"id":"gen-1","generations":[{"id":"1","text":" a quiet pond"}]}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "co-key", Endpoint: server.URL, MaxTokens: 20, Policy: providers.DefaultRetryPolicy()})
	require.NoError(t, err)
	assert.Equal(t, Name, client.Name())

	result, err := client.Complete(context.Background(), "haiku")
	require.NoError(t, err)
	require.True(t, result.OK())
	assert.Equal(t, " a quiet pond", result.Data())

	assert.Equal(t, "BEARER co-key", gotHeader.Get("Authorization"))
	assert.Equal(t, DefaultModel, gotBody["model"])
	assert.Equal(t, float64(20), gotBody["max_tokens"])
	assert.Equal(t, "haiku", gotBody["prompt"])
	assert.Equal(t, float64(0), gotBody["k"])
	assert.Equal(t, []any{}, gotBody["stop_sequences"])
	assert.Equal(t, "NONE", gotBody["return_likelihoods"])
}

func TestClient_RetriesTooManyRequests(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"generations":[{"text":"ok"}]}`))
	}))
	defer server.Close()

	var pauses []time.Duration
	client, err := NewClient(Config{
		APIKey:   "co-key",
		Endpoint: server.URL,
		Policy:   providers.RetryPolicy{MaxAttempts: 2, Pause: 5 * time.Second},
		Options: providers.ClientOptions{
			Sleeper: func(_ context.Context, d time.Duration) error {
				pauses = append(pauses, d)
				return nil
			},
		},
	})
	require.NoError(t, err)

	result, err := client.Complete(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Data())
	assert.Equal(t, 2, requests)
	assert.Equal(t, []time.Duration{5 * time.Second}, pauses)
}
