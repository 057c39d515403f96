package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/upb/llm-completion/app"
)

func runCmd(t *testing.T, env app.Env, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := newRootCmd(env, strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestComplete(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(`{"generations":[{"text":"forty-two"}]}`))
	}))
	defer server.Close()

	env := app.Env{app.EnvCohereKey: "co", app.EnvCohereEndpoint: server.URL}

	t.Run("prompt from args", func(t *testing.T) {
		stdout, _, err := runCmd(t, env, "", "what", "is", "the", "answer")
		require.NoError(t, err)
		assert.Equal(t, "forty-two\n", stdout)
	})

	t.Run("prompt from stdin", func(t *testing.T) {
		stdout, _, err := runCmd(t, env, "what is the answer\n")
		require.NoError(t, err)
		assert.Equal(t, "forty-two\n", stdout)
	})

	t.Run("empty stdin", func(t *testing.T) {
		_, _, err := runCmd(t, env, "  \n")
		assert.ErrorContains(t, err, "empty prompt")
	})
}

func TestComplete_Failure(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	env := app.Env{app.EnvCohereKey: "co", app.EnvCohereEndpoint: server.URL}

	stdout, stderr, err := runCmd(t, env, "", "--max-attempts=2", "--pause=1ms", "hello")
	assert.ErrorIs(t, err, errFailed)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "cohere request failed with status 429")
	assert.Equal(t, int32(3), requests.Load())
}

func TestComplete_NoProvider(t *testing.T) {
	_, _, err := runCmd(t, app.Env{}, "", "hello")
	assert.ErrorIs(t, err, app.ErrNoProviderConfigured)
}

func TestReadPrompt(t *testing.T) {
	prompt, err := readPrompt([]string{"a", "b"}, strings.NewReader("ignored"))
	require.NoError(t, err)
	assert.Equal(t, "a b", prompt)

	prompt, err = readPrompt(nil, strings.NewReader("  from pipe \n"))
	require.NoError(t, err)
	assert.Equal(t, "from pipe", prompt)
}
