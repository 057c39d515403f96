package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/upb/llm-completion/services/providers"
)

// MockCompletionClient is a mock implementation of providers.CompletionClient
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Name() string {
	return "mock"
}

func (m *MockCompletionClient) Complete(ctx context.Context, prompt string) (providers.Result[string], error) {
	args := m.Called(ctx, prompt)
	return args.Get(0).(providers.Result[string]), args.Error(1)
}
