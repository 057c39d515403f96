package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/upb/llm-completion/middleware"
	"github.com/upb/llm-completion/services/providers"
	"github.com/upb/llm-completion/utils"
)

// maxRequestBytes bounds the size of a completion request body
const maxRequestBytes = 1 << 20

// CompletionRequest is the body of POST /v1/completions
type CompletionRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// CompletionResponse is returned on success
type CompletionResponse struct {
	Completion string `json:"completion"`
	Provider   string `json:"provider"`
	RequestID  string `json:"request_id,omitempty"`
}

// CompletionHandler handles completion HTTP requests
type CompletionHandler struct {
	client providers.CompletionClient
	logger *zap.Logger
}

// NewCompletionHandler creates a new CompletionHandler
func NewCompletionHandler(client providers.CompletionClient, logger *zap.Logger) *CompletionHandler {
	return &CompletionHandler{
		client: client,
		logger: logger,
	}
}

// HandleCompletion handles POST /v1/completions
func (h *CompletionHandler) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req CompletionRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = utils.WriteError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), nil)
			return
		}
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	start := time.Now()
	result, err := h.client.Complete(ctx, req.Prompt)
	if err != nil {
		h.logger.Error("completion errored",
			zap.String("request_id", requestID),
			zap.String("provider", h.client.Name()),
			zap.Error(err))
		HandleProviderError(w, err, h.logger)
		return
	}

	if !result.OK() {
		h.logger.Warn("completion failed",
			zap.String("request_id", requestID),
			zap.String("provider", h.client.Name()),
			zap.String("message", result.Message()))
		if err := utils.WriteBadGateway(w, result.Message(), map[string]interface{}{"provider": h.client.Name()}); err != nil {
			h.logger.Error("failed to write response", zap.String("request_id", requestID), zap.Error(err))
		}
		return
	}

	h.logger.Info("completion successful",
		zap.String("request_id", requestID),
		zap.String("provider", h.client.Name()),
		zap.Int("prompt_chars", len(req.Prompt)),
		zap.Int("completion_chars", len(result.Data())),
		zap.Duration("latency", time.Since(start)))

	if err := utils.WriteOK(w, CompletionResponse{
		Completion: result.Data(),
		Provider:   h.client.Name(),
		RequestID:  requestID,
	}); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}
