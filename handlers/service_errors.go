package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/llm-completion/services/providers"
	"github.com/upb/llm-completion/utils"
)

// HandleProviderError maps completion client errors to HTTP responses
func HandleProviderError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	details := map[string]interface{}{}
	var providerErr *providers.ProviderError
	if errors.As(err, &providerErr) {
		details["provider"] = providerErr.Provider
		details["code"] = providerErr.Code
		if providerErr.StatusCode != 0 {
			details["status"] = providerErr.StatusCode
		}
	}

	var status int
	var message string
	switch {
	case errors.Is(err, providers.ErrCanceled):
		status, message = http.StatusGatewayTimeout, "Completion did not finish in time"
	case errors.Is(err, providers.ErrMalformedResponse):
		status, message = http.StatusBadGateway, "Provider returned a malformed response"
	case errors.Is(err, providers.ErrTransport):
		status, message = http.StatusBadGateway, "Provider could not be reached"
	default:
		logger.Error("unhandled completion error", zap.Error(err))
		status, message, details = http.StatusInternalServerError, "An unexpected error occurred", nil
	}

	if err := utils.WriteError(w, status, message, details); err != nil {
		logger.Error("failed to write error response", zap.Error(err))
	}
}

// HandleValidationError handles validation errors from request parsing
func HandleValidationError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if utils.IsValidationError(err) {
		fields := utils.GetValidationFields(err)
		details := make(map[string]interface{})
		for k, v := range fields {
			details[k] = v
		}
		if err := utils.WriteBadRequest(w, "Validation failed", details); err != nil {
			logger.Error("failed to write validation error response", zap.Error(err))
		}
		return
	}

	if err := utils.WriteBadRequest(w, err.Error(), nil); err != nil {
		logger.Error("failed to write validation error response", zap.Error(err))
	}
}
