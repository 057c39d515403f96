package providers

import "net/http"

// IsTransient reports whether an HTTP status is worth retrying.
// Only rate limiting and server/gateway failures qualify.
func IsTransient(statusCode int) bool {
	switch statusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
