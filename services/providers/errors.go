package providers

import "errors"

var (
	// ErrMalformedResponse is returned when a 200 response lacks the completion text
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrUnknownStyle is returned for a Style value outside the known variants
	ErrUnknownStyle = errors.New("unknown provider style")

	// ErrTransport is returned when the HTTP round trip itself fails
	ErrTransport = errors.New("provider transport failure")

	// ErrCanceled is returned when the caller's context ends the retry loop
	ErrCanceled = errors.New("completion canceled")

	// ErrMissingAPIKey is returned by factories when no credential is supplied
	ErrMissingAPIKey = errors.New("missing api key")

	// ErrMissingEndpoint is returned by factories when no endpoint is supplied
	ErrMissingEndpoint = errors.New("missing endpoint")
)

// Error codes carried by ProviderError
const (
	CodeMarshal   = "MARSHAL_ERROR"
	CodeRequest   = "REQUEST_ERROR"
	CodeHTTP      = "HTTP_ERROR"
	CodeRead      = "READ_ERROR"
	CodeMalformed = "MALFORMED_RESPONSE"
	CodeCanceled  = "CANCELED"
)
