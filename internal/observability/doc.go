// Package observability provides structured logging and metrics
// for the completion clients and the gateway.
//
// This package implements:
//   - zap logger construction from LOG_LEVEL / LOG_FORMAT
//   - Prometheus collectors for attempts, retries, outcomes and latency
//
// Every completion attempt is recorded, so retry behaviour is visible per provider.
package observability
