package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/upb/llm-completion/config"
	"github.com/upb/llm-completion/internal/observability"
	"github.com/upb/llm-completion/services/providers"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	Logger *zap.Logger

	// Metrics is never nil once initialized; Registry is nil when metrics are disabled
	Metrics  observability.Metrics
	Registry *prometheus.Registry

	// Client is the selected completion provider
	Client providers.CompletionClient
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger, env Env) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initMetrics(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	client, err := SelectClient(env, cfg.Retry, logger, deps.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize provider: %w", err)
	}
	deps.Client = client

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initMetrics creates a per-instance registry
func (d *Dependencies) initMetrics(cfg *config.Config) error {
	if !cfg.Observability.MetricsEnabled {
		d.Metrics = observability.NopMetrics{}
		d.Logger.Info("metrics disabled")
		return nil
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m, err := observability.NewPrometheusMetrics(reg)
	if err != nil {
		return err
	}

	d.Registry = reg
	d.Metrics = m
	return nil
}

// ProviderName returns the name of the configured provider, or "" when none is set
func (d *Dependencies) ProviderName() string {
	if d.Client == nil {
		return ""
	}
	return d.Client.Name()
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	if d.Logger != nil {
		d.Logger.Info("shutting down dependencies")
		_ = d.Logger.Sync()
	}
	return nil
}
