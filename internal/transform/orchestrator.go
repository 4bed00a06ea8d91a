// Package transform is the single entry point for text transformations: it
// resolves a provider and model, invokes the backend once and normalizes the
// outcome.
package transform

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hpn/hpn-transform/internal/adapter"
	"github.com/hpn/hpn-transform/internal/domain"
	"github.com/hpn/hpn-transform/internal/metrics"
	"github.com/hpn/hpn-transform/internal/security"
)

// BackendFactory constructs a backend for a provider, or reports false.
type BackendFactory interface {
	Create(provider domain.ProviderType, settings domain.Settings) (adapter.Backend, bool)
}

// Orchestrator runs transformations. It holds no per-request state.
type Orchestrator struct {
	factory BackendFactory
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option is a functional option for configuring Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// NewOrchestrator creates an Orchestrator backed by factory.
func NewOrchestrator(factory BackendFactory, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		factory: factory,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Run performs one transformation. The returned error is non-nil only for
// configuration and input problems, which are detected before any network
// call. Backend failures and empty results are reported through the Outcome.
// No retries are attempted.
func (o *Orchestrator) Run(ctx context.Context, req domain.TransformRequest, settings domain.Settings) (domain.Outcome, error) {
	if !settings.Credentials.Any() {
		return domain.Outcome{}, &domain.ConfigurationError{Err: domain.ErrNoCredentials}
	}

	if strings.TrimSpace(req.Prompt) == "" {
		return domain.Outcome{}, &domain.InvalidInputError{Field: "prompt", Reason: "must not be empty"}
	}

	o.noteOverride(req.Provider, settings)

	provider, err := domain.ResolveProvider(req.Provider, settings)
	if err != nil {
		return domain.Outcome{}, err
	}

	backend, ok := o.factory.Create(provider, settings)
	if !ok {
		return domain.Outcome{}, &domain.ConfigurationError{
			Provider: provider,
			Reason:   "provider is not available",
		}
	}

	model := domain.ResolveModel(req.Model, backend)

	o.logger.Debug("sending transformation",
		slog.String("provider", string(provider)),
		slog.String("model", model),
		slog.Bool("has_context", req.HasContext()),
	)

	start := time.Now()
	text, err := backend.Transform(ctx, req.Prompt, req.Context, model)
	outcome := domain.Outcome{
		Provider: provider,
		Model:    model,
		Duration: time.Since(start),
	}

	switch {
	case err != nil:
		outcome.Status = domain.StatusFailure
		outcome.Message = security.RedactSecrets(err.Error(), credentialValues(settings.Credentials)...)
		o.logger.Error("transformation failed",
			slog.String("provider", string(provider)),
			slog.String("model", model),
			slog.String("error", outcome.Message),
		)
	case strings.TrimSpace(text) == "":
		outcome.Status = domain.StatusEmpty
		o.logger.Warn("provider returned no content",
			slog.String("provider", string(provider)),
			slog.String("model", model),
		)
	default:
		outcome.Status = domain.StatusSuccess
		outcome.Text = text
		o.logger.Debug("transformation succeeded",
			slog.String("provider", string(provider)),
			slog.String("model", model),
			slog.Duration("latency", outcome.Duration),
		)
	}

	o.metrics.ObserveTransform(string(provider), model, outcome.Status.String(), outcome.Duration)

	return outcome, nil
}

func (o *Orchestrator) noteOverride(override domain.ProviderType, settings domain.Settings) {
	switch {
	case override == "":
	case !override.IsValid():
		o.logger.Warn("ignoring unknown provider", slog.String("provider", string(override)))
	case !settings.Credentials.Has(override):
		o.logger.Warn("no API key for requested provider, falling back",
			slog.String("provider", string(override)),
		)
	}
}

func credentialValues(creds domain.Credentials) []string {
	out := make([]string, 0, len(creds))
	for _, v := range creds {
		out = append(out, v)
	}
	return out
}
