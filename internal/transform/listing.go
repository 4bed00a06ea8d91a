package transform

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/hpn/hpn-transform/internal/domain"
)

// ListAllModels queries every credentialed provider concurrently and waits
// for all of them. A provider whose listing fails maps to an empty list; it
// never cancels or fails its siblings. Uncredentialed providers are omitted.
func (o *Orchestrator) ListAllModels(ctx context.Context, settings domain.Settings) map[domain.ProviderType][]string {
	providers := settings.Credentials.Available()
	results := make([][]string, len(providers))

	var g errgroup.Group
	for i, p := range providers {
		g.Go(func() error {
			results[i] = o.listOne(ctx, p, settings)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[domain.ProviderType][]string, len(providers))
	for i, p := range providers {
		out[p] = results[i]
	}
	return out
}

// ListModels lists one provider's models. The provider must be credentialed.
func (o *Orchestrator) ListModels(ctx context.Context, provider domain.ProviderType, settings domain.Settings) ([]string, error) {
	if !provider.IsValid() {
		return nil, &domain.ConfigurationError{Provider: provider, Reason: "unknown provider"}
	}
	if !settings.Credentials.Has(provider) {
		return nil, &domain.ConfigurationError{Provider: provider, Reason: "no API key configured"}
	}
	return o.listOne(ctx, provider, settings), nil
}

func (o *Orchestrator) listOne(ctx context.Context, provider domain.ProviderType, settings domain.Settings) (models []string) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("model listing panicked",
				slog.String("provider", string(provider)),
				slog.Any("panic", r),
			)
			models = []string{}
		}
		o.metrics.ObserveListing(string(provider), len(models))
	}()

	backend, ok := o.factory.Create(provider, settings)
	if !ok {
		return []string{}
	}

	models = backend.ListModels(ctx)
	if models == nil {
		models = []string{}
	}
	return models
}
