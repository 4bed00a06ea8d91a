package adapter

import (
	"log/slog"

	"github.com/hpn/hpn-transform/internal/domain"
)

// Constructor builds a backend bound to apiKey.
type Constructor func(apiKey string, opts ...Option) Backend

// Factory maps provider identifiers to backend constructors.
type Factory struct {
	constructors map[domain.ProviderType]Constructor
	options      []Option
	perProvider  map[domain.ProviderType][]Option
	logger       *slog.Logger
}

// FactoryOption is a functional option for configuring Factory.
type FactoryOption func(*Factory)

// WithConstructor registers or replaces the constructor for provider.
func WithConstructor(provider domain.ProviderType, ctor Constructor) FactoryOption {
	return func(f *Factory) {
		f.constructors[provider] = ctor
	}
}

// WithAdapterOptions appends options passed to every constructed backend.
func WithAdapterOptions(opts ...Option) FactoryOption {
	return func(f *Factory) {
		f.options = append(f.options, opts...)
	}
}

// WithProviderOptions appends options passed only to backends for provider.
func WithProviderOptions(provider domain.ProviderType, opts ...Option) FactoryOption {
	return func(f *Factory) {
		f.perProvider[provider] = append(f.perProvider[provider], opts...)
	}
}

// WithFactoryLogger sets a custom logger.
func WithFactoryLogger(logger *slog.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFactory creates a Factory for the three built-in providers.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		constructors: map[domain.ProviderType]Constructor{
			domain.ProviderOpenAI: func(k string, o ...Option) Backend { return NewOpenAIAdapter(k, o...) },
			domain.ProviderClaude: func(k string, o ...Option) Backend { return NewClaudeAdapter(k, o...) },
			domain.ProviderGemini: func(k string, o ...Option) Backend { return NewGeminiAdapter(k, o...) },
		},
		perProvider: make(map[domain.ProviderType][]Option),
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create returns a backend for provider, or false when the provider is
// unknown or has no credential. Failures are logged, never raised.
func (f *Factory) Create(provider domain.ProviderType, settings domain.Settings) (Backend, bool) {
	ctor, ok := f.constructors[provider]
	if !ok || !provider.IsValid() {
		f.logger.Warn("unknown provider", slog.String("provider", string(provider)))
		return nil, false
	}

	if !settings.Credentials.Has(provider) {
		f.logger.Warn("missing API key for provider", slog.String("provider", string(provider)))
		return nil, false
	}

	opts := make([]Option, 0, len(f.options)+len(f.perProvider[provider])+2)
	opts = append(opts, f.options...)
	opts = append(opts, f.perProvider[provider]...)
	opts = append(opts,
		WithDefaultModel(settings.Defaults.Model(provider)),
		WithLogger(f.logger),
	)

	return ctor(settings.Credentials.Get(provider), opts...), true
}
