package adapter

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 60 * time.Second

	// DefaultTemperature is sent to every model that accepts a temperature.
	DefaultTemperature = 0.7
)

// base holds the settings shared by every adapter.
type base struct {
	apiKey       string
	baseURL      string
	defaultModel string
	httpClient   *http.Client
	logger       *slog.Logger
}

func newBase(apiKey, baseURL, fallbackModel string, opts []Option) base {
	b := base{
		apiKey:       apiKey,
		baseURL:      baseURL,
		defaultModel: fallbackModel,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(&b)
	}

	return b
}

// Option is a functional option shared by all adapters.
type Option func(*base)

// WithBaseURL sets a custom base URL for the vendor API.
func WithBaseURL(url string) Option {
	return func(b *base) {
		if url != "" {
			b.baseURL = strings.TrimSuffix(url, "/")
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(b *base) {
		if client != nil {
			b.httpClient = client
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(b *base) {
		if timeout > 0 {
			b.httpClient.Timeout = timeout
		}
	}
}

// WithDefaultModel overrides the vendor fallback model. Blank values are ignored.
func WithDefaultModel(model string) Option {
	return func(b *base) {
		if m := strings.TrimSpace(model); m != "" {
			b.defaultModel = m
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *base) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// DefaultModel returns the configured default model.
func (b *base) DefaultModel() string {
	return b.defaultModel
}

// acceptsTemperature reports whether model may be sent a temperature.
// An empty prefix means every model accepts one.
func acceptsTemperature(model, reasoningPrefix string) bool {
	if reasoningPrefix == "" {
		return true
	}
	return !strings.HasPrefix(strings.ToLower(model), reasoningPrefix)
}
