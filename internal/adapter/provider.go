// Package adapter provides implementations for external AI provider integrations.
// It uses the Adapter pattern to abstract provider-specific APIs behind a common interface.
package adapter

import (
	"context"

	"github.com/hpn/hpn-transform/internal/domain"
)

// Backend defines the interface every provider adapter must satisfy.
// A Backend is bound to one credential at construction and keeps no state
// between calls.
type Backend interface {
	// Name returns the provider this backend talks to.
	Name() domain.ProviderType

	// Transform sends prompt, preceded by contextText when it is not blank,
	// to the given model and returns the generated text.
	// An empty string with a nil error means the vendor returned no content.
	// Transport, authentication and decoding failures are returned as *APIError.
	Transform(ctx context.Context, prompt, contextText, model string) (string, error)

	// DefaultModel returns the model configured at construction, or the
	// vendor fallback.
	DefaultModel() string

	// ListModels returns the vendor's current models for this provider family,
	// sorted. Listing is advisory: any failure yields an empty list.
	ListModels(ctx context.Context) []string
}
