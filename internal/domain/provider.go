// Package domain contains the core business entities and value objects.
// These structs are framework-agnostic and represent the heart of the application.
package domain

import "strings"

// ProviderType identifies one of the supported LLM vendors.
type ProviderType string

const (
	ProviderOpenAI ProviderType = "openai"
	ProviderClaude ProviderType = "claude"
	ProviderGemini ProviderType = "gemini"
)

// DefaultPriority is the fallback order used when no preferred provider is
// credentialed and the configuration does not supply its own order.
var DefaultPriority = []ProviderType{ProviderClaude, ProviderOpenAI, ProviderGemini}

// AllProviders returns the closed set of supported providers in default
// priority order.
func AllProviders() []ProviderType {
	out := make([]ProviderType, len(DefaultPriority))
	copy(out, DefaultPriority)
	return out
}

// IsValid reports whether p is in the supported set.
func (p ProviderType) IsValid() bool {
	switch p {
	case ProviderOpenAI, ProviderClaude, ProviderGemini:
		return true
	default:
		return false
	}
}

// String returns the provider identifier.
func (p ProviderType) String() string {
	return string(p)
}

// ParseProviderType normalizes s and reports whether it names a supported provider.
func ParseProviderType(s string) (ProviderType, bool) {
	p := ProviderType(strings.ToLower(strings.TrimSpace(s)))
	return p, p.IsValid()
}

// Credentials maps a provider to its API key.
type Credentials map[ProviderType]string

// Has reports whether a non-blank credential is present for p.
func (c Credentials) Has(p ProviderType) bool {
	return strings.TrimSpace(c[p]) != ""
}

// Get returns the trimmed credential for p.
func (c Credentials) Get(p ProviderType) string {
	return strings.TrimSpace(c[p])
}

// Available returns the credentialed providers in default priority order.
func (c Credentials) Available() []ProviderType {
	out := make([]ProviderType, 0, len(DefaultPriority))
	for _, p := range DefaultPriority {
		if c.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

// Any reports whether at least one supported provider is credentialed.
func (c Credentials) Any() bool {
	return len(c.Available()) > 0
}

// ProviderDefaults carries the optional per-provider default models, the
// preferred provider and the fallback priority order.
type ProviderDefaults struct {
	// Models maps a provider to the model used when the request names none.
	Models map[ProviderType]string

	// Preferred is used when the request has no usable override.
	Preferred ProviderType

	// Priority is the fallback order. Empty means DefaultPriority.
	Priority []ProviderType
}

// Model returns the configured default model for p, or "".
func (d ProviderDefaults) Model(p ProviderType) string {
	if d.Models == nil {
		return ""
	}
	return strings.TrimSpace(d.Models[p])
}

// Settings is the read-only input handed to the core on every call.
type Settings struct {
	Credentials Credentials
	Defaults    ProviderDefaults
}
