package domain

import "strings"

// ModelDefaulter is satisfied by anything that can name a fallback model.
type ModelDefaulter interface {
	DefaultModel() string
}

// ResolveProvider picks exactly one provider. First match wins:
//  1. override, if it is credentialed
//  2. settings.Defaults.Preferred, if it is credentialed
//  3. the first credentialed provider in the priority order
//
// Returns ErrNoCredentials wrapped in a ConfigurationError when nothing is credentialed.
func ResolveProvider(override ProviderType, settings Settings) (ProviderType, error) {
	creds := settings.Credentials

	if override.IsValid() && creds.Has(override) {
		return override, nil
	}

	preferred := settings.Defaults.Preferred
	if preferred.IsValid() && creds.Has(preferred) {
		return preferred, nil
	}

	for _, p := range PriorityOrder(settings.Defaults.Priority) {
		if creds.Has(p) {
			return p, nil
		}
	}

	return "", &ConfigurationError{Err: ErrNoCredentials}
}

// PriorityOrder normalizes a configured priority list: unknown and duplicate
// entries are dropped and any supported provider it omits is appended in
// DefaultPriority order.
func PriorityOrder(configured []ProviderType) []ProviderType {
	out := make([]ProviderType, 0, len(DefaultPriority))
	seen := make(map[ProviderType]struct{}, len(DefaultPriority))

	add := func(p ProviderType) {
		if !p.IsValid() {
			return
		}
		if _, dup := seen[p]; dup {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, p := range configured {
		add(p)
	}
	for _, p := range DefaultPriority {
		add(p)
	}
	return out
}

// ResolveModel returns the trimmed override, or the backend's default model.
func ResolveModel(override string, backend ModelDefaulter) string {
	if m := strings.TrimSpace(override); m != "" {
		return m
	}
	return backend.DefaultModel()
}
