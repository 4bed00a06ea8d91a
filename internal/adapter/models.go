package adapter

import "github.com/hpn/hpn-transform/internal/domain"

// modelSuggestions are shown to users choosing a model without a network call.
var modelSuggestions = map[domain.ProviderType][]string{
	domain.ProviderOpenAI: {"gpt-4o", "gpt-4o-mini", "o1", "o1-mini", "o3-mini"},
	domain.ProviderClaude: {"claude-3-5-haiku-latest", "claude-3-5-sonnet-latest", "claude-3-7-sonnet-latest", "claude-3-opus-latest"},
	domain.ProviderGemini: {"gemini-1.5-flash", "gemini-1.5-pro", "gemini-2.0-flash", "gemini-2.0-flash-lite"},
}

// ModelSuggestions returns a copy of the static model list for provider.
// Unknown providers yield an empty list.
func ModelSuggestions(provider string) []string {
	list := modelSuggestions[domain.ProviderType(provider)]
	out := make([]string, len(list))
	copy(out, list)
	return out
}
