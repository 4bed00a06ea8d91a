// Package adapter provides implementations for external AI provider integrations.
package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/hpn/hpn-transform/internal/domain"
)

const (
	// DefaultGeminiBaseURL is the default Gemini API endpoint.
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultGeminiModel is used when no default model is configured.
	DefaultGeminiModel = "gemini-2.0-flash"

	// geminiContextAck is the model turn that closes the context exchange.
	geminiContextAck = "Understood."

	// Gemini has no temperature-rejecting model family.
	geminiReasoningPrefix = ""
)

// GeminiAdapter implements Backend for the Google Gemini API.
// Context is carried as conversation history: a user turn holding the
// context followed by a model acknowledgement.
type GeminiAdapter struct {
	base
}

// NewGeminiAdapter creates a new GeminiAdapter with the given API key.
func NewGeminiAdapter(apiKey string, opts ...Option) *GeminiAdapter {
	return &GeminiAdapter{base: newBase(apiKey, DefaultGeminiBaseURL, DefaultGeminiModel, opts)}
}

// Name returns the provider identifier.
func (g *GeminiAdapter) Name() domain.ProviderType {
	return domain.ProviderGemini
}

// Transform performs a generateContent call and returns the concatenated
// text parts of the first candidate.
func (g *GeminiAdapter) Transform(ctx context.Context, prompt, contextText, model string) (string, error) {
	req := g.buildRequest(prompt, contextText, model)
	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(model), url.QueryEscape(g.apiKey))

	var resp GeminiResponse
	if err := g.doJSON(ctx, domain.ProviderGemini, http.MethodPost, endpoint, nil, req, &resp); err != nil {
		return "", err
	}

	return extractGeminiText(resp), nil
}

// ListModels returns the Gemini family models with the "models/" prefix stripped.
func (g *GeminiAdapter) ListModels(ctx context.Context) []string {
	endpoint := fmt.Sprintf("%s/models?key=%s", g.baseURL, url.QueryEscape(g.apiKey))

	var resp GeminiModelList
	if err := g.doJSON(ctx, domain.ProviderGemini, http.MethodGet, endpoint, nil, nil, &resp); err != nil {
		g.logger.Debug("gemini model listing failed", "error", err.Error())
		return []string{}
	}

	ids := make([]string, 0, len(resp.Models))
	for _, m := range resp.Models {
		ids = append(ids, strings.TrimPrefix(m.Name, "models/"))
	}
	return filterModels(ids, func(id string) bool {
		return strings.HasPrefix(id, "gemini-")
	})
}

// buildRequest converts the single-turn exchange to Gemini format.
func (g *GeminiAdapter) buildRequest(prompt, contextText, model string) GeminiRequest {
	req := GeminiRequest{
		Contents: make([]GeminiContent, 0, 3),
	}

	if strings.TrimSpace(contextText) != "" {
		req.Contents = append(req.Contents,
			GeminiContent{Role: "user", Parts: []GeminiPart{{Text: contextText}}},
			GeminiContent{Role: "model", Parts: []GeminiPart{{Text: geminiContextAck}}},
		)
	}

	req.Contents = append(req.Contents, GeminiContent{
		Role:  "user",
		Parts: []GeminiPart{{Text: prompt}},
	})

	if acceptsTemperature(model, geminiReasoningPrefix) {
		temp := DefaultTemperature
		req.GenerationConfig = &GeminiGenerationConfig{Temperature: &temp}
	}

	return req
}

// extractGeminiText joins the text parts of the first candidate with newlines.
func extractGeminiText(resp GeminiResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}

	parts := make([]string, 0, len(resp.Candidates[0].Content.Parts))
	for _, p := range resp.Candidates[0].Content.Parts {
		if t := strings.TrimSpace(p.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// filterModels keeps ids accepted by keep, de-duplicated and sorted.
func filterModels(ids []string, keep func(string) bool) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || !keep(id) {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ============================================================================
// Gemini API Types
// ============================================================================

// GeminiRequest represents a Gemini generateContent request.
type GeminiRequest struct {
	Contents         []GeminiContent         `json:"contents"`
	GenerationConfig *GeminiGenerationConfig `json:"generationConfig,omitempty"`
}

// GeminiContent represents a content block in Gemini format.
type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart represents a part of a content block.
type GeminiPart struct {
	Text string `json:"text,omitempty"`
}

// GeminiGenerationConfig contains generation parameters.
type GeminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens *int     `json:"maxOutputTokens,omitempty"`
}

// GeminiResponse represents a Gemini generateContent response.
type GeminiResponse struct {
	Candidates []GeminiCandidate `json:"candidates"`
}

// GeminiCandidate represents a single generated candidate.
type GeminiCandidate struct {
	Content      GeminiContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

// GeminiModelList is the body of GET /models.
type GeminiModelList struct {
	Models []struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	} `json:"models"`
}
