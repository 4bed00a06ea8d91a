package adapter

import (
	"context"
	"net/http"
	"strings"

	"github.com/hpn/hpn-transform/internal/domain"
)

const (
	// DefaultClaudeBaseURL is the default Anthropic API endpoint.
	DefaultClaudeBaseURL = "https://api.anthropic.com"

	// DefaultClaudeModel is used when no default model is configured.
	DefaultClaudeModel = "claude-3-5-sonnet-latest"

	claudeAPIVersion = "2023-06-01"
	claudeMaxTokens  = 4096

	// Anthropic has no temperature-rejecting model family.
	claudeReasoningPrefix = ""
)

// ClaudeAdapter implements Backend for the Anthropic Messages API.
// Context is sent as a tagged block prepended to the user prompt.
type ClaudeAdapter struct {
	base
}

// NewClaudeAdapter creates a new ClaudeAdapter with the given API key.
func NewClaudeAdapter(apiKey string, opts ...Option) *ClaudeAdapter {
	return &ClaudeAdapter{base: newBase(apiKey, DefaultClaudeBaseURL, DefaultClaudeModel, opts)}
}

// Name returns the provider identifier.
func (c *ClaudeAdapter) Name() domain.ProviderType {
	return domain.ProviderClaude
}

// Transform posts a single user message to /v1/messages and joins the text blocks.
func (c *ClaudeAdapter) Transform(ctx context.Context, prompt, contextText, model string) (string, error) {
	req := c.buildRequest(prompt, contextText, model)

	var resp claudeMessagesResponse
	if err := c.doJSON(ctx, domain.ProviderClaude, http.MethodPost, c.baseURL+"/v1/messages", c.headers(), req, &resp); err != nil {
		return "", err
	}

	return extractClaudeText(resp), nil
}

// ListModels returns the claude-* models reported by /v1/models.
func (c *ClaudeAdapter) ListModels(ctx context.Context) []string {
	var resp claudeModelList
	if err := c.doJSON(ctx, domain.ProviderClaude, http.MethodGet, c.baseURL+"/v1/models?limit=1000", c.headers(), nil, &resp); err != nil {
		c.logger.Debug("claude model listing failed", "error", err.Error())
		return []string{}
	}

	ids := make([]string, 0, len(resp.Data))
	for _, m := range resp.Data {
		ids = append(ids, m.ID)
	}
	return filterModels(ids, func(id string) bool {
		return strings.HasPrefix(id, "claude-")
	})
}

func (c *ClaudeAdapter) headers() http.Header {
	h := http.Header{}
	h.Set("x-api-key", c.apiKey)
	h.Set("anthropic-version", claudeAPIVersion)
	return h
}

func (c *ClaudeAdapter) buildRequest(prompt, contextText, model string) claudeMessagesRequest {
	content := prompt
	if strings.TrimSpace(contextText) != "" {
		content = "<context>\n" + contextText + "\n</context>\n\n" + prompt
	}

	req := claudeMessagesRequest{
		Model:     model,
		Messages:  []claudeMessage{{Role: "user", Content: content}},
		MaxTokens: claudeMaxTokens,
	}
	if acceptsTemperature(model, claudeReasoningPrefix) {
		temp := DefaultTemperature
		req.Temperature = &temp
	}
	return req
}

// extractClaudeText joins every text block with newlines.
func extractClaudeText(resp claudeMessagesResponse) string {
	parts := make([]string, 0, len(resp.Content))
	for _, block := range resp.Content {
		if block.Type != "text" {
			continue
		}
		if t := strings.TrimSpace(block.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeMessagesRequest struct {
	Model       string          `json:"model"`
	Messages    []claudeMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens"`
	Temperature *float64        `json:"temperature,omitempty"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeMessagesResponse struct {
	Content    []claudeContentBlock `json:"content"`
	StopReason string               `json:"stop_reason"`
}

type claudeModelList struct {
	Data []struct {
		ID          string `json:"id"`
		DisplayName string `json:"display_name"`
	} `json:"data"`
	HasMore bool `json:"has_more"`
}
