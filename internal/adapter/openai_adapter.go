package adapter

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/hpn/hpn-transform/internal/domain"
)

const (
	// DefaultOpenAIBaseURL is the default OpenAI API endpoint.
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"

	// DefaultOpenAIModel is used when no default model is configured.
	DefaultOpenAIModel = "gpt-4o-mini"

	// Reasoning models (o1, o3-mini, ...) reject the temperature parameter.
	openAIReasoningPrefix = "o"
)

// OpenAIAdapter implements Backend for the OpenAI Chat Completions API.
// Context is sent as a dedicated system message.
type OpenAIAdapter struct {
	base
}

// NewOpenAIAdapter creates a new OpenAIAdapter with the given API key.
func NewOpenAIAdapter(apiKey string, opts ...Option) *OpenAIAdapter {
	return &OpenAIAdapter{base: newBase(apiKey, DefaultOpenAIBaseURL, DefaultOpenAIModel, opts)}
}

// Name returns the provider identifier.
func (o *OpenAIAdapter) Name() domain.ProviderType {
	return domain.ProviderOpenAI
}

// client builds an SDK client for a single call. Retries are disabled so the
// first failure is surfaced as-is.
func (o *OpenAIAdapter) client() openai.Client {
	return openai.NewClient(
		option.WithAPIKey(o.apiKey),
		option.WithBaseURL(o.baseURL+"/"),
		option.WithHTTPClient(o.httpClient),
		option.WithMaxRetries(0),
	)
}

// Transform performs a chat completion and returns the first choice's content.
func (o *OpenAIAdapter) Transform(ctx context.Context, prompt, contextText, model string) (string, error) {
	cli := o.client()

	resp, err := cli.Chat.Completions.New(ctx, buildOpenAIParams(prompt, contextText, model))
	if err != nil {
		return "", wrapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ListModels returns the gpt-* and o<digit>* models.
func (o *OpenAIAdapter) ListModels(ctx context.Context) []string {
	cli := o.client()

	page, err := cli.Models.List(ctx)
	if err != nil {
		o.logger.Debug("openai model listing failed", "error", wrapOpenAIError(err).Error())
		return []string{}
	}

	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	return filterModels(ids, isOpenAIChatModel)
}

func isOpenAIChatModel(id string) bool {
	if strings.HasPrefix(id, "gpt-") {
		return true
	}
	return len(id) > 1 && id[0] == 'o' && id[1] >= '0' && id[1] <= '9'
}

func buildOpenAIParams(prompt, contextText, model string) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)

	if strings.TrimSpace(contextText) != "" {
		messages = append(messages, openai.ChatCompletionMessageParamUnion{
			OfSystem: &openai.ChatCompletionSystemMessageParam{
				Content: openai.ChatCompletionSystemMessageParamContentUnion{
					OfString: openai.String(contextText),
				},
			},
		})
	}

	messages = append(messages, openai.ChatCompletionMessageParamUnion{
		OfUser: &openai.ChatCompletionUserMessageParam{
			Content: openai.ChatCompletionUserMessageParamContentUnion{
				OfString: openai.String(prompt),
			},
		},
	})

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: messages,
	}
	if acceptsTemperature(model, openAIReasoningPrefix) {
		params.Temperature = openai.Float(DefaultTemperature)
	}
	return params
}

// wrapOpenAIError converts SDK errors to *APIError, keeping the vendor message.
func wrapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		return &APIError{Provider: domain.ProviderOpenAI, StatusCode: apiErr.StatusCode, Message: msg, Err: err}
	}
	return &APIError{Provider: domain.ProviderOpenAI, Message: "request failed", Err: stripURL(err)}
}
