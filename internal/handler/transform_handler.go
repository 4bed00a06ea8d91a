// Package handler provides the HTTP handlers for the local serve mode.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hpn/hpn-transform/internal/domain"
)

// Transformer is the subset of transform.Orchestrator the handlers need.
type Transformer interface {
	Run(ctx context.Context, req domain.TransformRequest, settings domain.Settings) (domain.Outcome, error)
	ListAllModels(ctx context.Context, settings domain.Settings) map[domain.ProviderType][]string
	ListModels(ctx context.Context, provider domain.ProviderType, settings domain.Settings) ([]string, error)
}

// TransformHandler serves transformations and model listings over HTTP.
// Settings are fixed for the lifetime of the handler.
type TransformHandler struct {
	svc      Transformer
	settings domain.Settings
	logger   *slog.Logger
}

// TransformHandlerOption is a functional option for configuring TransformHandler.
type TransformHandlerOption func(*TransformHandler)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) TransformHandlerOption {
	return func(h *TransformHandler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewTransformHandler creates a new TransformHandler.
func NewTransformHandler(svc Transformer, settings domain.Settings, opts ...TransformHandlerOption) *TransformHandler {
	h := &TransformHandler{
		svc:      svc,
		settings: settings,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

type transformRequest struct {
	Prompt   string `json:"prompt" binding:"max=200000"`
	Context  string `json:"context" binding:"max=200000"`
	Provider string `json:"provider" binding:"max=32"`
	Model    string `json:"model" binding:"max=128"`
}

type transformResponse struct {
	Status     string `json:"status"`
	Text       string `json:"text,omitempty"`
	Provider   string `json:"provider"`
	Model      string `json:"model"`
	DurationMS int64  `json:"duration_ms"`
}

// HandleTransform handles POST /v1/transform
// 400 for invalid input, 412 when no usable provider is configured, 502 when
// the provider call fails. An empty result is a 200 with status "empty".
func (h *TransformHandler) HandleTransform(c *gin.Context) {
	var body transformRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		sendError(c, http.StatusBadRequest, "invalid_request_error", "Invalid request body: "+err.Error())
		return
	}

	req := domain.TransformRequest{
		Prompt:   body.Prompt,
		Context:  body.Context,
		Provider: domain.ProviderType(strings.ToLower(strings.TrimSpace(body.Provider))),
		Model:    body.Model,
	}

	outcome, err := h.svc.Run(c.Request.Context(), req, h.settings)
	if err != nil {
		var inputErr *domain.InvalidInputError
		switch {
		case errors.As(err, &inputErr):
			sendError(c, http.StatusBadRequest, "invalid_request_error", err.Error())
		case domain.IsConfigurationError(err):
			sendError(c, http.StatusPreconditionFailed, "configuration_error", err.Error())
		default:
			h.logger.Error("unexpected transform error", slog.String("error", err.Error()))
			sendError(c, http.StatusInternalServerError, "server_error", "Internal server error")
		}
		return
	}

	c.Set(providerKey, string(outcome.Provider))

	resp := transformResponse{
		Status:     outcome.Status.String(),
		Provider:   string(outcome.Provider),
		Model:      outcome.Model,
		DurationMS: outcome.Duration.Milliseconds(),
	}

	switch outcome.Status {
	case domain.StatusSuccess:
		resp.Text = outcome.Text
		c.JSON(http.StatusOK, resp)
	case domain.StatusEmpty:
		c.JSON(http.StatusOK, resp)
	default:
		c.JSON(http.StatusBadGateway, gin.H{
			"status":   resp.Status,
			"provider": resp.Provider,
			"model":    resp.Model,
			"error": gin.H{
				"message": outcome.Message,
				"type":    "provider_error",
			},
		})
	}
}

type modelEntry struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	OwnedBy string `json:"owned_by"`
}

// HandleModels handles GET /v1/models
// Lists models for every credentialed provider, or one with ?provider=.
func (h *TransformHandler) HandleModels(c *gin.Context) {
	ctx := c.Request.Context()

	listings := map[domain.ProviderType][]string{}
	if raw := c.Query("provider"); raw != "" {
		p, ok := domain.ParseProviderType(raw)
		if !ok {
			sendError(c, http.StatusBadRequest, "invalid_request_error", "unknown provider: "+raw)
			return
		}
		models, err := h.svc.ListModels(ctx, p, h.settings)
		if err != nil {
			sendError(c, http.StatusPreconditionFailed, "configuration_error", err.Error())
			return
		}
		listings[p] = models
	} else {
		listings = h.svc.ListAllModels(ctx, h.settings)
	}

	data := make([]modelEntry, 0)
	for _, p := range domain.AllProviders() {
		for _, id := range listings[p] {
			data = append(data, modelEntry{ID: id, Object: "model", OwnedBy: string(p)})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   data,
	})
}

// HandleHealth handles GET /health
// Returns server health status.
func (h *TransformHandler) HandleHealth(c *gin.Context) {
	available := h.settings.Credentials.Available()

	status := "healthy"
	if len(available) == 0 {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    status,
		"providers": available,
	})
}

// sendError writes the {"error":{"message","type"}} envelope.
func sendError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"message": message,
			"type":    errType,
		},
	})
}
