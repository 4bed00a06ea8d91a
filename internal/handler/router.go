package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hpn/hpn-transform/internal/metrics"
)

// NewRouter wires middleware and routes. m may be nil, in which case
// /metrics is not registered.
func NewRouter(h *TransformHandler, logger *slog.Logger, m *metrics.Metrics) *gin.Engine {
	router := gin.New()

	// Request id first so recovery and logging can report it.
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(logger))
	router.Use(LoggingMiddleware(logger))

	router.POST("/v1/transform", h.HandleTransform)
	router.GET("/v1/models", h.HandleModels)
	router.GET("/health", h.HandleHealth)

	if m != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	return router
}
