package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/voicenote/transcriber/internal/domains/transcript"
)

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	service transcript.Service
}

func NewHealthHandler(service transcript.Service) *HealthHandler {
	return &HealthHandler{service: service}
}

// Root is the basic liveness probe.
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, RootResponse{
		Status:  "healthy",
		Service: "VoiceNote Transcriber API",
	})
}

// Health reports downstream reachability without performing work.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	report := h.service.Health(ctx)
	c.JSON(http.StatusOK, HealthResponse{
		API:        "healthy",
		Whisper:    report.Whisper,
		Structurer: report.Structurer,
	})
}
