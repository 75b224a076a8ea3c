package server

import (
	"github.com/gin-gonic/gin"
	"github.com/voicenote/transcriber/internal/config"
	"github.com/voicenote/transcriber/internal/domains/transcript"
	"github.com/voicenote/transcriber/internal/handlers"
	"github.com/voicenote/transcriber/pkg/Logger"
)

type Dependencies struct {
	TranscriptService transcript.Service
	Logger            *Logger.Logger
	Configs           *config.Settings
}

func NewServerDependencies(
	transcriptService transcript.Service,
	logger *Logger.Logger,
	cfg *config.Settings,
) Dependencies {
	return Dependencies{
		TranscriptService: transcriptService,
		Logger:            logger,
		Configs:           cfg,
	}
}

func InitializeRoutes(r *gin.Engine, dep Dependencies) {
	r.Use(handlers.CORSMiddleware())
	r.Use(handlers.RequestLoggerMiddleware(dep.Logger))
	r.Use(handlers.ErrorHandlerMiddleware(dep.Logger))

	healthHandler := handlers.NewHealthHandler(dep.TranscriptService)
	transcribeHandler := handlers.NewTranscribeHandler(
		dep.TranscriptService,
		dep.Configs.Upload.MaxBytes,
		dep.Logger,
	)

	register := func(g gin.IRoutes) {
		g.GET("/", healthHandler.Root)
		g.GET("/health", healthHandler.Health)
		g.POST("/transcribe", transcribeHandler.Transcribe)
	}

	register(r)
	// mirrored under /api for reverse-proxied deployments that don't strip
	// the prefix
	register(r.Group("/api"))
}
