package app

import (
	"github.com/voicenote/transcriber/internal/config"
	"github.com/voicenote/transcriber/internal/domains/transcript"
	"github.com/voicenote/transcriber/internal/server"
	"github.com/voicenote/transcriber/pkg/Logger"
	"github.com/voicenote/transcriber/pkg/assistant"
	"github.com/voicenote/transcriber/pkg/io/stt"
	"github.com/voicenote/transcriber/pkg/io/stt/whisper"
)

// App represents the application with all its dependencies
type App struct {
	Config      *config.Settings
	Logger      *Logger.Logger
	Transcriber stt.Transcriber
	Structurer  assistant.Structurer
	ServerDeps  server.Dependencies
}

// NewApp creates a new application instance with all dependencies properly wired
func NewApp(cfg *config.Settings, logger *Logger.Logger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.setupDependencies(); err != nil {
		return nil, err
	}

	return app, nil
}

// setupDependencies initializes all application dependencies. Both model
// clients are built once here and shared read-only by every request.
func (a *App) setupDependencies() error {
	a.Transcriber = whisper.New(a.Config.Whisper.URL, a.Logger)

	structurer, err := NewStructurer(a.Config.Structurer, a.Logger)
	if err != nil {
		return err
	}
	a.Structurer = structurer

	transcriptService := transcript.NewService(
		a.Transcriber,
		a.Structurer,
		a.Config.Whisper.Timeout(),
		a.Config.Structurer.Timeout(),
		a.Logger,
	)

	a.ServerDeps = server.NewServerDependencies(transcriptService, a.Logger, a.Config)

	return nil
}

// GetServerDependencies returns the server dependencies
func (a *App) GetServerDependencies() server.Dependencies {
	return a.ServerDeps
}
