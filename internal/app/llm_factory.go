package app

import (
	"fmt"

	"github.com/voicenote/transcriber/internal/config"
	"github.com/voicenote/transcriber/pkg/Logger"
	"github.com/voicenote/transcriber/pkg/assistant"
	"github.com/voicenote/transcriber/pkg/assistant/providers/gemini"
	"github.com/voicenote/transcriber/pkg/assistant/providers/ollama"
	"github.com/voicenote/transcriber/pkg/assistant/providers/openai"
)

// NewStructurer creates the configured LLM provider for note structuring.
func NewStructurer(cfg config.StructurerConfig, logger *Logger.Logger) (assistant.Structurer, error) {
	switch cfg.Provider {
	case "", "ollama":
		provider, err := ollama.New(cfg.Ollama, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create ollama provider: %w", err)
		}
		logger.Infof("structurer: ollama, model %s, servers %v", cfg.Ollama.Model, cfg.Ollama.URLs)
		return provider, nil
	case "openai":
		provider, err := openai.New(cfg.OpenAI)
		if err != nil {
			return nil, fmt.Errorf("failed to create openai provider: %w", err)
		}
		logger.Infof("structurer: openai, model %s", cfg.OpenAI.Model)
		return provider, nil
	case "gemini":
		provider, err := gemini.New(cfg.Gemini)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini provider: %w", err)
		}
		logger.Infof("structurer: gemini, model %s", cfg.Gemini.Model)
		return provider, nil
	default:
		return nil, fmt.Errorf("unknown structurer provider %q", cfg.Provider)
	}
}
