package ollama

import (
	"context"
	"fmt"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/presbrey/ollamafarm"
	"github.com/voicenote/transcriber/internal/config"
	"github.com/voicenote/transcriber/pkg/Logger"
	"github.com/voicenote/transcriber/pkg/assistant"
)

// OllamaProvider generates structured notes through a farm of Ollama
// servers; the farm tracks which servers are online.
type OllamaProvider struct {
	farm   *ollamafarm.Farm
	model  string
	logger *Logger.Logger
}

func New(cfg config.OllamaConfig, logger *Logger.Logger) (*OllamaProvider, error) {
	if len(cfg.URLs) == 0 {
		return nil, fmt.Errorf("no ollama URLs configured")
	}

	farm := ollamafarm.New()
	for _, u := range cfg.URLs {
		if err := farm.RegisterURL(u, nil); err != nil {
			return nil, fmt.Errorf("failed to register ollama server %s: %w", u, err)
		}
	}

	return &OllamaProvider{
		farm:   farm,
		model:  cfg.Model,
		logger: logger,
	}, nil
}

// Complete runs a single non-streaming generation with format=json so the
// model answers with a parseable object.
func (o *OllamaProvider) Complete(ctx context.Context, prompt string) (string, error) {
	srv := o.farm.First(&ollamafarm.Where{Offline: false})
	if srv == nil {
		return "", fmt.Errorf("%w: no ollama server online", assistant.ErrUnreachable)
	}

	stream := false
	req := api.GenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: &stream,
		Format: "json",
	}

	var sb strings.Builder
	err := srv.Client().Generate(ctx, &req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate failed: %w", err)
	}

	return sb.String(), nil
}

func (o *OllamaProvider) IsAlive(ctx context.Context) bool {
	return o.farm.First(&ollamafarm.Where{Offline: false}) != nil
}

func (o *OllamaProvider) Name() string {
	return "ollama"
}
