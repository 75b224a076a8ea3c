package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/voicenote/transcriber/internal/config"
	"google.golang.org/api/option"
)

// GeminiProvider structures notes through the Gemini API.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func New(cfg config.GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is not configured")
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini API client: %w", err)
	}

	return &GeminiProvider{
		client: client,
		model:  cfg.Model,
	}, nil
}

func (gp *GeminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	model := gp.client.GenerativeModel(gp.model)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}

	return sb.String(), nil
}

func (gp *GeminiProvider) IsAlive(ctx context.Context) bool {
	model := gp.client.GenerativeModel(gp.model)
	_, err := model.CountTokens(ctx, genai.Text("ping"))
	return err == nil
}

func (gp *GeminiProvider) Name() string {
	return "gemini"
}
