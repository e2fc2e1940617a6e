package report

import (
	"context"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

// Gemini generates text with Google's Gemini API.
type Gemini struct {
	client *genai.Client
}

func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Gemini{client: client}, nil
}

func (g *Gemini) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return resp.Text(), nil
}

// Open builds a Generator backed by Gemini. An empty key, or a client that
// cannot be created, yields a generator that reports MsgNoAPIKey.
func Open(ctx context.Context, apiKey, model string) *Generator {
	if apiKey == "" {
		return NewGenerator(nil, model)
	}
	g, err := NewGemini(ctx, apiKey)
	if err != nil {
		slog.Error("failed to create gemini client, reports disabled", "error", err)
		return NewGenerator(nil, model)
	}
	return NewGenerator(g, model)
}
