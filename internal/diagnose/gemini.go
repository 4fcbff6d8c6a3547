package diagnose

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const (
	providerGemini     = "gemini"
	DefaultGeminiModel = "gemini-2.5-flash"
)

type GeminiCompleter struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGeminiCompleter(ctx context.Context, apiKey, model string, temperature float32) (*GeminiCompleter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &ServiceError{Provider: providerGemini, Err: ErrMissingAPIKey}
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, &ServiceError{Provider: providerGemini, Err: fmt.Errorf("creating client: %w", err)}
	}

	return &GeminiCompleter{client: client, model: model, temperature: temperature}, nil
}

func (g *GeminiCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
	})
	if err != nil {
		return "", &ServiceError{Provider: providerGemini, Err: err}
	}
	text := resp.Text()
	if text == "" {
		return "", &ServiceError{Provider: providerGemini, Err: errors.New("empty response")}
	}
	return text, nil
}
