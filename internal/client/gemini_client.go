package client

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/brandkit/api/internal/config"
)

// GeminiClient generates text with Google's Gemini API
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini client. An empty API key yields an
// unconfigured client.
func NewGeminiClient(ctx context.Context, cfg *config.GeminiConfig) (*GeminiClient, error) {
	return newGeminiClient(ctx, cfg, genai.HTTPOptions{})
}

func newGeminiClient(ctx context.Context, cfg *config.GeminiConfig, httpOpts genai.HTTPOptions) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return &GeminiClient{model: cfg.Model}, nil
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: httpOpts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiClient{client: c, model: cfg.Model}, nil
}

// Complete runs a single generateContent call
func (c *GeminiClient) Complete(ctx context.Context, in CompletionRequest) (string, error) {
	if c.client == nil {
		return "", fmt.Errorf("gemini client not configured")
	}

	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(in.System, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
	}
	if in.JSONMode {
		genCfg.ResponseMIMEType = "application/json"
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(in.User), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("no text in gemini response")
	}
	return text, nil
}

// IsConfigured returns true if the client has valid configuration
func (c *GeminiClient) IsConfigured() bool {
	return c.client != nil
}
