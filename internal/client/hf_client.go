package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brandkit/api/internal/config"
)

// ImageRequest is a text-to-image call with fixed inference parameters
type ImageRequest struct {
	Prompt            string
	NumInferenceSteps int
	GuidanceScale     float64
}

// Image is the raw output of an image model
type Image struct {
	Data        []byte
	ContentType string
}

// ImageRenderer defines the interface for text-to-image providers
type ImageRenderer interface {
	Render(ctx context.Context, req ImageRequest) (*Image, error)
	IsConfigured() bool
}

// HuggingFaceClient calls the Hugging Face inference API
type HuggingFaceClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

type textToImageRequest struct {
	Inputs     string                `json:"inputs"`
	Parameters textToImageParameters `json:"parameters"`
}

type textToImageParameters struct {
	NumInferenceSteps int     `json:"num_inference_steps,omitempty"`
	GuidanceScale     float64 `json:"guidance_scale,omitempty"`
}

// NewHuggingFaceClient creates a new Hugging Face inference client
func NewHuggingFaceClient(cfg *config.HuggingFaceConfig) *HuggingFaceClient {
	return &HuggingFaceClient{
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

// Render sends a text-to-image request and returns the image bytes
func (c *HuggingFaceClient) Render(ctx context.Context, in ImageRequest) (*Image, error) {
	bodyBytes, err := json.Marshal(textToImageRequest{
		Inputs: in.Prompt,
		Parameters: textToImageParameters{
			NumInferenceSteps: in.NumInferenceSteps,
			GuidanceScale:     in.GuidanceScale,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "image/png")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("unexpected content type %q", contentType)
	}
	if len(respBody) == 0 {
		return nil, fmt.Errorf("empty image response")
	}

	return &Image{Data: respBody, ContentType: contentType}, nil
}

// IsConfigured returns true if the client has valid configuration
func (c *HuggingFaceClient) IsConfigured() bool {
	return c.apiKey != ""
}
