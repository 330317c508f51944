package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/brandkit/api/internal/client"
	"github.com/brandkit/api/internal/model"
)

// Fixed text-to-image settings. Few steps keep turnaround low.
const (
	logoPromptSuffix       = ", vector style, flat design, white background, high quality, no text"
	logoInferenceSteps     = 4
	logoGuidanceScale      = 7.5
	placeholderLogoSize    = 512
	placeholderContentType = "image/png"
)

// ImageService renders logo images
type ImageService struct {
	renderer client.ImageRenderer
}

// NewImageService creates a new image service
func NewImageService(renderer client.ImageRenderer) *ImageService {
	return &ImageService{
		renderer: renderer,
	}
}

// Render turns a logo prompt into image bytes. Failures are
// *model.GenerationError in the image stage.
func (s *ImageService) Render(ctx context.Context, logoPrompt string) (*client.Image, error) {
	// Use a placeholder image if the renderer is not configured
	if s.renderer == nil || !s.renderer.IsConfigured() {
		return s.renderMock()
	}

	img, err := s.renderer.Render(ctx, client.ImageRequest{
		Prompt:            logoPrompt + logoPromptSuffix,
		NumInferenceSteps: logoInferenceSteps,
		GuidanceScale:     logoGuidanceScale,
	})
	if err != nil {
		return nil, model.NewGenerationError(model.StageImage, model.KindImageRenderFailed, err)
	}
	if img == nil || len(img.Data) == 0 {
		return nil, model.NewGenerationError(model.StageImage, model.KindImageRenderFailed,
			errors.New("empty image response"))
	}
	if img.ContentType == "" {
		img.ContentType = placeholderContentType
	}
	return img, nil
}

// renderMock draws a flat placeholder mark on a white canvas
func (s *ImageService) renderMock() (*client.Image, error) {
	canvas := image.NewRGBA(image.Rect(0, 0, placeholderLogoSize, placeholderLogoSize))
	white := color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	mark := color.RGBA{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF}

	quarter := placeholderLogoSize / 4
	for y := 0; y < placeholderLogoSize; y++ {
		for x := 0; x < placeholderLogoSize; x++ {
			if x >= quarter && x < 3*quarter && y >= quarter && y < 3*quarter {
				canvas.Set(x, y, mark)
			} else {
				canvas.Set(x, y, white)
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, model.NewGenerationError(model.StageImage, model.KindImageRenderFailed,
			fmt.Errorf("encode placeholder: %w", err))
	}
	return &client.Image{Data: buf.Bytes(), ContentType: placeholderContentType}, nil
}
