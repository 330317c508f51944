package service

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/brandkit/api/internal/client"
	"github.com/brandkit/api/internal/model"
)

func TestImageService_Render(t *testing.T) {
	renderer := &fakeRenderer{image: &client.Image{Data: pngBytes}}
	svc := NewImageService(renderer)

	img, err := svc.Render(context.Background(), "a fox")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	if renderer.last.Prompt != "a fox, vector style, flat design, white background, high quality, no text" {
		t.Errorf("prompt = %q", renderer.last.Prompt)
	}
	if renderer.last.NumInferenceSteps != 4 || renderer.last.GuidanceScale != 7.5 {
		t.Errorf("parameters = %d/%v, want 4/7.5", renderer.last.NumInferenceSteps, renderer.last.GuidanceScale)
	}
	if img.ContentType != "image/png" {
		t.Errorf("ContentType = %q, want image/png default", img.ContentType)
	}
}

func TestImageService_RenderNilImage(t *testing.T) {
	svc := NewImageService(&fakeRenderer{})

	_, err := svc.Render(context.Background(), "a fox")
	requireKind(t, err, model.StageImage, model.KindImageRenderFailed)
}

func TestImageService_Mock(t *testing.T) {
	svc := NewImageService(nil)

	img, err := svc.Render(context.Background(), "a fox")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(img.Data))
	if err != nil {
		t.Fatalf("placeholder is not a PNG: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != placeholderLogoSize || b.Dy() != placeholderLogoSize {
		t.Errorf("bounds = %v, want %dx%d", b, placeholderLogoSize, placeholderLogoSize)
	}
}
