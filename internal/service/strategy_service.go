package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/brandkit/api/internal/client"
	"github.com/brandkit/api/internal/fonts"
	"github.com/brandkit/api/internal/model"
)

// strategyResponse is the JSON schema the text model must answer with
type strategyResponse struct {
	BrandName    string `json:"brand_name"`
	BaseColor    string `json:"base_color"`
	ColorHarmony string `json:"color_harmony"`
	FontName     string `json:"font_name"`
	LogoPrompt   string `json:"logo_prompt"`
	Rationale    string `json:"rationale"`
}

// StrategyService asks a text model for a brand strategy and validates it
type StrategyService struct {
	completer client.TextCompleter
}

// NewStrategyService creates a new strategy service
func NewStrategyService(completer client.TextCompleter) *StrategyService {
	return &StrategyService{
		completer: completer,
	}
}

// Generate produces a validated strategy whose font is one of allowedFonts.
// Every failure is a *model.GenerationError in the strategy stage.
func (s *StrategyService) Generate(ctx context.Context, prompt, vibe string, allowedFonts []string) (*model.BrandStrategy, error) {
	// Use mock response if client is not configured
	if s.completer == nil || !s.completer.IsConfigured() {
		return s.generateMock(prompt, allowedFonts), nil
	}

	raw, err := s.completer.Complete(ctx, client.CompletionRequest{
		System:   s.buildSystemPrompt(allowedFonts),
		User:     s.buildUserPrompt(prompt, vibe),
		JSONMode: true,
	})
	if err != nil {
		return nil, model.NewGenerationError(model.StageStrategy, model.KindStrategyUnavailable, err)
	}

	var resp strategyResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		return nil, model.NewGenerationError(model.StageStrategy, model.KindStrategyInvalidJSON,
			fmt.Errorf("invalid JSON response: %w", err))
	}

	if field := firstMissingField(&resp); field != "" {
		gerr := model.NewGenerationError(model.StageStrategy, model.KindStrategyMissingField,
			errors.New("required field is empty"))
		gerr.Field = field
		return nil, gerr
	}

	font, ok := fonts.Match(allowedFonts, resp.FontName)
	if !ok {
		gerr := model.NewGenerationError(model.StageStrategy, model.KindStrategyFontNotAllowed,
			fmt.Errorf("font %q is not in the allowed list", resp.FontName))
		gerr.Field = "font_name"
		return nil, gerr
	}

	return &model.BrandStrategy{
		BrandName:   strings.TrimSpace(resp.BrandName),
		BaseColor:   strings.TrimSpace(resp.BaseColor),
		HarmonyType: strings.TrimSpace(resp.ColorHarmony),
		FontName:    font,
		LogoPrompt:  strings.TrimSpace(resp.LogoPrompt),
		Rationale:   strings.TrimSpace(resp.Rationale),
	}, nil
}

func (s *StrategyService) buildSystemPrompt(allowedFonts []string) string {
	return fmt.Sprintf(`You are a senior brand designer.
Always output your response as a single valid JSON object and nothing else.
You must pick the font from this list: [%s].
Never choose a font that is not in the list.`, strings.Join(allowedFonts, ", "))
}

func (s *StrategyService) buildUserPrompt(prompt, vibe string) string {
	return fmt.Sprintf(`Create a brand identity for: %q.
The user wants a %q style.

Return JSON with exactly these keys:
{
  "brand_name": "short, memorable name",
  "base_color": "hex code such as #FF5733",
  "color_harmony": "one of analogous, complementary, triadic, split-complementary",
  "font_name": "one font from the provided list",
  "logo_prompt": "detailed prompt for an image model describing a minimalist vector logo on a white background",
  "rationale": "why these choices fit the brief"
}`, prompt, vibe)
}

// firstMissingField returns the first required field that is empty
func firstMissingField(r *strategyResponse) string {
	required := []struct {
		name  string
		value string
	}{
		{"brand_name", r.BrandName},
		{"base_color", r.BaseColor},
		{"color_harmony", r.ColorHarmony},
		{"font_name", r.FontName},
		{"logo_prompt", r.LogoPrompt},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return f.name
		}
	}
	return ""
}

// extractJSON attempts to extract JSON from a response that may contain extra text
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")

	if start != -1 && end != -1 && end > start {
		return s[start : end+1]
	}
	return s
}

// Mock implementation for development
func (s *StrategyService) generateMock(prompt string, allowedFonts []string) *model.BrandStrategy {
	name := "Nord"
	if fields := strings.Fields(prompt); len(fields) > 0 {
		word := []rune(strings.Trim(fields[len(fields)-1], ".,!?\"'"))
		if len(word) > 0 {
			name = strings.ToUpper(string(word[:1])) + strings.ToLower(string(word[1:])) + "ly"
		}
	}

	font := ""
	if len(allowedFonts) > 0 {
		font = allowedFonts[0]
	}

	return &model.BrandStrategy{
		BrandName:   name,
		BaseColor:   "#3B82F6",
		HarmonyType: string(model.HarmonyComplementary),
		FontName:    font,
		LogoPrompt:  fmt.Sprintf("minimalist geometric emblem for %s", name),
		Rationale:   "Mock strategy generated without a text model.",
	}
}
