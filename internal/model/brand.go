package model

import "time"

// GenerateRequest represents the request body for brand generation
type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1,max=1000"`
	Vibe   string `json:"vibe" validate:"required,min=1,max=32"`
}

// BrandStrategy is the text model's validated proposal. It only lives
// for the duration of a single generation request.
type BrandStrategy struct {
	BrandName   string
	BaseColor   string
	HarmonyType string
	FontName    string
	LogoPrompt  string
	Rationale   string
}

// BrandColors holds the resolved colors of an identity
type BrandColors struct {
	Base    string      `json:"base"`
	Harmony HarmonyKind `json:"harmony"`
	Palette []string    `json:"palette"`
}

// BrandFonts holds the selected font and the vibe it was picked from
type BrandFonts struct {
	Selected string `json:"selected"`
	Category string `json:"category"`
}

// BrandIdentity is the persisted result of a successful generation
type BrandIdentity struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	BrandName string      `json:"brandName"`
	Colors    BrandColors `json:"colors"`
	Fonts     BrandFonts  `json:"fonts"`
	LogoURL   string      `json:"logoUrl"`
	Prompt    string      `json:"prompt"`
	Rationale string      `json:"rationale"`
	CreatedAt time.Time   `json:"createdAt"`
}

// BrandResponse is the public view of an identity
type BrandResponse struct {
	ID        string      `json:"id"`
	BrandName string      `json:"brandName"`
	LogoURL   string      `json:"logoUrl"`
	Colors    BrandColors `json:"colors"`
	Font      BrandFonts  `json:"font"`
	Prompt    string      `json:"prompt"`
	Rationale string      `json:"rationale"`
	CreatedAt time.Time   `json:"createdAt"`
}

// GenerateResponse represents the response for a successful generation
type GenerateResponse struct {
	Success bool           `json:"success"`
	Brand   *BrandResponse `json:"brand"`
}

// BrandListResponse represents a page of the caller's identities
type BrandListResponse struct {
	Brands []*BrandResponse `json:"brands"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// FontListResponse lists the fonts allowed for a vibe
type FontListResponse struct {
	Vibe  string   `json:"vibe"`
	Fonts []string `json:"fonts"`
}

// ToResponse converts an identity into its public view
func (b *BrandIdentity) ToResponse() *BrandResponse {
	return &BrandResponse{
		ID:        b.ID,
		BrandName: b.BrandName,
		LogoURL:   b.LogoURL,
		Colors:    b.Colors,
		Font:      b.Fonts,
		Prompt:    b.Prompt,
		Rationale: b.Rationale,
		CreatedAt: b.CreatedAt,
	}
}
