// Package color resolves a brand palette from a candidate base color and
// harmony type. Resolution never fails: invalid input is replaced by fixed
// fallbacks and the palette is always a non-empty list of distinct
// uppercase #RRGGBB strings whose first element is the base.
package color

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/brandkit/api/internal/model"
)

const (
	// FallbackBase replaces a base color that cannot be parsed
	FallbackBase = "#3B82F6"
	// FallbackHarmony replaces an unknown harmony type
	FallbackHarmony = model.HarmonyComplementary

	maxPaletteSize = 5
	minPaletteSize = 3
)

// FallbackPalette is returned when palette construction itself fails
var FallbackPalette = []string{"#3B82F6", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6"}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-F]{6}$`)
var shortHexPattern = regexp.MustCompile(`^#?([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

var ErrInvalidHexFormat = errors.New("invalid hex color format, expected #RRGGBB or #RGB")

// hueShifts are the hue rotations in degrees for each harmony type
var hueShifts = map[model.HarmonyKind][]float64{
	model.HarmonyComplementary:      {180},
	model.HarmonyAnalogous:          {30, -30},
	model.HarmonyTriadic:            {120, 240},
	model.HarmonySplitComplementary: {150, 210},
}

// Harmonizer computes the accent colors for a normalized base color
type Harmonizer func(base string, kind model.HarmonyKind) ([]string, error)

// Resolution is the outcome of resolving a candidate base and harmony
type Resolution struct {
	Base    string
	Harmony model.HarmonyKind
	Palette []string

	BaseFallback    bool
	HarmonyFallback bool
	ManualHarmony   bool
	PaletteFallback bool
}

// Engine resolves palettes. The zero value is not usable, use NewEngine.
type Engine struct {
	primary   Harmonizer
	secondary Harmonizer
}

// Option configures an Engine
type Option func(*Engine)

// WithHarmonizers replaces the primary and manual harmony layers
func WithHarmonizers(primary, secondary Harmonizer) Option {
	return func(e *Engine) {
		if primary != nil {
			e.primary = primary
		}
		if secondary != nil {
			e.secondary = secondary
		}
	}
}

// NewEngine creates an Engine backed by go-colorful with a manual HSL
// rotation as second layer
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		primary:   ColorfulHarmonies,
		secondary: ManualHarmonies,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve derives the final base, harmony and palette. It never panics.
func (e *Engine) Resolve(baseCandidate, harmonyCandidate string) (res Resolution) {
	defer func() {
		if r := recover(); r != nil {
			res = Resolution{
				Base:            FallbackBase,
				Harmony:         res.Harmony,
				Palette:         append([]string(nil), FallbackPalette...),
				BaseFallback:    res.BaseFallback || !strings.EqualFold(res.Base, FallbackBase),
				HarmonyFallback: res.HarmonyFallback,
				ManualHarmony:   res.ManualHarmony,
				PaletteFallback: true,
			}
			if res.Harmony == "" {
				res.Harmony = FallbackHarmony
			}
		}
	}()

	base, err := Normalize(baseCandidate)
	if err != nil {
		base = FallbackBase
		res.BaseFallback = true
	}
	res.Base = base

	kind, ok := ParseHarmony(harmonyCandidate)
	if !ok {
		kind = FallbackHarmony
		res.HarmonyFallback = true
	}
	res.Harmony = kind

	accents, err := safeHarmonize(e.primary, base, kind)
	if err != nil {
		accents, err = e.secondary(base, kind)
		res.ManualHarmony = true
		if err != nil || !validColors(accents) {
			panic(fmt.Sprintf("manual harmony failed for %s/%s: %v", base, kind, err))
		}
	}

	res.Palette = buildPalette(base, accents)
	return res
}

// safeHarmonize runs h and turns panics and invalid output into errors
func safeHarmonize(h Harmonizer, base string, kind model.HarmonyKind) (colors []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			colors, err = nil, fmt.Errorf("harmonizer panic: %v", r)
		}
	}()

	colors, err = h(base, kind)
	if err != nil {
		return nil, err
	}
	if !validColors(colors) {
		return nil, fmt.Errorf("harmonizer returned invalid colors %v", colors)
	}
	return colors, nil
}

func validColors(colors []string) bool {
	if len(colors) == 0 {
		return false
	}
	for _, c := range colors {
		if !IsValidHex(c) {
			return false
		}
	}
	return true
}

func buildPalette(base string, accents []string) []string {
	candidates := make([]string, 0, len(accents)+3)
	candidates = append(candidates, base)
	candidates = append(candidates, accents...)
	candidates = append(candidates, Lighten(base, 0.2), Darken(base, 0.2))
	if len(candidates) > maxPaletteSize {
		candidates = candidates[:maxPaletteSize]
	}

	palette := dedupe(candidates)
	if len(palette) < minPaletteSize {
		for _, extra := range []string{Lighten(base, 0.4), Darken(base, 0.4)} {
			if !contains(palette, extra) {
				palette = append(palette, extra)
			}
		}
	}
	return palette
}

func dedupe(colors []string) []string {
	seen := make(map[string]struct{}, len(colors))
	out := make([]string, 0, len(colors))
	for _, c := range colors {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func contains(colors []string, c string) bool {
	for _, existing := range colors {
		if existing == c {
			return true
		}
	}
	return false
}

// IsValidHex reports whether c is a normalized #RRGGBB color
func IsValidHex(c string) bool {
	return hexColorPattern.MatchString(c)
}

// Normalize parses #RRGGBB, RRGGBB, #RGB and RGB in any case and returns
// the uppercase #RRGGBB form
func Normalize(candidate string) (string, error) {
	s := strings.TrimSpace(candidate)
	m := shortHexPattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("%w: got %q", ErrInvalidHexFormat, candidate)
	}

	digits := strings.ToUpper(m[1])
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	return "#" + digits, nil
}

// ParseHarmony matches a harmony type case-insensitively
func ParseHarmony(candidate string) (model.HarmonyKind, bool) {
	s := strings.ToLower(strings.TrimSpace(candidate))
	for _, kind := range model.ValidHarmonies {
		if string(kind) == s {
			return kind, true
		}
	}
	return "", false
}

// ColorfulHarmonies rotates the hue of base with go-colorful
func ColorfulHarmonies(base string, kind model.HarmonyKind) ([]string, error) {
	shifts, ok := hueShifts[kind]
	if !ok {
		return nil, fmt.Errorf("unknown harmony %q", kind)
	}

	c, err := colorful.Hex(base)
	if err != nil {
		return nil, fmt.Errorf("parse base: %w", err)
	}

	h, s, l := c.Hsl()
	out := make([]string, 0, len(shifts))
	for _, shift := range shifts {
		rotated := colorful.Hsl(wrapHue(h+shift), s, l)
		if !rotated.IsValid() {
			rotated = rotated.Clamped()
		}
		out = append(out, strings.ToUpper(rotated.Hex()))
	}
	return out, nil
}

// ManualHarmonies rotates the hue of base with a hand written HSL model
func ManualHarmonies(base string, kind model.HarmonyKind) ([]string, error) {
	shifts, ok := hueShifts[kind]
	if !ok {
		shifts = hueShifts[FallbackHarmony]
	}

	h, s, l, err := hexToHSL(base)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(shifts))
	for _, shift := range shifts {
		out = append(out, hslToHex(wrapHue(h+shift), s, l))
	}
	return out, nil
}

// Lighten raises the HSL lightness of a normalized color by amount
func Lighten(base string, amount float64) string {
	return shiftLightness(base, amount)
}

// Darken lowers the HSL lightness of a normalized color by amount
func Darken(base string, amount float64) string {
	return shiftLightness(base, -amount)
}

func shiftLightness(base string, delta float64) string {
	h, s, l, err := hexToHSL(base)
	if err != nil {
		panic(err)
	}
	return hslToHex(h, s, clamp01(l+delta))
}

func wrapHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func hexToHSL(hex string) (h, s, l float64, err error) {
	if !IsValidHex(hex) {
		return 0, 0, 0, fmt.Errorf("%w: got %q", ErrInvalidHexFormat, hex)
	}

	rgb, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("parse %q: %w", hex, err)
	}

	const factor = 1.0 / 255.0
	rf := float64((rgb>>16)&0xFF) * factor
	gf := float64((rgb>>8)&0xFF) * factor
	bf := float64(rgb&0xFF) * factor
	hi := math.Max(math.Max(rf, gf), bf)
	lo := math.Min(math.Min(rf, gf), bf)
	l = (hi + lo) / 2

	if hi == lo {
		return 0, 0, l, nil
	}

	if l < 0.5 {
		s = (hi - lo) / (hi + lo)
	} else {
		s = (hi - lo) / (2.0 - hi - lo)
	}

	switch hi {
	case rf:
		h = (gf - bf) / (hi - lo)
	case gf:
		h = 2.0 + (bf-rf)/(hi-lo)
	default:
		h = 4.0 + (rf-gf)/(hi-lo)
	}
	h *= 60
	if h < 0 {
		h += 360
	}
	return h, s, l, nil
}

// hslToHex uses the same operation order as colorful.Hsl and Color.Hex so
// both harmony layers round identically.
func hslToHex(h, s, l float64) string {
	if s == 0 {
		v := toByte(l)
		return fmt.Sprintf("#%02X%02X%02X", v, v, v)
	}

	var q float64
	if l < 0.5 {
		q = l * (1.0 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hk := h / 360

	r := hueToChannel(p, q, hk+1.0/3.0)
	g := hueToChannel(p, q, hk)
	b := hueToChannel(p, q, hk-1.0/3.0)
	return fmt.Sprintf("#%02X%02X%02X", toByte(r), toByte(g), toByte(b))
}

func hueToChannel(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case 6*t < 1:
		return p + (q-p)*6*t
	case 2*t < 1:
		return q
	case 3*t < 2:
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}

func toByte(v float64) uint8 {
	return uint8(clamp01(v)*255.0 + 0.5)
}
