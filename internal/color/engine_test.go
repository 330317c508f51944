package color

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/brandkit/api/internal/model"
)

func assertPaletteInvariants(t *testing.T, res Resolution) {
	t.Helper()

	if len(res.Palette) < 1 || len(res.Palette) > 5 {
		t.Fatalf("palette length = %d, want 1..5 (%v)", len(res.Palette), res.Palette)
	}
	if res.Palette[0] != res.Base {
		t.Errorf("palette[0] = %s, want base %s", res.Palette[0], res.Base)
	}
	seen := map[string]bool{}
	for _, c := range res.Palette {
		if !IsValidHex(c) {
			t.Errorf("palette entry %q is not #RRGGBB", c)
		}
		if seen[c] {
			t.Errorf("palette entry %q is duplicated in %v", c, res.Palette)
		}
		seen[c] = true
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "full with hash", input: "#3b82f6", want: "#3B82F6"},
		{name: "full without hash", input: "3B82F6", want: "#3B82F6"},
		{name: "short with hash", input: "#abc", want: "#AABBCC"},
		{name: "short without hash", input: "fff", want: "#FFFFFF"},
		{name: "surrounding spaces", input: "  #10b981 ", want: "#10B981"},
		{name: "empty", input: "", wantErr: true},
		{name: "word", input: "not-a-color", wantErr: true},
		{name: "css name", input: "blue", wantErr: true},
		{name: "too long", input: "#3B82F6AA", wantErr: true},
		{name: "bad digit", input: "#GG0000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidHexFormat) {
					t.Fatalf("Normalize(%q) error = %v, want ErrInvalidHexFormat", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseHarmony(t *testing.T) {
	tests := []struct {
		input  string
		want   model.HarmonyKind
		wantOK bool
	}{
		{"analogous", model.HarmonyAnalogous, true},
		{"Triadic", model.HarmonyTriadic, true},
		{" split-complementary ", model.HarmonySplitComplementary, true},
		{"COMPLEMENTARY", model.HarmonyComplementary, true},
		{"monochrome", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseHarmony(tt.input)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseHarmony(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestResolve_ValidInputs(t *testing.T) {
	engine := NewEngine()
	bases := []string{"#3B82F6", "#ffffff", "#000000", "#FF0000", "#808080", "abc", "10B981", "#F59E0B"}

	for _, base := range bases {
		for _, kind := range model.ValidHarmonies {
			t.Run(base+"/"+string(kind), func(t *testing.T) {
				res := engine.Resolve(base, string(kind))
				assertPaletteInvariants(t, res)

				want, _ := Normalize(base)
				if res.Base != want {
					t.Errorf("Base = %s, want %s", res.Base, want)
				}
				if res.Harmony != kind {
					t.Errorf("Harmony = %s, want %s", res.Harmony, kind)
				}
				if res.BaseFallback || res.HarmonyFallback || res.PaletteFallback {
					t.Errorf("unexpected fallback flags: %+v", res)
				}
			})
		}
	}
}

func TestResolve_ComplementaryBlue(t *testing.T) {
	res := NewEngine().Resolve("#3B82F6", "complementary")

	assertPaletteInvariants(t, res)
	if res.Base != "#3B82F6" {
		t.Errorf("Base = %s, want #3B82F6", res.Base)
	}
	if len(res.Palette) < 3 {
		t.Errorf("palette length = %d, want >= 3", len(res.Palette))
	}
	if res.Harmony != model.HarmonyComplementary {
		t.Errorf("Harmony = %s, want complementary", res.Harmony)
	}
}

func TestResolve_MalformedBase(t *testing.T) {
	engine := NewEngine()

	for _, input := range []string{"", "not-a-color", "#12", "rgb(1,2,3)", "#ZZZZZZ", "\x00\xff"} {
		t.Run(input, func(t *testing.T) {
			res := engine.Resolve(input, "triadic")
			assertPaletteInvariants(t, res)
			if res.Base != FallbackBase {
				t.Errorf("Base = %s, want fallback %s", res.Base, FallbackBase)
			}
			if !res.BaseFallback {
				t.Error("expected BaseFallback to be set")
			}
		})
	}
}

func TestResolve_UnknownHarmonyActsAsComplementary(t *testing.T) {
	engine := NewEngine()

	for _, input := range []string{"", "monochrome", "tetradic", "complementary!"} {
		t.Run(input, func(t *testing.T) {
			got := engine.Resolve("#10B981", input)
			want := engine.Resolve("#10B981", "complementary")

			if got.Harmony != model.HarmonyComplementary {
				t.Errorf("Harmony = %s, want complementary", got.Harmony)
			}
			if !got.HarmonyFallback {
				t.Error("expected HarmonyFallback to be set")
			}
			if diff := cmp.Diff(want.Palette, got.Palette); diff != "" {
				t.Errorf("palette mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	engine := NewEngine()

	for _, kind := range model.ValidHarmonies {
		first := engine.Resolve("#8B5CF6", string(kind))
		second := engine.Resolve("#8B5CF6", string(kind))
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("%s: resolve is not deterministic (-first +second):\n%s", kind, diff)
		}
	}
}

func TestResolve_ExtendsShortPalettes(t *testing.T) {
	tests := []struct {
		base string
		want []string
	}{
		{base: "#FFFFFF", want: []string{"#FFFFFF", "#CCCCCC", "#999999"}},
		{base: "#000000", want: []string{"#000000", "#333333", "#666666"}},
	}

	engine := NewEngine(WithHarmonizers(ManualHarmonies, nil))
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			res := engine.Resolve(tt.base, "complementary")
			if diff := cmp.Diff(tt.want, res.Palette); diff != "" {
				t.Errorf("palette mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_ManualLayerOnPrimaryError(t *testing.T) {
	failing := func(string, model.HarmonyKind) ([]string, error) {
		return nil, errors.New("boom")
	}
	res := NewEngine(WithHarmonizers(failing, nil)).Resolve("#3B82F6", "complementary")

	if !res.ManualHarmony {
		t.Error("expected ManualHarmony to be set")
	}
	want := []string{"#3B82F6", "#F6AF3B", "#9DC0FA", "#094FC2"}
	if diff := cmp.Diff(want, res.Palette); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_ManualLayerOnPrimaryPanicOrGarbage(t *testing.T) {
	primaries := map[string]Harmonizer{
		"panic": func(string, model.HarmonyKind) ([]string, error) {
			panic("library bug")
		},
		"empty": func(string, model.HarmonyKind) ([]string, error) {
			return nil, nil
		},
		"invalid": func(string, model.HarmonyKind) ([]string, error) {
			return []string{"#12345"}, nil
		},
	}

	for name, primary := range primaries {
		t.Run(name, func(t *testing.T) {
			res := NewEngine(WithHarmonizers(primary, nil)).Resolve("#FF0000", "triadic")
			assertPaletteInvariants(t, res)
			if !res.ManualHarmony {
				t.Error("expected ManualHarmony to be set")
			}
			want := []string{"#FF0000", "#00FF00", "#0000FF", "#FF6666", "#990000"}
			if diff := cmp.Diff(want, res.Palette); diff != "" {
				t.Errorf("palette mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolve_ConstantPaletteWhenAllLayersFail(t *testing.T) {
	broken := func(string, model.HarmonyKind) ([]string, error) {
		panic("broken")
	}
	res := NewEngine(WithHarmonizers(broken, broken)).Resolve("#10B981", "analogous")

	if !res.PaletteFallback {
		t.Error("expected PaletteFallback to be set")
	}
	if res.Base != FallbackBase {
		t.Errorf("Base = %s, want %s", res.Base, FallbackBase)
	}
	if diff := cmp.Diff(FallbackPalette, res.Palette); diff != "" {
		t.Errorf("palette mismatch (-want +got):\n%s", diff)
	}
	assertPaletteInvariants(t, res)
}

func TestManualHarmonies(t *testing.T) {
	tests := []struct {
		base string
		kind model.HarmonyKind
		want []string
	}{
		{"#3B82F6", model.HarmonyComplementary, []string{"#F6AF3B"}},
		{"#FF0000", model.HarmonyTriadic, []string{"#00FF00", "#0000FF"}},
		{"#808080", model.HarmonyAnalogous, []string{"#808080", "#808080"}},
	}

	for _, tt := range tests {
		got, err := ManualHarmonies(tt.base, tt.kind)
		if err != nil {
			t.Fatalf("ManualHarmonies(%s, %s) error: %v", tt.base, tt.kind, err)
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ManualHarmonies(%s, %s) mismatch (-want +got):\n%s", tt.base, tt.kind, diff)
		}
	}
}

func TestLightenDarkenClamp(t *testing.T) {
	if got := Lighten("#FFFFFF", 0.4); got != "#FFFFFF" {
		t.Errorf("Lighten(white) = %s, want #FFFFFF", got)
	}
	if got := Darken("#000000", 0.4); got != "#000000" {
		t.Errorf("Darken(black) = %s, want #000000", got)
	}
	if got := Lighten("#3B82F6", 0.2); got != "#9DC0FA" {
		t.Errorf("Lighten(#3B82F6, 0.2) = %s, want #9DC0FA", got)
	}
}

func TestHarmonyLayersAgree(t *testing.T) {
	check := func(base string, kind model.HarmonyKind) {
		t.Helper()
		primary, err := ColorfulHarmonies(base, kind)
		if err != nil {
			t.Fatalf("ColorfulHarmonies(%s, %s) error: %v", base, kind, err)
		}
		manual, err := ManualHarmonies(base, kind)
		if err != nil {
			t.Fatalf("ManualHarmonies(%s, %s) error: %v", base, kind, err)
		}
		if diff := cmp.Diff(primary, manual); diff != "" {
			t.Errorf("layers disagree for %s/%s (-colorful +manual):\n%s", base, kind, diff)
		}
	}

	check("#658221", model.HarmonyAnalogous)
	for r := 0; r < 256; r += 15 {
		for g := 0; g < 256; g += 15 {
			for b := 0; b < 256; b += 15 {
				base := fmt.Sprintf("#%02X%02X%02X", r, g, b)
				for _, kind := range model.ValidHarmonies {
					check(base, kind)
				}
			}
		}
	}
}
