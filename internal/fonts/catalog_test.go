package fonts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testCatalog = `
fonts:
  - name: Inter
    category: tame
  - name: Bungee
    category: wild
  - name: Lora
    category: tame
`

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}

	if diff := cmp.Diff([]string{"tame", "wild"}, c.Vibes()); diff != "" {
		t.Errorf("Vibes() mismatch (-want +got):\n%s", diff)
	}
	for _, vibe := range c.Vibes() {
		fonts, err := c.ForVibe(vibe)
		if err != nil || len(fonts) == 0 {
			t.Errorf("ForVibe(%q) = %v, %v; want non-empty", vibe, fonts, err)
		}
	}
}

func TestForVibe_PreservesOrder(t *testing.T) {
	c, err := Parse([]byte(testCatalog))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	got, err := c.ForVibe("tame")
	if err != nil {
		t.Fatalf("ForVibe() error: %v", err)
	}
	if diff := cmp.Diff([]string{"Inter", "Lora"}, got); diff != "" {
		t.Errorf("ForVibe(tame) mismatch (-want +got):\n%s", diff)
	}
}

func TestForVibe_NoFonts(t *testing.T) {
	c, _ := Parse([]byte(testCatalog))

	for _, vibe := range []string{"nonexistent-vibe", "", "Tame"} {
		_, err := c.ForVibe(vibe)
		if !errors.Is(err, ErrNoFontsForVibe) {
			t.Errorf("ForVibe(%q) error = %v, want ErrNoFontsForVibe", vibe, err)
		}
	}
}

func TestMatch(t *testing.T) {
	c, _ := Parse([]byte(testCatalog))
	tame, err := c.ForVibe("tame")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"inter", "Inter", true},
		{" LORA ", "Lora", true},
		{"Bungee", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := Match(tame, tt.name)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Match(tame, %q) = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":     "fonts: [",
		"missing name": "fonts:\n  - category: tame\n",
		"missing vibe": "fonts:\n  - name: Inter\n",
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fonts.yaml")
	if err := os.WriteFile(path, []byte(testCatalog), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	def, err := Load("")
	if err != nil || def.Len() == 0 {
		t.Errorf("Load(\"\") = %v, %v; want embedded catalog", def, err)
	}
}
