// Package fonts holds the static font catalog and filters it by vibe.
package fonts

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// ErrNoFontsForVibe is returned when a vibe has no eligible fonts
var ErrNoFontsForVibe = errors.New("no fonts found for vibe")

// Font is a single catalog entry
type Font struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

type catalogFile struct {
	Fonts []Font `yaml:"fonts"`
}

// Catalog is an immutable, ordered list of fonts
type Catalog struct {
	fonts []Font
}

// Default returns the catalog embedded in the binary
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or the embedded default when path is empty
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse font catalog: %w", err)
	}

	fonts := make([]Font, 0, len(file.Fonts))
	for i, f := range file.Fonts {
		f.Name = strings.TrimSpace(f.Name)
		f.Category = strings.TrimSpace(f.Category)
		if f.Name == "" || f.Category == "" {
			return nil, fmt.Errorf("font catalog entry %d: name and category are required", i)
		}
		fonts = append(fonts, f)
	}
	return &Catalog{fonts: fonts}, nil
}

// ForVibe returns the names of fonts whose category equals vibe, in
// catalog order
func (c *Catalog) ForVibe(vibe string) ([]string, error) {
	var names []string
	for _, f := range c.fonts {
		if f.Category == vibe {
			names = append(names, f.Name)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFontsForVibe, vibe)
	}
	return names, nil
}

// Match returns the spelling in allowed that equals name case-insensitively
func Match(allowed []string, name string) (string, bool) {
	name = strings.TrimSpace(name)
	for _, f := range allowed {
		if strings.EqualFold(f, name) {
			return f, true
		}
	}
	return "", false
}

// Vibes returns the distinct categories in first-seen order
func (c *Catalog) Vibes() []string {
	seen := make(map[string]bool)
	var vibes []string
	for _, f := range c.fonts {
		if !seen[f.Category] {
			seen[f.Category] = true
			vibes = append(vibes, f.Category)
		}
	}
	return vibes
}

// Len returns the number of fonts in the catalog
func (c *Catalog) Len() int {
	return len(c.fonts)
}
