package render

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

// Theme is a dashboard palette.
type Theme struct {
	Name       string
	Background string
	Surface    string
	Text       string
	Muted      string
	Accent     string
	Bar        string

	positive [3]int
	negative [3]int
}

// Theme names.
const (
	ThemeBlue     = "blue"
	ThemeContrast = "contrast"
)

var themes = map[string]Theme{
	ThemeBlue: {
		Name:       ThemeBlue,
		Background: "#f4f7fb",
		Surface:    "#ffffff",
		Text:       "#1b2a41",
		Muted:      "#5c6b80",
		Accent:     "#1f6fb2",
		Bar:        "#3b8bd4",
		positive:   [3]int{31, 111, 178},
		negative:   [3]int{214, 96, 77},
	},
	ThemeContrast: {
		Name:       ThemeContrast,
		Background: "#000000",
		Surface:    "#111111",
		Text:       "#ffffff",
		Muted:      "#cccccc",
		Accent:     "#ffd400",
		Bar:        "#ffd400",
		positive:   [3]int{255, 212, 0},
		negative:   [3]int{0, 200, 255},
	},
}

// ParseTheme returns the named theme. Unknown or empty names get blue.
func ParseTheme(name string) Theme {
	if t, ok := themes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return themes[ThemeBlue]
}

// ThemeNames lists the available palettes.
func ThemeNames() []string {
	return []string{ThemeBlue, ThemeContrast}
}

// Stylesheet exposes the palette as CSS custom properties.
func (t Theme) Stylesheet() template.CSS {
	return template.CSS(fmt.Sprintf(
		":root{--bg:%s;--surface:%s;--text:%s;--muted:%s;--accent:%s;--bar:%s}",
		t.Background, t.Surface, t.Text, t.Muted, t.Accent, t.Bar,
	))
}

// heat returns the cell colour for a coefficient in [-1, 1].
func (t Theme) heat(v float64) template.CSS {
	rgb := t.positive
	if v < 0 {
		rgb = t.negative
	}
	alpha := math.Min(math.Abs(v), 1)
	return template.CSS(fmt.Sprintf("rgba(%d, %d, %d, %.2f)", rgb[0], rgb[1], rgb[2], alpha))
}
