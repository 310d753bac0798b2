package share

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ppiankov/sharechart/internal/model"
)

// Palette assigns a color to every rank of an n-row chart
type Palette interface {
	Name() model.ChartPalette
	Assign(n int) []model.ColorAssignment
}

// namedColors are the CSS keywords accepted as highlight colors
var namedColors = map[string]string{
	"red":    "#ff0000",
	"yellow": "#ffff00",
	"orange": "#ffa500",
	"gold":   "#ffd700",
	"green":  "#008000",
	"blue":   "#0000ff",
	"purple": "#800080",
	"black":  "#000000",
	"gray":   "#808080",
	"grey":   "#808080",
}

// ParseColor accepts a CSS color keyword or a #rrggbb hex string
func ParseColor(s string) (colorful.Color, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := namedColors[key]; ok {
		key = hex
	}
	c, err := colorful.Hex(key)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

// GradientPalette gives rank 0 a highlight color and ranks 1..n-1 a single hue
// whose lightness rises linearly from Dark toward Light, reaching Light at rank n-1.
//
// The interpolation index is the rank in the full sorted list:
// lightness(i) = Dark + (Light-Dark) * i / max(1, n-1).
type GradientPalette struct {
	Highlight  string  // CSS keyword or hex
	Hue        float64 // degrees
	Saturation float64 // percent
	Dark       float64 // ramp origin; rank 1 sits one step above it
	Light      float64 // lightness percent at rank n-1

	highlight colorful.Color
}

// NewGradientPalette builds a gradient palette from configuration
func NewGradientPalette(cfg model.PaletteConfig) (*GradientPalette, error) {
	hl, err := ParseColor(cfg.Highlight)
	if err != nil {
		return nil, fmt.Errorf("highlight: %w", err)
	}
	return &GradientPalette{
		Highlight:  cfg.Highlight,
		Hue:        cfg.Hue,
		Saturation: cfg.Saturation,
		Dark:       cfg.DarkLightness,
		Light:      cfg.LightLightness,
		highlight:  hl,
	}, nil
}

// DefaultGradientPalette is red over a blue ramp (hsl 240, 70%, 50%..90%)
func DefaultGradientPalette() *GradientPalette {
	p, _ := NewGradientPalette(model.DefaultConfig().Palette)
	return p
}

// Name implements Palette
func (p *GradientPalette) Name() model.ChartPalette {
	return model.PaletteGradient
}

// Assign implements Palette
func (p *GradientPalette) Assign(n int) []model.ColorAssignment {
	colors := make([]model.ColorAssignment, 0, max(n, 0))
	if n <= 0 {
		return colors
	}

	colors = append(colors, highlightAssignment(p.Highlight, p.highlight))

	for i := 1; i < n; i++ {
		l := p.Lightness(i, n)
		c := colorful.Hsl(p.Hue, p.Saturation/100, l/100).Clamped()
		colors = append(colors, model.ColorAssignment{
			Rank:      i,
			CSS:       fmt.Sprintf("hsl(%s, %s%%, %.1f%%)", trimFloat(p.Hue), trimFloat(p.Saturation), l),
			Hex:       c.Hex(),
			Lightness: l,
		})
	}

	return colors
}

// Lightness returns the lightness percent of rank i in an n-row chart.
// Rank 0 is the highlight and has no lightness.
func (p *GradientPalette) Lightness(i, n int) float64 {
	if i <= 0 {
		return 0
	}
	ratio := float64(i) / float64(max(1, n-1))
	return p.Dark + (p.Light-p.Dark)*ratio
}

// FadePalette gives rank 0 a highlight color and fades the rest from a dark
// olive toward yellow: rgb(f, f, Blue) with f = min(Start + Step*i, 1).
type FadePalette struct {
	Highlight string
	Start     float64
	Step      float64
	Blue      float64

	highlight colorful.Color
}

// NewFadePalette builds the transit palette
func NewFadePalette(highlight string) (*FadePalette, error) {
	hl, err := ParseColor(highlight)
	if err != nil {
		return nil, fmt.Errorf("highlight: %w", err)
	}
	return &FadePalette{
		Highlight: highlight,
		Start:     0.9,
		Step:      0.01,
		Blue:      0.2,
		highlight: hl,
	}, nil
}

// Name implements Palette
func (p *FadePalette) Name() model.ChartPalette {
	return model.PaletteFade
}

// Assign implements Palette
func (p *FadePalette) Assign(n int) []model.ColorAssignment {
	colors := make([]model.ColorAssignment, 0, max(n, 0))
	if n <= 0 {
		return colors
	}

	colors = append(colors, highlightAssignment(p.Highlight, p.highlight))
	for i := 1; i < n; i++ {
		f := math.Min(p.Start+p.Step*float64(i), 1.0)
		c := colorful.Color{R: f, G: f, B: p.Blue}
		r, g, b := c.RGB255()
		colors = append(colors, model.ColorAssignment{
			Rank: i,
			CSS:  fmt.Sprintf("rgb(%d, %d, %d)", r, g, b),
			Hex:  c.Hex(),
		})
	}
	return colors
}

func highlightAssignment(name string, c colorful.Color) model.ColorAssignment {
	return model.ColorAssignment{
		Rank: 0,
		CSS:  strings.TrimSpace(name),
		Hex:  c.Hex(),
	}
}

// trimFloat prints 240 as "240" and 12.5 as "12.5"
func trimFloat(v float64) string {
	return fmt.Sprintf("%g", v)
}
