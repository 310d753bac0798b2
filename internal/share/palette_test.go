package share

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/sharechart/internal/model"
)

func TestGradientPalette_Sizes(t *testing.T) {
	p := DefaultGradientPalette()

	assert.Empty(t, p.Assign(0))
	assert.Empty(t, p.Assign(-3))

	one := p.Assign(1)
	require.Len(t, one, 1)
	assert.Equal(t, "red", one[0].CSS)
	assert.Equal(t, "#ff0000", one[0].Hex)
}

func TestGradientPalette_HighlightAlwaysRankZero(t *testing.T) {
	p := DefaultGradientPalette()
	for n := 1; n <= 12; n++ {
		colors := p.Assign(n)
		require.Len(t, colors, n)
		assert.Equal(t, "red", colors[0].CSS)
		assert.Equal(t, 0, colors[0].Rank)
	}
}

func TestGradientPalette_LightnessFiveRows(t *testing.T) {
	colors := DefaultGradientPalette().Assign(5)

	want := []float64{60, 70, 80, 90}
	for i, l := range want {
		assert.InDelta(t, l, colors[i+1].Lightness, 1e-9, "rank %d", i+1)
		assert.Equal(t, i+1, colors[i+1].Rank)
	}
}

func TestGradientPalette_ThreeRows(t *testing.T) {
	colors := DefaultGradientPalette().Assign(3)

	require.Len(t, colors, 3)
	assert.Equal(t, "hsl(240, 70%, 70.0%)", colors[1].CSS)
	assert.Equal(t, "hsl(240, 70%, 90.0%)", colors[2].CSS)
}

func TestGradientPalette_TwoRowsReachLightBound(t *testing.T) {
	colors := DefaultGradientPalette().Assign(2)
	assert.InDelta(t, 90.0, colors[1].Lightness, 1e-9)
}

func TestGradientPalette_HexIsBlue(t *testing.T) {
	colors := DefaultGradientPalette().Assign(4)
	for _, c := range colors[1:] {
		col, err := ParseColor(c.Hex)
		require.NoError(t, err)
		h, _, _ := col.Hsl()
		assert.InDelta(t, 240.0, h, 1.0, "hue drift for %s", c.Hex)
	}
}

func TestGradientPalette_Configured(t *testing.T) {
	cfg := model.DefaultConfig().Palette
	cfg.Highlight = "#00ff00"
	cfg.DarkLightness = 20
	cfg.LightLightness = 40

	p, err := NewGradientPalette(cfg)
	require.NoError(t, err)

	colors := p.Assign(3)
	assert.Equal(t, "#00ff00", colors[0].Hex)
	assert.InDelta(t, 30.0, colors[1].Lightness, 1e-9)
	assert.InDelta(t, 40.0, colors[2].Lightness, 1e-9)
}

func TestGradientPalette_InvalidHighlight(t *testing.T) {
	cfg := model.DefaultConfig().Palette
	cfg.Highlight = "not-a-color"

	_, err := NewGradientPalette(cfg)
	assert.Error(t, err)
}

func TestFadePalette(t *testing.T) {
	p, err := NewFadePalette("yellow")
	require.NoError(t, err)
	assert.Equal(t, model.PaletteFade, p.Name())

	colors := p.Assign(60)
	require.Len(t, colors, 60)

	assert.Equal(t, "yellow", colors[0].CSS)
	assert.Equal(t, "#ffff00", colors[0].Hex)
	assert.Equal(t, "rgb(232, 232, 51)", colors[1].CSS)
	assert.Equal(t, "rgb(255, 255, 51)", colors[50].CSS)
	assert.Equal(t, "rgb(255, 255, 51)", colors[59].CSS)
	assert.Empty(t, p.Assign(0))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"red", "#ff0000", false},
		{" Yellow ", "#ffff00", false},
		{"#336699", "#336699", false},
		{"nope", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, c.Hex())
		})
	}
}
