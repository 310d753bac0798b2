// Package chart draws ranked share reports as bar charts: PNG and SVG images
// through go-chart, and colored bars for the terminal through lipgloss.
package chart

import (
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ppiankov/sharechart/internal/model"
)

// ErrNothingToRender is returned for reports whose total is zero
var ErrNothingToRender = errors.New("nothing to render: total count is 0")

// Format is an image output format
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// FormatFromPath picks the format from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unsupported chart extension %q (use .png or .svg)", filepath.Ext(path))
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Options controls image geometry and typeface
type Options struct {
	Width    int
	Height   int
	BarWidth int
	Font     *truetype.Font // nil uses go-chart's default font
}

// OptionsFromConfig builds options and loads the configured font, if any
func OptionsFromConfig(cfg model.ChartConfig) (Options, error) {
	opts := Options{
		Width:    cfg.Width,
		Height:   cfg.Height,
		BarWidth: cfg.BarWidth,
	}
	if cfg.FontPath != "" {
		font, err := LoadFont(cfg.FontPath)
		if err != nil {
			return opts, err
		}
		opts.Font = font
	}
	return opts, nil
}

// LoadFont parses a TrueType font file
func LoadFont(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return font, nil
}

const (
	barSpacing  = 20
	sidePadding = 160
)

// Write renders the chart bars of report to w
func Write(w io.Writer, report *model.Report, format Format, opts Options) error {
	if !report.HasData() {
		return ErrNothingToRender
	}

	// go-chart writes SVG text nodes verbatim
	text := func(s string) string { return s }
	if format == FormatSVG {
		text = html.EscapeString
	}

	bars := make([]gochart.Value, len(report.Chart))
	for i, b := range report.Chart {
		fill := toDrawing(b.Color.Hex)
		bars[i] = gochart.Value{
			Value: b.Percentage,
			Label: text(fmt.Sprintf("%s (%s)", b.Label, b.Annotation)),
			Style: gochart.Style{
				FillColor:   fill,
				StrokeColor: fill,
				StrokeWidth: 1,
			},
		}
	}

	barWidth := opts.BarWidth
	if barWidth <= 0 {
		barWidth = 60
	}
	width := max(opts.Width, len(bars)*(barWidth+barSpacing)+sidePadding)
	height := opts.Height
	if height <= 0 {
		height = 512
	}

	yMax := report.YMax
	if yMax <= 0 {
		yMax = 100
	}

	graph := gochart.BarChart{
		Title:      text(report.Title),
		Font:       opts.Font,
		Width:      width,
		Height:     height,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: yMax},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f%%", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var rp gochart.RendererProvider = gochart.PNG
	if format == FormatSVG {
		rp = gochart.SVG
	}
	if err := graph.Render(rp, w); err != nil {
		return fmt.Errorf("render %s chart: %w", format, err)
	}
	return nil
}

// WriteFile renders report to path, picking the format from the extension
func WriteFile(path string, report *model.Report, opts Options) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close chart file: %w", closeErr)
		}
	}()

	return Write(f, report, format, opts)
}

func toDrawing(hex string) drawing.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return gochart.ColorBlue
	}
	r, g, b := c.RGB255()
	return drawing.Color{R: r, G: g, B: b, A: 255}
}
