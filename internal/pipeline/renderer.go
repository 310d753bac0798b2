package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/sharechart/internal/chart"
	"github.com/ppiankov/sharechart/internal/model"
)

// Renderer writes reports as JSON, Markdown, chart images and terminal text
type Renderer struct {
	includeFooter bool
	chartOpts     chart.Options
	terminal      *chart.Terminal
}

// NewRenderer creates a renderer. A configured font is loaded eagerly so a
// bad path fails before any page is built.
func NewRenderer(includeFooter bool, cfg model.ChartConfig) (*Renderer, error) {
	opts, err := chart.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		includeFooter: includeFooter,
		chartOpts:     opts,
		terminal:      chart.NewTerminal(),
	}, nil
}

// ChartOptions returns the image options used for charts
func (r *Renderer) ChartOptions() chart.Options {
	return r.chartOpts
}

// Terminal returns the terminal summary renderer
func (r *Renderer) Terminal() *chart.Terminal {
	return r.terminal
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// RenderMarkdown writes the report as a Markdown document
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	return writeFile(path, []byte(r.Markdown(report)))
}

// RenderChart writes the chart image; the extension picks PNG or SVG
func (r *Renderer) RenderChart(report *model.Report, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return chart.WriteFile(path, report, r.chartOpts)
}

// RenderSummary draws the terminal chart and table
func (r *Renderer) RenderSummary(w io.Writer, report *model.Report) error {
	return r.terminal.Render(w, report)
}

// Markdown builds the Markdown document for a report
func (r *Renderer) Markdown(report *model.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", report.Title)
	fmt.Fprintf(&b, "- Source: `%s`\n", report.Source)
	fmt.Fprintf(&b, "- Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if t := report.Transit; t != nil {
		fmt.Fprintf(&b, "- Date: %s\n- Line: %s\n", t.Date, t.Line)
	}
	b.WriteString("\n")

	if !report.HasData() {
		b.WriteString("> Total is 0: nothing to show.\n")
		r.footer(&b)
		return b.String()
	}

	fmt.Fprintf(&b, "**Total %s: %s**\n\n", report.CountHeading, chart.FormatCount(report.Total))

	b.WriteString("## Ranking\n\n")
	b.WriteString("| Rank | " + report.CategoryHeading + " | Share | Color |\n")
	b.WriteString("|---:|---|---:|---|\n")
	for _, bar := range report.Chart {
		fmt.Fprintf(&b, "| %d | %s | %s | `%s` |\n", bar.Rank+1, escapeCell(bar.Label), bar.Annotation, bar.Color.CSS)
	}
	b.WriteString("\n")

	b.WriteString("## Detail\n\n")
	fmt.Fprintf(&b, "| %s | %s | 비율 (%%) |\n", report.CategoryHeading, report.CountHeading)
	b.WriteString("|---|---:|---:|\n")
	for _, row := range report.Table {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", escapeCell(row.Label), chart.FormatCount(row.Count), row.Share)
	}

	if t := report.Transit; t != nil && len(t.Stations) > 0 {
		b.WriteString("\n## Stations\n\n")
		b.WriteString("| 역명 | 승차총승객수 | 하차총승객수 | 총이용객수 |\n")
		b.WriteString("|---|---:|---:|---:|\n")
		for _, s := range t.Stations {
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				escapeCell(s.Station),
				chart.FormatCount(s.Boardings),
				chart.FormatCount(s.Alightings),
				chart.FormatCount(s.Total))
		}
	}

	r.footer(&b)
	return b.String()
}

func (r *Renderer) footer(b *strings.Builder) {
	if !r.includeFooter {
		return
	}
	b.WriteString("\n---\n\n")
	b.WriteString("*Generated by sharechart. Shares are count / total × 100; the chart keeps zero-count rows, the detail table does not.*\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func writeFile(path string, data []byte) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}
