package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ppiankov/sharechart/internal/cache"
	"github.com/ppiankov/sharechart/internal/ingest"
	"github.com/ppiankov/sharechart/internal/model"
	"github.com/ppiankov/sharechart/internal/share"
	"github.com/ppiankov/sharechart/internal/transit"
)

// Pipeline turns configured pages into reports: load → count → rank → color
type Pipeline struct {
	loader   *ingest.Loader
	gradient share.Palette
	fade     share.Palette
	renderer *Renderer
	config   *model.Config
	logger   *slog.Logger
	now      func() time.Time
}

// NewPipeline creates a pipeline with the given configuration
func NewPipeline(cfg *model.Config, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var store cache.Cache = cache.Nop{}
	if cfg.Cache.Enabled {
		store = cache.NewMemoryCache()
	}

	gradient, err := share.NewGradientPalette(cfg.Palette)
	if err != nil {
		return nil, fmt.Errorf("palette: %w", err)
	}
	fade, err := share.NewFadePalette(cfg.Palette.TransitHighlight)
	if err != nil {
		return nil, fmt.Errorf("transit palette: %w", err)
	}

	renderer, err := NewRenderer(cfg.Output.IncludeFooter, cfg.Chart)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}

	return &Pipeline{
		loader:   ingest.NewLoader(store, logger),
		gradient: gradient,
		fade:     fade,
		renderer: renderer,
		config:   cfg,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Config returns the configuration the pipeline was built with
func (p *Pipeline) Config() *model.Config {
	return p.config
}

// Renderer returns the pipeline's renderer
func (p *Pipeline) Renderer() *Renderer {
	return p.renderer
}

// BuildPage loads a page's source and computes its report. An all-zero
// source yields a report with Empty set, not an error.
func (p *Pipeline) BuildPage(ctx context.Context, page model.PageConfig) (*model.Report, error) {
	enc, err := ingest.ParseEncoding(page.Encoding)
	if err != nil {
		return nil, err
	}

	// 1. Load and decode
	table, err := p.loader.Load(ctx, page.Source, enc)
	if err != nil {
		return nil, err
	}

	// 2. Extract counts
	counts, err := ingest.Counts(table, page.CategoryColumns, page.CountColumns)
	if err != nil {
		return nil, err
	}

	// 3. Rank and color
	report := p.newReport(page.Name, page.Title, page.Source, counts, p.gradient)
	report.CategoryHeading = headingOr(page.CategoryHeading, page.CategoryColumns)
	report.CountHeading = headingOr(page.CountHeading, page.CountColumns)

	p.logger.Debug("built page", "page", page.Name, "rows", len(counts), "total", report.Total)
	return report, nil
}

// TransitQuery selects the ridership to rank
type TransitQuery struct {
	Date  string // YYYY-MM-DD, empty for the first available
	Line  string // empty for the first available
	Month string // YYYY-MM filter; empty keeps every month
}

// TransitDataset loads the ridership source and applies the month filter
func (p *Pipeline) TransitDataset(ctx context.Context, month string) (*transit.Dataset, error) {
	cfg := p.config.Transit
	enc, err := ingest.ParseEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}

	table, err := p.loader.Load(ctx, cfg.Source, enc)
	if err != nil {
		return nil, err
	}

	records, err := transit.Records(table, transit.ColumnsFromConfig(cfg))
	if err != nil {
		return nil, err
	}

	return transit.NewDataset(records).InMonth(month)
}

// BuildTransit ranks stations for one date and line
func (p *Pipeline) BuildTransit(ctx context.Context, q TransitQuery) (*model.Report, error) {
	dataset, err := p.TransitDataset(ctx, q.Month)
	if err != nil {
		return nil, err
	}

	sel, err := dataset.Select(q.Date, q.Line)
	if err != nil {
		return nil, err
	}

	stations, counts := transit.Rank(sel.Records)

	title := p.config.Transit.Title
	if sel.Date != "" {
		title = fmt.Sprintf("%s | %s %s", title, sel.Date, sel.Line)
	}

	report := p.newReport("transit", title, p.config.Transit.Source, counts, p.fade)
	report.CategoryHeading = "역명"
	report.CountHeading = "총이용객수"
	report.Transit = &model.TransitDetail{
		Date:     sel.Date,
		Line:     sel.Line,
		Month:    q.Month,
		Dates:    dataset.Dates(),
		Lines:    dataset.Lines(),
		Stations: stations,
	}

	p.logger.Debug("built transit", "date", sel.Date, "line", sel.Line, "stations", len(stations))
	return report, nil
}

func (p *Pipeline) newReport(name, title, source string, counts []model.CategoryCount, palette share.Palette) *model.Report {
	b := share.Build(counts, palette, p.config.Chart.Headroom)
	return &model.Report{
		Page:        name,
		Title:       title,
		Source:      source,
		GeneratedAt: p.now(),
		Total:       b.Total,
		Empty:       b.Empty(),
		Chart:       b.Chart,
		Table:       b.Table,
		YMax:        b.YMax,
		Theme:       palette.Name(),
	}
}

func headingOr(heading string, columns []string) string {
	if heading != "" {
		return heading
	}
	if len(columns) > 0 {
		return columns[0]
	}
	return ""
}

// Outputs lists where RenderReport writes; empty paths are skipped
type Outputs struct {
	JSON     string
	Markdown string
	Chart    string    // .png or .svg
	Terminal io.Writer // nil skips the terminal summary
}

// RenderReport renders the report to the specified outputs
func (p *Pipeline) RenderReport(report *model.Report, out Outputs) error {
	// Render JSON
	if out.JSON != "" {
		if err := p.renderer.RenderJSON(report, out.JSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		p.logger.Info("wrote JSON", "path", out.JSON)
	}

	// Render Markdown
	if out.Markdown != "" {
		if err := p.renderer.RenderMarkdown(report, out.Markdown); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		p.logger.Info("wrote Markdown", "path", out.Markdown)
	}

	// Render chart image; an empty report has no bars to draw
	if out.Chart != "" {
		if report.HasData() {
			if err := p.renderer.RenderChart(report, out.Chart); err != nil {
				return fmt.Errorf("render chart: %w", err)
			}
			p.logger.Info("wrote chart", "path", out.Chart)
		} else {
			p.logger.Warn("skipped chart: total is 0", "page", report.Page)
		}
	}

	// Print summary to the terminal
	if out.Terminal != nil {
		if err := p.renderer.RenderSummary(out.Terminal, report); err != nil {
			return fmt.Errorf("render summary: %w", err)
		}
	}

	return nil
}
