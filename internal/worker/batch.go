package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/sharechart/internal/model"
	"github.com/ppiankov/sharechart/internal/pipeline"
)

// Builder defines what a batch needs from the pipeline
type Builder interface {
	BuildPage(ctx context.Context, page model.PageConfig) (*model.Report, error)
	BuildTransit(ctx context.Context, q pipeline.TransitQuery) (*model.Report, error)
	RenderReport(report *model.Report, out pipeline.Outputs) error
}

// Target is one report to build: a configured page or a transit selection
type Target struct {
	Name    string
	Page    *model.PageConfig
	Transit *pipeline.TransitQuery
}

// PageTargets wraps configured pages as targets named after their slugs
func PageTargets(pages []model.PageConfig) []Target {
	targets := make([]Target, len(pages))
	for i := range pages {
		page := pages[i]
		targets[i] = Target{Name: slug(page.Name), Page: &page}
	}
	return targets
}

// TransitTargets returns one target per date and line pair
func TransitTargets(dates, lines []string, month string) []Target {
	targets := make([]Target, 0, len(dates)*len(lines))
	for _, date := range dates {
		for _, line := range lines {
			targets = append(targets, Target{
				Name:    slug("transit-" + date + "-" + line),
				Transit: &pipeline.TransitQuery{Date: date, Line: line, Month: month},
			})
		}
	}
	return targets
}

// BuildJob builds and renders one target
type BuildJob struct {
	Target  Target
	Builder Builder
	OutDir  string
	Chart   string // chart extension, ".png" or ".svg"
}

// Execute executes the build job
func (j *BuildJob) Execute(ctx context.Context) Result {
	res := &BuildResult{Name: j.Target.Name}

	var err error
	switch {
	case j.Target.Page != nil:
		res.Report, err = j.Builder.BuildPage(ctx, *j.Target.Page)
	case j.Target.Transit != nil:
		res.Report, err = j.Builder.BuildTransit(ctx, *j.Target.Transit)
	default:
		err = fmt.Errorf("target %q has nothing to build", j.Target.Name)
	}
	if err != nil {
		res.Error = err
		return res
	}

	base := filepath.Join(j.OutDir, j.Target.Name)
	res.Outputs = pipeline.Outputs{
		JSON:     base + ".json",
		Markdown: base + ".md",
		Chart:    base + j.Chart,
	}
	if !res.Report.HasData() {
		res.Outputs.Chart = ""
	}
	if err := j.Builder.RenderReport(res.Report, res.Outputs); err != nil {
		res.Error = err
	}
	return res
}

// BuildResult represents the result of a build job
type BuildResult struct {
	Name    string
	Report  *model.Report
	Outputs pipeline.Outputs
	Error   error
}

// GetError returns the error from the build result
func (r *BuildResult) GetError() error {
	return r.Error
}

// BatchProcessor builds many targets concurrently
type BatchProcessor struct {
	builder     Builder
	concurrency int
	outDir      string
	chartExt    string
}

// NewBatchProcessor creates a new batch processor. chartExt defaults to .png.
func NewBatchProcessor(builder Builder, concurrency int, outDir, chartExt string) *BatchProcessor {
	if chartExt == "" {
		chartExt = ".png"
	}
	if !strings.HasPrefix(chartExt, ".") {
		chartExt = "." + chartExt
	}
	return &BatchProcessor{
		builder:     builder,
		concurrency: concurrency,
		outDir:      outDir,
		chartExt:    chartExt,
	}
}

// Process builds every target. Results follow target order and one failure
// does not stop the rest.
func (b *BatchProcessor) Process(ctx context.Context, targets []Target) []*BuildResult {
	jobs := make([]Job, len(targets))
	for i, t := range targets {
		jobs[i] = &BuildJob{Target: t, Builder: b.builder, OutDir: b.outDir, Chart: b.chartExt}
	}

	results := Run(ctx, b.concurrency, jobs)

	built := make([]*BuildResult, len(results))
	for i, result := range results {
		built[i] = result.(*BuildResult)
	}
	return built
}

// SelectPages returns the configured pages named in names, in that order
func SelectPages(cfg *model.Config, names []string) ([]model.PageConfig, error) {
	if len(names) == 0 {
		return cfg.Pages, nil
	}

	pages := make([]model.PageConfig, 0, len(names))
	for _, name := range names {
		page, ok := cfg.Page(name)
		if !ok {
			return nil, fmt.Errorf("unknown page %q", name)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// ReadPageNames reads page names from a file (one per line)
func ReadPageNames(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var names []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			names = append(names, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return names, nil
}

func slug(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, s)
}
