package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ppiankov/sharechart/internal/model"
	"github.com/ppiankov/sharechart/internal/pipeline"
)

// outputFlags are the render targets shared by share, page and transit
type outputFlags struct {
	json    string
	md      string
	chart   string
	quiet   bool
	timeout time.Duration
}

func (o *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.json, "json", "", "output JSON path (optional)")
	cmd.Flags().StringVar(&o.md, "md", "", "output Markdown path (optional)")
	cmd.Flags().StringVar(&o.chart, "chart", "", "output chart path, .png or .svg (optional)")
	cmd.Flags().BoolVarP(&o.quiet, "quiet", "q", false, "do not print the terminal summary")
	cmd.Flags().DurationVar(&o.timeout, "timeout", time.Minute, "overall timeout")
}

// outputs returns the render targets; a terminal writer also sizes the bars
func (o *outputFlags) outputs(w io.Writer, r *pipeline.Renderer) pipeline.Outputs {
	out := pipeline.Outputs{JSON: o.json, Markdown: o.md, Chart: o.chart}
	if o.quiet {
		return out
	}
	out.Terminal = w
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil {
			r.Terminal().FitWidth(cols)
		}
	}
	return out
}

var (
	shareOut      outputFlags
	shareCategory []string
	shareCount    []string
	shareTitle    string
	shareEncoding string
)

// shareCmd builds a report from an arbitrary CSV
var shareCmd = &cobra.Command{
	Use:   "share <csv>",
	Short: "Rank category shares of a CSV file",
	Long: `Share groups the count column by the category column, computes each
category's percentage of the grand total and ranks them.

Unparseable or negative counts count as 0. Categories with a zero count keep
their bar in the chart but are left out of the detail table.

Example:
  sharechart share cm.csv
  sharechart share cm.csv --category 구분 --count 검사인원 --chart height.png
  sharechart share data.csv --category region --count sales --json out.json --md out.md`,
	Args: cobra.ExactArgs(1),
	RunE: runShare,
}

var pageOut outputFlags

// pageCmd builds a configured page
var pageCmd = &cobra.Command{
	Use:   "page <name>",
	Short: "Build a page defined in the configuration",
	Long: `Page builds one of the pages listed under "pages" in the configuration,
using its source, column aliases and headings.

Example:
  sharechart page height
  sharechart page height --chart height.svg --md height.md`,
	Args: cobra.ExactArgs(1),
	RunE: runPage,
}

func init() {
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(pageCmd)

	shareOut.register(shareCmd)
	shareCmd.Flags().StringSliceVar(&shareCategory, "category", []string{"구분"}, "category column name (aliases comma separated)")
	shareCmd.Flags().StringSliceVar(&shareCount, "count", []string{"검사인원"}, "count column name (aliases comma separated)")
	shareCmd.Flags().StringVar(&shareTitle, "title", "", "report title (default: file name)")
	shareCmd.Flags().StringVar(&shareEncoding, "encoding", "auto", "source encoding: auto, utf-8, cp949")

	pageOut.register(pageCmd)
}

func runShare(cmd *cobra.Command, args []string) error {
	source := args[0]
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))

	page := model.PageConfig{
		Name:            name,
		Title:           shareTitle,
		Source:          source,
		Encoding:        shareEncoding,
		CategoryColumns: shareCategory,
		CountColumns:    shareCount,
	}
	if page.Title == "" {
		page.Title = name
	}

	return buildAndRender(cmd, page, &shareOut)
}

func runPage(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	page, ok := cfg.Page(args[0])
	if !ok {
		return fmt.Errorf("unknown page %q (configured: %s)", args[0], strings.Join(pageNames(cfg), ", "))
	}

	return buildAndRender(cmd, page, &pageOut)
}

func buildAndRender(cmd *cobra.Command, page model.PageConfig, out *outputFlags) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), out.timeout)
	defer cancel()

	_, logger, p, err := setup()
	if err != nil {
		return err
	}

	logger.Debug("building page", "page", page.Name, "source", page.Source)

	report, err := p.BuildPage(ctx, page)
	if err != nil {
		return fmt.Errorf("build %s: %w", page.Name, err)
	}

	if err := p.RenderReport(report, out.outputs(cmd.OutOrStdout(), p.Renderer())); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

func pageNames(cfg *model.Config) []string {
	names := make([]string, len(cfg.Pages))
	for i, page := range cfg.Pages {
		names[i] = page.Name
	}
	return names
}
