package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/sharechart/internal/worker"
)

var (
	buildOutDir     string
	buildWorkers    int
	buildPages      []string
	buildPagesFile  string
	buildTransitAll bool
	buildFormat     string
	buildTimeout    time.Duration
)

// buildCmd renders every configured page into a directory
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render all configured pages in parallel",
	Long: `Build renders configured pages into an output directory, writing
<name>.json, <name>.md and a chart image for each. Pages are built by a
bounded worker pool; a failing page is reported and the rest still build.

With --transit-all the transit page is rendered for every date and line
pair of the configured month.

Example:
  sharechart build
  sharechart build --out-dir ./site --format svg --workers 8
  sharechart build --pages height --transit-all`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildOutDir, "out-dir", "", "output directory (default: output.dir)")
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 0, "number of concurrent workers (default: workers)")
	buildCmd.Flags().StringSliceVar(&buildPages, "pages", nil, "pages to build (default: all)")
	buildCmd.Flags().StringVar(&buildPagesFile, "pages-file", "", "file listing pages to build, one per line")
	buildCmd.Flags().BoolVar(&buildTransitAll, "transit-all", false, "also render the transit page for every date and line")
	buildCmd.Flags().StringVar(&buildFormat, "format", "png", "chart format: png or svg")
	buildCmd.Flags().DurationVar(&buildTimeout, "timeout", 10*time.Minute, "total timeout for the build")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), buildTimeout)
	defer cancel()

	cfg, logger, p, err := setup()
	if err != nil {
		return err
	}

	outDir := buildOutDir
	if outDir == "" {
		outDir = cfg.Output.Dir
	}
	workers := buildWorkers
	if workers <= 0 {
		workers = cfg.Workers
	}
	if buildFormat != "png" && buildFormat != "svg" {
		return fmt.Errorf("unsupported chart format %q (use png or svg)", buildFormat)
	}

	names := buildPages
	if buildPagesFile != "" {
		fromFile, err := worker.ReadPageNames(buildPagesFile)
		if err != nil {
			return fmt.Errorf("read pages file: %w", err)
		}
		names = append(names, fromFile...)
	}

	pages, err := worker.SelectPages(cfg, names)
	if err != nil {
		return err
	}
	targets := worker.PageTargets(pages)

	if buildTransitAll {
		dataset, err := p.TransitDataset(ctx, cfg.Transit.Month)
		if err != nil {
			return fmt.Errorf("load transit: %w", err)
		}
		targets = append(targets, worker.TransitTargets(dataset.Dates(), dataset.Lines(), cfg.Transit.Month)...)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	errOut := cmd.ErrOrStderr()
	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Targets:      %d\n", len(targets))
	fmt.Fprintf(errOut, "  Workers:      %d\n", workers)
	fmt.Fprintf(errOut, "  Output dir:   %s\n", outDir)
	fmt.Fprintf(errOut, "\n")

	logger.Debug("starting build", "targets", len(targets), "workers", workers)

	processor := worker.NewBatchProcessor(p, workers, outDir, buildFormat)
	results := processor.Process(ctx, targets)

	successCount := 0
	failureCount := 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(errOut, "✗ %s: %v\n", result.Name, result.Error)
			continue
		}

		successCount++
		if result.Report.Empty {
			fmt.Fprintf(errOut, "✓ %s (total 0, no chart)\n", result.Name)
			continue
		}
		fmt.Fprintf(errOut, "✓ %s (total %d, %d categories)\n", result.Name, result.Report.Total, len(result.Report.Table))
	}

	// Jobs dropped by the timeout never report back
	skipped := len(targets) - len(results)

	fmt.Fprintf(errOut, "\n")
	fmt.Fprintf(errOut, "  Success:   %d\n", successCount)
	fmt.Fprintf(errOut, "  Failures:  %d\n", failureCount)
	if skipped > 0 {
		fmt.Fprintf(errOut, "  Skipped:   %d\n", skipped)
	}
	fmt.Fprintf(errOut, "\n")

	if failureCount > 0 || skipped > 0 {
		return fmt.Errorf("%d of %d targets failed", failureCount+skipped, len(targets))
	}
	return nil
}
