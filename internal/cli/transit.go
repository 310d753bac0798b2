package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/sharechart/internal/model"
	"github.com/ppiankov/sharechart/internal/pipeline"
)

var (
	transitOut   outputFlags
	transitDate  string
	transitLine  string
	transitMonth string
)

// transitCmd ranks stations of one line on one day
var transitCmd = &cobra.Command{
	Use:   "transit [csv]",
	Short: "Rank station ridership for a date and line",
	Long: `Transit reads daily ridership (boardings and alightings per station),
keeps the configured month, selects one date and one line, and ranks the
stations by boardings + alightings. The busiest station is highlighted.

Without --date or --line the first available value is used. The CSV argument
overrides transit.source from the configuration.

Example:
  sharechart transit subway.csv
  sharechart transit subway.csv --date 2025-10-03 --line 2호선 --chart station.png
  sharechart transit dates subway.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTransit,
}

var transitDatesCmd = &cobra.Command{
	Use:   "dates [csv]",
	Short: "List the selectable dates",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listTransit(cmd, args, func(dates, _ []string) []string { return dates })
	},
}

var transitLinesCmd = &cobra.Command{
	Use:   "lines [csv]",
	Short: "List the selectable lines",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return listTransit(cmd, args, func(_, lines []string) []string { return lines })
	},
}

func init() {
	rootCmd.AddCommand(transitCmd)
	transitCmd.AddCommand(transitDatesCmd)
	transitCmd.AddCommand(transitLinesCmd)

	transitOut.register(transitCmd)
	transitCmd.Flags().StringVar(&transitDate, "date", "", "date to show, YYYY-MM-DD (default: first available)")
	transitCmd.Flags().StringVar(&transitLine, "line", "", "line to show (default: first available)")
	transitCmd.PersistentFlags().StringVar(&transitMonth, "month", "", "month filter, YYYY-MM (default: transit.month; \"all\" disables)")
}

// transitPipeline loads config with the optional source override applied
func transitPipeline(args []string) (*model.Config, *pipeline.Pipeline, error) {
	if len(args) == 1 {
		setTransitSource(args[0])
	}
	cfg, _, p, err := setup()
	if err != nil {
		return nil, nil, err
	}
	return cfg, p, nil
}

// setTransitSource overrides transit.source at flag precedence
func setTransitSource(path string) {
	viper.Set("transit.source", path)
}

func resolveMonth(cfg *model.Config) string {
	switch transitMonth {
	case "":
		return cfg.Transit.Month
	case "all":
		return ""
	default:
		return transitMonth
	}
}

func runTransit(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), transitOut.timeout)
	defer cancel()

	cfg, p, err := transitPipeline(args)
	if err != nil {
		return err
	}

	report, err := p.BuildTransit(ctx, pipeline.TransitQuery{
		Date:  transitDate,
		Line:  transitLine,
		Month: resolveMonth(cfg),
	})
	if err != nil {
		return fmt.Errorf("build transit: %w", err)
	}

	if err := p.RenderReport(report, transitOut.outputs(cmd.OutOrStdout(), p.Renderer())); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}

	if report.Transit != nil && len(report.Transit.Stations) > 0 && !transitOut.quiet {
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintf(cmd.OutOrStdout(), "%s | %s: %d stations\n", report.Transit.Date, report.Transit.Line, len(report.Transit.Stations))
	}
	return nil
}

func listTransit(cmd *cobra.Command, args []string, pick func(dates, lines []string) []string) error {
	cfg, p, err := transitPipeline(args)
	if err != nil {
		return err
	}

	dataset, err := p.TransitDataset(cmd.Context(), resolveMonth(cfg))
	if err != nil {
		return err
	}

	for _, v := range pick(dataset.Dates(), dataset.Lines()) {
		fmt.Fprintln(cmd.OutOrStdout(), v)
	}
	return nil
}
