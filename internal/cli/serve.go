package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/sharechart/internal/server"
)

// serveCmd runs the HTML dashboard
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the share pages as an HTML dashboard",
	Long: `Serve starts an HTTP dashboard with one page per configured share page
and a transit page with date and line selectors. Each source is loaded once
and memoized for the life of the process; pass --no-cache to re-read files
on every request.

Routes:
  /                        index
  /pages/{name}            share page
  /pages/{name}/chart.svg  chart image (also chart.png)
  /transit?date=&line=     transit page
  /transit/chart.svg       transit chart (also chart.png)
  /healthz                 liveness

Example:
  sharechart serve
  sharechart serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, p, err := setup()
		if err != nil {
			return err
		}

		srv, err := server.New(p, cfg, p.Renderer().ChartOptions(), logger)
		if err != nil {
			return fmt.Errorf("create server: %w", err)
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "Serving on http://%s\n", cfg.Server.Addr)
		return srv.ListenAndServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default: server.addr)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}
