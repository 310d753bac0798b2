package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/sharechart/internal/logutil"
	"github.com/ppiankov/sharechart/internal/model"
	"github.com/ppiankov/sharechart/internal/pipeline"
)

const envPrefix = "SHARECHART"

var version = "v0.1.0"

var (
	cfgFile  string
	verbose  bool
	noCache  bool
	noFooter bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "sharechart",
	Short: "sharechart - ranked share charts from CSV counts",
	Long: `sharechart groups CSV counts by category, turns them into percentage
shares of the grand total and ranks them. The largest share is drawn in
the highlight color, the rest in a fading ramp.

Reports are written as JSON, Markdown and PNG/SVG bar charts, printed to
the terminal, or served as an HTML dashboard.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command; canceling ctx stops long-running commands
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sharechart %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.sharechart/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable memoization of loaded files")
	rootCmd.PersistentFlags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(model.DefaultConfig())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".sharechart"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match SHARECHART_*
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	} else if err != nil && cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
	}
}

// setDefaults registers every key of cfg with viper so env vars can
// override keys the config file never mentions.
func setDefaults(cfg *model.Config) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return
	}
	setDefaultTree("", tree)
}

func setDefaultTree(prefix string, tree map[string]any) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]any); ok {
			setDefaultTree(key, sub)
			continue
		}
		viper.SetDefault(key, v)
	}
}

// loadConfig returns the effective configuration: flags > env > file > defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if noCache {
		cfg.Cache.Enabled = false
	}
	if noFooter {
		cfg.Output.IncludeFooter = false
	}
	cfg.Output.Verbose = verbose

	return cfg, nil
}

// setup loads the configuration and builds the logger and pipeline
func setup() (*model.Config, *slog.Logger, *pipeline.Pipeline, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	logger, err := logutil.LoggerFromViper(os.Stderr)
	if err != nil {
		return nil, nil, nil, err
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create pipeline: %w", err)
	}

	return cfg, logger, p, nil
}
