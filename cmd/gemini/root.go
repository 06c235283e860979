package main

import (
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/voocel/gemini"
	"github.com/voocel/gemini/config"
	geminilog "github.com/voocel/gemini/internal/log"
)

// Global flag values.
var (
	verbose    bool
	quiet      bool
	noColor    bool
	logJSON    bool
	configPath string
	modelFlag  string
)

// logger is installed by the root command before any subcommand runs.
var logger = slog.Default()

// rootCmd is the base command for gemini.
var rootCmd = &cobra.Command{
	Use:   "gemini",
	Short: "Talk to Gemini models from the command line",
	Long: `gemini sends prompts to Google's Gemini models through either the public
Generative Language API (GEMINI_API_KEY) or Vertex AI (VERTEX_PROJECT and
VERTEX_REGION), printing complete answers or streaming them as they arrive.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger = geminilog.Setup(verbose, quiet, logJSON)
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "write logs as JSON lines")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "gemini.yaml", "config file (.yaml, .yml or .toml)")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "model identifier (overrides config and GEMINI_MODEL)")

	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(streamCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration in increasing precedence: config file,
// environment, flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(cfg)
	if modelFlag != "" {
		cfg.Model = modelFlag
	}
	return cfg, nil
}

func newClient() (*gemini.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return gemini.NewFromConfig(cfg, gemini.WithLogger(logger))
}
