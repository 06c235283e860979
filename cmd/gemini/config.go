package main

import (
	"github.com/spf13/cobra"

	"github.com/voocel/gemini/config"
)

// configCmd prints the configuration the other commands would use.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the configuration after merging the config file, the environment and
the --model flag. Credentials are masked.

Precedence, lowest first:
  config file (--config, default gemini.yaml)
  GEMINI_API_KEY, GEMINI_BASE_URL, GEMINI_MODEL, VERTEX_REGION, VERTEX_PROJECT
  --model`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		shown := *cfg
		shown.Backend = cfg.ResolvedBackend()
		shown.APIKey = mask(cfg.APIKey)
		shown.AccessToken = mask(cfg.AccessToken)
		return config.Write(cmd.OutOrStdout(), &shown)
	},
}

// mask keeps the last four characters of long secrets.
func mask(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 8:
		return "****"
	default:
		return "****" + secret[len(secret)-4:]
	}
}
