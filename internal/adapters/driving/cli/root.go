// Package cli implements the profiledex command-line interface.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/profiledex/profiledex-cli/internal/adapters/driven/config/file"
	"github.com/profiledex/profiledex-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose    bool
	configPath string

	// cfg is loaded once in the persistent pre-run and consulted by
	// commands for flag fallbacks.
	cfg = &file.Config{}
)

var rootCmd = &cobra.Command{
	Use:   "profiledex",
	Short: "Resume profile vector index",
	Long: `profiledex ingests extracted resume profiles, embeds them and builds
flat vector index artifacts, and answers nearest-neighbour queries
against those artifacts.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		// Best effort: a .env file is a developer convenience, not a
		// requirement.
		_ = godotenv.Load()

		logger.SetVerbose(verbose)

		loaded, err := file.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.profiledex/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// fallback returns the flag value when the flag was set explicitly,
// otherwise the config value when present, otherwise the flag's
// default.
func fallback(cmd *cobra.Command, flag, flagVal, cfgVal string) string {
	if cmd.Flags().Changed(flag) {
		return flagVal
	}
	if cfgVal != "" {
		return cfgVal
	}
	return flagVal
}

// fallbackInt is fallback for integer flags.
func fallbackInt(cmd *cobra.Command, flag string, flagVal, cfgVal int) int {
	if cmd.Flags().Changed(flag) {
		return flagVal
	}
	if cfgVal != 0 {
		return cfgVal
	}
	return flagVal
}
