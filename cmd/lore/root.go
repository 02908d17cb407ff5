package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/halvard/lore/pkg/config"
)

var (
	cfgFile    string
	formatFlag string
	outputFile string
	noCache    bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "lore",
	Short: "Repository history analytics CLI",
	Long: `Lore reconstructs a repository's story from its commit history:
who owns what, where knowledge is dangerously concentrated, and how
development activity has shifted over time.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (TOML, YAML, or JSON)")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format: text, json, markdown")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Write output to file")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Disable report caching")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")
}

// loadConfig resolves the effective configuration, with flags overriding
// file values.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", cfgFile, err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if formatFlag != "" {
		cfg.Output.Format = formatFlag
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}
