package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pscheid92/sentilog/internal/platform/config"
	"github.com/pscheid92/sentilog/internal/platform/logging"
	"github.com/pscheid92/sentilog/internal/platform/version"
	"github.com/spf13/cobra"
)

var cfg *config.Config

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "sentilog",
	Short:        "Lexicon-based sentiment scoring with a persistent history",
	Version:      version.Get().Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cmd.Name() == "serve" {
			logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
		} else {
			logging.Init(os.Stderr, cfg.LogLevel, cfg.LogFormat)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(lexiconCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "sentilog", version.Get())
	},
}
