package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/prism-insight/prism-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "prism-cli",
	Short: "Dataset statistics and comparison toolkit",
	Long:  "Ingests CSV/XLSX job-listing exports, profiles per-column statistics, compares dataset snapshots, and produces LLM or template summaries.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
