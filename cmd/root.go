package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lotcheck/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "lotcheck",
	Short: "Auction lot price sanity checker",
	Long:  "Scrapes Catawiki lots, matches them against live eBay listings and optional LLM research, and classifies each estimate as underpriced, fair, or overpriced.",
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
