package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one full pipeline pass",
	Long:  "Plan queries, scrape postings, then summarize and classify every stored job. Exits when done.",
	RunE:  runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"keywords", len(cfg.Profile.Keywords),
		"excluded_keywords", len(cfg.Profile.ExcludedKeywords),
		"max_scrape", cfg.Scrape.MaxScrape,
		"model", cfg.LLM.Model,
	)

	p, db, err := buildPipeline(cfg, logger)
	if err != nil {
		logger.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := p.Run(ctx); err != nil {
		logger.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	return nil
}
