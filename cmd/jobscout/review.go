package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/review"
	"github.com/amishk599/jobscout/internal/store"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Browse enriched results interactively (TUI)",
	Long:  "Opens a split-pane browser over the result store: relevant jobs left, rejected right, sorted by confidence.",
	RunE:  runReview,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}

func runReview(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		logger.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	results, err := db.LoadResults()
	if err != nil {
		logger.Error("failed to load results", "error", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		logger.Info("no enriched results yet, run the pipeline first")
		return nil
	}

	return review.Run(results)
}
