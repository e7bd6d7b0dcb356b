package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/ai"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate and print the query plan, then exit",
	Long:  "Runs only the query generation stage and prints the resulting location and queries. Useful for tuning the profile and keywords.",
	RunE:  runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	provider := setupProvider(cfg, logger)
	planner := ai.NewQueryPlanner(provider, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	plan, err := planner.Plan(ctx, cfg.Profile)
	if err != nil {
		logger.Error("planning failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Location: %s\n\n", plan.Location)
	for _, q := range plan.Queries {
		fmt.Printf("  %s\n", q)
	}
	fmt.Printf("\n%d queries\n", len(plan.Queries))
	return nil
}
