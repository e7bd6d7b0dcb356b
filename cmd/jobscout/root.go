package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/adapter"
	"github.com/amishk599/jobscout/internal/ai"
	"github.com/amishk599/jobscout/internal/config"
	"github.com/amishk599/jobscout/internal/model"
	"github.com/amishk599/jobscout/internal/notifier"
	"github.com/amishk599/jobscout/internal/pipeline"
	"github.com/amishk599/jobscout/internal/ratelimit"
	"github.com/amishk599/jobscout/internal/retry"
	"github.com/amishk599/jobscout/internal/store"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "LLM-assisted job search pipeline",
	Long:  "Jobscout generates search queries from your profile, scrapes matching postings, and builds a summarized, relevance-scored feed.",
	// Default to `run` so that `jobscout` with no args runs one pipeline pass.
	RunE: runRun,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSCOUT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBSCOUT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBSCOUT_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		httpClient := &http.Client{Timeout: cfg.Scrape.Timeout}
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// setupProvider builds the structured-generation provider: the OpenAI client
// wrapped with transient-failure retry.
func setupProvider(cfg *config.Config, logger *slog.Logger) ai.Provider {
	httpClient := &http.Client{Timeout: cfg.LLM.Timeout}
	var provider ai.Provider = ai.NewOpenAIProvider(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, httpClient)
	if cfg.LLM.MaxRetries > 0 {
		provider = retry.NewProvider(provider, cfg.LLM.MaxRetries, 5*time.Second, logger)
	}
	return provider
}

// buildPipeline wires the full pipeline. The caller owns closing the store.
func buildPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, *store.SQLiteStore, error) {
	db, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		return nil, nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Scrape.Timeout}
	limiter := ratelimit.New(cfg.Scrape.MinDelay)
	provider := setupProvider(cfg, logger)

	p := pipeline.New(pipeline.Deps{
		Planner:    ai.NewQueryPlanner(provider, logger),
		Listing:    adapter.NewListingClient(cfg.Scrape.BaseURL, httpClient, limiter, logger),
		Detail:     adapter.NewDetailClient(cfg.Scrape.BaseURL, httpClient, limiter, logger),
		Jobs:       db,
		Results:    db,
		Summarizer: ai.NewSummarizer(provider),
		Classifier: ai.NewRelevanceClassifier(provider),
		Notifier:   setupNotifier(cfg, logger),
		Logger:     logger,
	}, cfg.Profile, cfg.Scrape, cfg.Notification.MinConfidence)

	return p, db, nil
}
