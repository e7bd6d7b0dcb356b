package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amishk599/jobscout/internal/model"
)

// Config is the root configuration for the jobscout pipeline.
type Config struct {
	Profile      model.Profile
	Scrape       ScrapeConfig
	LLM          LLMConfig
	Store        StoreConfig
	Notification NotificationConfig
	Watch        WatchConfig
}

// ScrapeConfig bounds the pagination loop and paces requests to the job site.
type ScrapeConfig struct {
	BaseURL   string        // listing/detail site root
	MaxScrape int           // pagination ceiling; offsets run 0, 25, … < MaxScrape
	PageSize  int           // listing page size (the site serves 25)
	MinDelay  time.Duration // minimum gap between requests to the site
	Timeout   time.Duration // per-request timeout
}

// LLMConfig targets an OpenAI-compatible chat-completions endpoint.
type LLMConfig struct {
	BaseURL    string        // defaults to https://api.openai.com/v1
	Model      string        // model identifier, e.g. "gpt-4o-mini"
	APIKey     string        // expanded from env var by Load; optional for local endpoints
	Timeout    time.Duration // per-request timeout
	MaxRetries int           // additional attempts on transient HTTP failures
}

// StoreConfig locates the persistent job/result database.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type          string  // "log" or "slack"
	WebhookURL    string  // required if type is "slack"
	MinConfidence float64 // relevance floor for notifications
}

// WatchConfig controls the optional repeated-run mode.
type WatchConfig struct {
	Interval time.Duration
}

const (
	defaultScrapeBaseURL = "https://www.linkedin.com"
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultStorePath     = "jobscout.db"
)

// rawConfig is used for YAML unmarshaling (snake_case fields and durations as strings).
type rawConfig struct {
	Profile      rawProfileConfig      `yaml:"profile"`
	Scrape       rawScrapeConfig       `yaml:"scrape"`
	LLM          rawLLMConfig          `yaml:"llm"`
	Store        StoreConfig           `yaml:"store"`
	Notification rawNotificationConfig `yaml:"notification"`
	Watch        rawWatchConfig        `yaml:"watch"`
}

type rawProfileConfig struct {
	Summary          string   `yaml:"summary"`
	Keywords         []string `yaml:"keywords"`
	ExcludedKeywords []string `yaml:"excluded_keywords"`
}

type rawScrapeConfig struct {
	BaseURL   string `yaml:"base_url"`
	MaxScrape int    `yaml:"max_scrape"`
	MinDelay  string `yaml:"min_delay"`
	Timeout   string `yaml:"timeout"`
}

type rawLLMConfig struct {
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	Timeout    string `yaml:"timeout"`
	MaxRetries *int   `yaml:"max_retries"`
}

type rawNotificationConfig struct {
	Type          string   `yaml:"type"`
	WebhookURL    string   `yaml:"webhook_url"`
	MinConfidence *float64 `yaml:"min_confidence"`
}

type rawWatchConfig struct {
	Interval string `yaml:"interval"`
}

// Load reads and parses the YAML config file at path, validates it, and returns Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables (api keys, paths).
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	scrapeDelay := 2 * time.Second // default
	if raw.Scrape.MinDelay != "" {
		scrapeDelay, err = time.ParseDuration(raw.Scrape.MinDelay)
		if err != nil {
			return nil, fmt.Errorf("parse scrape.min_delay %q: %w", raw.Scrape.MinDelay, err)
		}
	}

	scrapeTimeout := 30 * time.Second // default
	if raw.Scrape.Timeout != "" {
		scrapeTimeout, err = time.ParseDuration(raw.Scrape.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse scrape.timeout %q: %w", raw.Scrape.Timeout, err)
		}
	}

	llmTimeout := 60 * time.Second // default
	if raw.LLM.Timeout != "" {
		llmTimeout, err = time.ParseDuration(raw.LLM.Timeout)
		if err != nil {
			return nil, fmt.Errorf("parse llm.timeout %q: %w", raw.LLM.Timeout, err)
		}
	}

	watchInterval := 6 * time.Hour // default
	if raw.Watch.Interval != "" {
		watchInterval, err = time.ParseDuration(raw.Watch.Interval)
		if err != nil {
			return nil, fmt.Errorf("parse watch.interval %q: %w", raw.Watch.Interval, err)
		}
	}

	scrapeBaseURL := raw.Scrape.BaseURL
	if scrapeBaseURL == "" {
		scrapeBaseURL = defaultScrapeBaseURL
	}

	maxScrape := raw.Scrape.MaxScrape
	if maxScrape == 0 {
		maxScrape = 125 // default: pages at offsets 0, 25, 50, 75, 100
	}

	llmBaseURL := raw.LLM.BaseURL
	if llmBaseURL == "" {
		llmBaseURL = defaultOpenAIBaseURL
	}

	llmRetries := 2 // default
	if raw.LLM.MaxRetries != nil {
		llmRetries = *raw.LLM.MaxRetries
	}

	storePath := raw.Store.Path
	if storePath == "" {
		storePath = defaultStorePath
	}

	minConfidence := 0.6 // default notification floor
	if raw.Notification.MinConfidence != nil {
		minConfidence = *raw.Notification.MinConfidence
	}

	cfg := &Config{
		Profile: model.Profile{
			Summary:          strings.TrimSpace(raw.Profile.Summary),
			Keywords:         raw.Profile.Keywords,
			ExcludedKeywords: raw.Profile.ExcludedKeywords,
		},
		Scrape: ScrapeConfig{
			BaseURL:   strings.TrimRight(scrapeBaseURL, "/"),
			MaxScrape: maxScrape,
			PageSize:  25,
			MinDelay:  scrapeDelay,
			Timeout:   scrapeTimeout,
		},
		LLM: LLMConfig{
			BaseURL:    strings.TrimRight(llmBaseURL, "/"),
			Model:      raw.LLM.Model,
			APIKey:     raw.LLM.APIKey,
			Timeout:    llmTimeout,
			MaxRetries: llmRetries,
		},
		Store: StoreConfig{Path: storePath},
		Notification: NotificationConfig{
			Type:          raw.Notification.Type,
			WebhookURL:    raw.Notification.WebhookURL,
			MinConfidence: minConfidence,
		},
		Watch: WatchConfig{Interval: watchInterval},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Profile.Summary == "" {
		return fmt.Errorf("profile.summary is required")
	}
	if len(cfg.Profile.Keywords) == 0 {
		return fmt.Errorf("profile.keywords must list at least one keyword")
	}

	if cfg.Scrape.MaxScrape < cfg.Scrape.PageSize {
		return fmt.Errorf("scrape.max_scrape must be at least %d, got %d", cfg.Scrape.PageSize, cfg.Scrape.MaxScrape)
	}
	if cfg.Scrape.MinDelay < 0 {
		return fmt.Errorf("scrape.min_delay must not be negative, got %v", cfg.Scrape.MinDelay)
	}

	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if cfg.LLM.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must not be negative, got %d", cfg.LLM.MaxRetries)
	}

	if cfg.Notification.MinConfidence < 0 || cfg.Notification.MinConfidence > 1 {
		return fmt.Errorf("notification.min_confidence must be within [0,1], got %v", cfg.Notification.MinConfidence)
	}
	if cfg.Notification.Type == "slack" {
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, "https://hooks.slack.com/") {
			return fmt.Errorf("notification.webhook_url must start with https://hooks.slack.com/")
		}
	}

	if cfg.Watch.Interval <= 0 {
		return fmt.Errorf("watch.interval must be positive, got %v", cfg.Watch.Interval)
	}

	return nil
}
