package cfg

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Base (remote tabular store) configuration
	AppID     string `long:"app-id" env:"BASE_APP_ID" description:"Application ID for the remote base (required)"`
	AppSecret string `long:"app-secret" env:"BASE_APP_SECRET" description:"Application secret for the remote base (required)"`
	BaseToken string `long:"base-token" env:"BASE_TOKEN" description:"Token of the base holding the records table (required)"`
	TableID   string `long:"table-id" env:"BASE_TABLE_ID" description:"ID of the records table inside the base (required)"`
	APIBase   string `long:"api-base" env:"BASE_API_URL" default:"https://open.feishu.cn/open-apis" description:"Base API endpoint"`

	// Feed sources
	Feeds    string `long:"feeds" env:"RSS_FEEDS" description:"Comma-separated list of feed URLs"`
	FeedsDir string `long:"feeds-dir" env:"FEEDS_DIR" description:"Directory containing per-feed YAML source files (optional)"`

	// AI summarization (optional)
	AIAPIKey  string `long:"ai-api-key" env:"AI_API_KEY" description:"API key for the summarization backend (optional, truncation fallback used when absent)"`
	AIAPIBase string `long:"ai-api-base" env:"AI_API_URL" default:"https://api.openai.com/v1" description:"Summarization backend endpoint"`
	AIModel   string `long:"ai-model" env:"AI_MODEL" default:"gpt-4o-mini" description:"Summarization model name"`

	// Notification webhook (optional)
	NotifyWebhookURL string `long:"notify-webhook" env:"NOTIFY_WEBHOOK_URL" description:"Webhook URL for failure notifications (optional)"`

	// Application configuration
	Port         string `long:"port" env:"PORT" default:"8080" description:"HTTP server port (serve mode)"`
	APIAccessKey string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for the trigger endpoint (optional)"`
	SyncInterval int    `long:"sync-interval" env:"SYNC_INTERVAL" default:"3600" description:"Interval between sync runs in seconds (serve mode)"`
	Timeout      int    `long:"timeout" env:"TIMEOUT" default:"30" description:"HTTP request timeout in seconds"`
	Once         bool   `long:"once" env:"RUN_ONCE" description:"Run a single sync and exit (cron mode)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (compatible; RSS Base Sync/1.0)" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		AppID:            raw.AppID,
		AppSecret:        raw.AppSecret,
		BaseToken:        raw.BaseToken,
		TableID:          raw.TableID,
		APIBase:          strings.TrimRight(raw.APIBase, "/"),
		Feeds:            splitFeeds(raw.Feeds),
		FeedsDir:         raw.FeedsDir,
		AIAPIKey:         raw.AIAPIKey,
		AIAPIBase:        strings.TrimRight(raw.AIAPIBase, "/"),
		AIModel:          raw.AIModel,
		NotifyWebhookURL: raw.NotifyWebhookURL,
		Port:             raw.Port,
		APIAccessKey:     raw.APIAccessKey,
		SyncInterval:     raw.SyncInterval,
		Timeout:          raw.Timeout,
		Once:             raw.Once,
		UserAgent:        raw.UserAgent,
		Timezone:         raw.Timezone,
		Debug:            raw.Debug,
		Version:          GetVersion(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Validate checks the store identifiers required before any network call
// can be attempted. Feed sources may also come from FeedsDir, so an empty
// feed list alone is only rejected when no directory is configured either.
func (c *Cfg) Validate() error {
	required := map[string]string{
		"app ID":     c.AppID,
		"app secret": c.AppSecret,
		"base token": c.BaseToken,
		"table ID":   c.TableID,
	}

	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if len(c.Feeds) == 0 && c.FeedsDir == "" {
		return fmt.Errorf("no feed sources configured: set --feeds or --feeds-dir")
	}

	return nil
}

func splitFeeds(raw string) []string {
	feeds := make([]string, 0)
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			feeds = append(feeds, s)
		}
	}
	return feeds
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
