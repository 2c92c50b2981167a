package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "America/Los_Angeles"
	configPathEnv    = "ARXIV_DIGEST_CONFIG"
	llmAPIKeyEnv     = "LLM_API_KEY"
	llmModelEnv      = "LLM_MODEL"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
	databasePathEnv  = "DATABASE_PATH"
)

// Config holds high-level settings required across the application.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Feed      FeedConfig      `yaml:"feed"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	LLM       LLMConfig       `yaml:"llm"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Site      SiteConfig      `yaml:"site"`
	Database  DatabaseConfig  `yaml:"database"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DataConfig names the directory holding cursor, batch, and result files.
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// FeedConfig describes the upstream search feed query parameters.
type FeedConfig struct {
	BaseURL    string   `yaml:"baseUrl"`
	Categories []string `yaml:"categories"`
	MaxResults int      `yaml:"maxResults"`
	SortOrder  string   `yaml:"sortOrder"`
}

// SchedulerConfig defines when the pipeline runs and the reference
// timezone used for all window arithmetic.
type SchedulerConfig struct {
	Interval string         `yaml:"interval"`
	Timezone string         `yaml:"timezone"`
	location *time.Location `yaml:"-"`
}

// Location resolves the reference timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// LLMConfig defines how to contact the text-completion API.
type LLMConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// TelegramConfig wires the announce channel; empty values degrade the
// announce stage to a no-op.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SiteConfig describes the published page.
type SiteConfig struct {
	OutputDir string `yaml:"outputDir"`
	BaseURL   string `yaml:"baseUrl"`
	Title     string `yaml:"title"`
}

// DatabaseConfig points at the sqlite run archive.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	if len(cfg.Feed.Categories) == 0 {
		cfg.Feed.Categories = defaultConfig().Feed.Categories
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}

	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Telegram.ChatID = v
	}

	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Data.Dir != "" {
		base.Data = override.Data
	}

	if override.Feed.BaseURL != "" {
		base.Feed.BaseURL = override.Feed.BaseURL
	}
	if len(override.Feed.Categories) > 0 {
		base.Feed.Categories = override.Feed.Categories
	}
	if override.Feed.MaxResults > 0 {
		base.Feed.MaxResults = override.Feed.MaxResults
	}
	if override.Feed.SortOrder != "" {
		base.Feed.SortOrder = override.Feed.SortOrder
	}

	if override.Scheduler.Interval != "" {
		base.Scheduler.Interval = override.Scheduler.Interval
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.LLM.Endpoint != "" {
		base.LLM.Endpoint = override.LLM.Endpoint
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}

	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.ChatID != "" {
		base.Telegram.ChatID = override.Telegram.ChatID
	}

	if override.Site.OutputDir != "" {
		base.Site.OutputDir = override.Site.OutputDir
	}
	if override.Site.BaseURL != "" {
		base.Site.BaseURL = override.Site.BaseURL
	}
	if override.Site.Title != "" {
		base.Site.Title = override.Site.Title
	}

	if override.Database.Path != "" {
		base.Database.Path = override.Database.Path
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Data: DataConfig{Dir: "data"},
		Feed: FeedConfig{
			BaseURL:    "http://export.arxiv.org/api/query",
			Categories: []string{"cs.AI", "cs.LG", "cs.CL", "cs.CV", "stat.ML"},
			MaxResults: 1000,
			SortOrder:  "descending",
		},
		Scheduler: SchedulerConfig{Interval: "24h", Timezone: defaultTimezone, location: tz},
		LLM: LLMConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o-mini",
			APIKey:   "",
		},
		Telegram: TelegramConfig{BotToken: "", ChatID: ""},
		Site: SiteConfig{
			OutputDir: "output",
			BaseURL:   "https://sysgenerated.github.io/arxiv-daily-summary",
			Title:     "ArXiv AI/ML Daily Summary",
		},
		Database: DatabaseConfig{Path: "data/arxivdigest.db"},
		Logging:  LoggingConfig{Level: "info"},
	}
}
