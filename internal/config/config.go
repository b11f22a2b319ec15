package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "TWEET_SENTRY_CONFIG"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramUserEnv  = "TELEGRAM_USER_ID"
	oracleURLEnv     = "ORACLE_URL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Oracle     OracleConfig     `yaml:"oracle"`
	Search     SearchConfig     `yaml:"search"`
	Dispatcher DispatcherConfig `yaml:"dispatcher"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// TelegramConfig wires all data required to reach the recipient.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	UserID   string `yaml:"userId"`
}

// OracleConfig describes the browser session against the judge's UI.
type OracleConfig struct {
	URL                  string `yaml:"url"`
	UserDataDir          string `yaml:"userDataDir"`
	Headless             bool   `yaml:"headless"`
	PollIntervalMs       int    `yaml:"pollIntervalMs"`
	CompletionTimeoutSec int    `yaml:"completionTimeoutSec"`
}

// PollInterval resolves the completion poll cadence.
func (o OracleConfig) PollInterval() time.Duration {
	if o.PollIntervalMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(o.PollIntervalMs) * time.Millisecond
}

// CompletionTimeout resolves how long to wait for a reply to finish.
func (o OracleConfig) CompletionTimeout() time.Duration {
	if o.CompletionTimeoutSec <= 0 {
		return 90 * time.Second
	}
	return time.Duration(o.CompletionTimeoutSec) * time.Second
}

// SearchConfig defines what to look for and where.
type SearchConfig struct {
	// Terms is the query without the date anchor; the dispatcher appends
	// a since: clause scoped to the current day.
	Terms string `yaml:"terms"`
	// Interests describes the recipient's interests inside the judge
	// prompt.
	Interests string       `yaml:"interests"`
	Sites     []SiteConfig `yaml:"sites"`
}

// SiteConfig describes a single search mirror with its scanner strategy.
type SiteConfig struct {
	Name    string `yaml:"name"`
	Scanner string `yaml:"scanner"`
	URL     string `yaml:"url"`
}

// DispatcherConfig tunes the fetch/judge/notify loop.
type DispatcherConfig struct {
	CycleSec         int `yaml:"cycleSec"`
	ThrottleEvery    int `yaml:"throttleEvery"`
	ThrottleSec      int `yaml:"throttleSec"`
	CooldownSec      int `yaml:"cooldownSec"`
	MaxIndeterminate int `yaml:"maxIndeterminate"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
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

	if len(cfg.Search.Sites) == 0 {
		cfg.Search.Sites = defaultConfig().Search.Sites
	}

	return cfg
}

// Validate reports missing required secrets so startup can fail fast
// instead of surfacing a deep runtime error.
func (c Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram bot token is required (set %s)", telegramTokenEnv)
	}
	if c.Telegram.UserID == "" {
		return fmt.Errorf("telegram user id is required (set %s)", telegramUserEnv)
	}
	if c.Oracle.URL == "" {
		return fmt.Errorf("oracle url is required")
	}
	if len(c.Search.Sites) == 0 {
		return fmt.Errorf("at least one search site is required")
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramUserEnv); v != "" {
		c.Telegram.UserID = v
	}

	if v := os.Getenv(oracleURLEnv); v != "" {
		c.Oracle.URL = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Telegram.BotToken != "" {
		base.Telegram.BotToken = override.Telegram.BotToken
	}
	if override.Telegram.UserID != "" {
		base.Telegram.UserID = override.Telegram.UserID
	}

	if override.Oracle.URL != "" {
		base.Oracle.URL = override.Oracle.URL
	}
	if override.Oracle.UserDataDir != "" {
		base.Oracle.UserDataDir = override.Oracle.UserDataDir
	}
	if override.Oracle.Headless {
		base.Oracle.Headless = true
	}
	if override.Oracle.PollIntervalMs > 0 {
		base.Oracle.PollIntervalMs = override.Oracle.PollIntervalMs
	}
	if override.Oracle.CompletionTimeoutSec > 0 {
		base.Oracle.CompletionTimeoutSec = override.Oracle.CompletionTimeoutSec
	}

	if override.Search.Terms != "" {
		base.Search.Terms = override.Search.Terms
	}
	if override.Search.Interests != "" {
		base.Search.Interests = override.Search.Interests
	}
	if len(override.Search.Sites) > 0 {
		base.Search.Sites = override.Search.Sites
	}

	if override.Dispatcher.CycleSec > 0 {
		base.Dispatcher.CycleSec = override.Dispatcher.CycleSec
	}
	if override.Dispatcher.ThrottleEvery > 0 {
		base.Dispatcher.ThrottleEvery = override.Dispatcher.ThrottleEvery
	}
	if override.Dispatcher.ThrottleSec > 0 {
		base.Dispatcher.ThrottleSec = override.Dispatcher.ThrottleSec
	}
	if override.Dispatcher.CooldownSec > 0 {
		base.Dispatcher.CooldownSec = override.Dispatcher.CooldownSec
	}
	if override.Dispatcher.MaxIndeterminate > 0 {
		base.Dispatcher.MaxIndeterminate = override.Dispatcher.MaxIndeterminate
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Oracle: OracleConfig{
			URL:                  "https://chat.openai.com/",
			UserDataDir:          "/tmp/tweetsentry-profile",
			Headless:             false,
			PollIntervalMs:       500,
			CompletionTimeoutSec: 90,
		},
		Search: SearchConfig{
			Terms:     "gptchat OR chatgpt OR chat-gpt OR gpt-chat openAI lang:en",
			Interests: "technical aspects of the technology, its impact on society, new use cases, new tools built with it, and new startup ideas",
			Sites: []SiteConfig{
				{Name: "nitter", Scanner: "timeline", URL: "https://nitter.net/search"},
			},
		},
		Dispatcher: DispatcherConfig{
			CycleSec:         60,
			ThrottleEvery:    20,
			ThrottleSec:      90,
			CooldownSec:      300,
			MaxIndeterminate: 5,
		},
	}
}
