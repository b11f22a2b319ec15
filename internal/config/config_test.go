package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(telegramTokenEnv, "")
	t.Setenv(telegramUserEnv, "")
	t.Setenv(oracleURLEnv, "")

	cfg := Load()

	if cfg.Oracle.PollInterval() != 500*time.Millisecond {
		t.Fatalf("poll interval = %s", cfg.Oracle.PollInterval())
	}
	if cfg.Oracle.CompletionTimeout() != 90*time.Second {
		t.Fatalf("completion timeout = %s", cfg.Oracle.CompletionTimeout())
	}
	if cfg.Dispatcher.ThrottleEvery != 20 {
		t.Fatalf("throttle every = %d", cfg.Dispatcher.ThrottleEvery)
	}
	if len(cfg.Search.Sites) == 0 {
		t.Fatal("no default search sites")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(configPathEnv, "")
	t.Setenv(telegramTokenEnv, "env-token")
	t.Setenv(telegramUserEnv, "12345")
	t.Setenv(oracleURLEnv, "https://judge.example.org/")

	cfg := Load()

	if cfg.Telegram.BotToken != "env-token" {
		t.Fatalf("bot token = %s", cfg.Telegram.BotToken)
	}
	if cfg.Telegram.UserID != "12345" {
		t.Fatalf("user id = %s", cfg.Telegram.UserID)
	}
	if cfg.Oracle.URL != "https://judge.example.org/" {
		t.Fatalf("oracle url = %s", cfg.Oracle.URL)
	}
}

func TestFileConfigMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := []byte(`
telegram:
  botToken: file-token
  userId: "7"
dispatcher:
  cycleSec: 30
search:
  terms: "llm news lang:en"
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(configPathEnv, path)
	t.Setenv(telegramTokenEnv, "")
	t.Setenv(telegramUserEnv, "")

	cfg := Load()

	if cfg.Telegram.BotToken != "file-token" {
		t.Fatalf("bot token = %s", cfg.Telegram.BotToken)
	}
	if cfg.Dispatcher.CycleSec != 30 {
		t.Fatalf("cycle sec = %d", cfg.Dispatcher.CycleSec)
	}
	if cfg.Search.Terms != "llm news lang:en" {
		t.Fatalf("terms = %s", cfg.Search.Terms)
	}
	// untouched defaults survive the merge
	if cfg.Dispatcher.ThrottleEvery != 20 {
		t.Fatalf("throttle every = %d", cfg.Dispatcher.ThrottleEvery)
	}
}

func TestValidateRequiresSecrets(t *testing.T) {
	cfg := defaultConfig()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure without secrets")
	}

	cfg.Telegram.BotToken = "token"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation failure without user id")
	}

	cfg.Telegram.UserID = "42"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}
