package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ACCESS_PASSCODE", "1234")
	t.Setenv("CONFIG_FILE", "")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "welltrack.db" || cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.DailyGoalMl != 2000 || cfg.WindowDays != 7 {
		t.Fatalf("goal/window = %v/%d", cfg.DailyGoalMl, cfg.WindowDays)
	}
	if cfg.ReminderStartHour != 8 || cfg.ReminderEndHour != 20 || cfg.ReminderIntervalHours != 2 {
		t.Fatalf("reminder window = %+v", cfg)
	}
	if !cfg.HealthEnabled || cfg.QuoteProvider != QuoteProviderZenQuotes {
		t.Fatalf("health/quote defaults = %v/%s", cfg.HealthEnabled, cfg.QuoteProvider)
	}
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	setRequired(t)
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "welltrack.yaml")
	data := []byte("httpPort: \"9090\"\ndailyGoalMl: 2500\nwindowDays: 14\nhealthEnabled: false\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("WINDOW_DAYS", "10")
	t.Setenv("QUOTE_PROVIDER", "ZenQuotes")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "9090" || cfg.DailyGoalMl != 2500 || cfg.HealthEnabled {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.WindowDays != 10 {
		t.Fatalf("window days = %d, want env override 10", cfg.WindowDays)
	}
	if cfg.QuoteProvider != QuoteProviderZenQuotes {
		t.Fatalf("quote provider = %q", cfg.QuoteProvider)
	}
}

func TestLoadRejectsMissingSecrets(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ACCESS_PASSCODE", "")

	_, err := Load("")
	if err == nil {
		t.Fatalf("expected error for missing secrets")
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") || !strings.Contains(err.Error(), "ACCESS_PASSCODE") {
		t.Fatalf("err = %v, want both keys named", err)
	}
}

func TestValidate(t *testing.T) {
	base := defaults()
	base.JWTSecret = "s"
	base.AccessPasscode = "p"
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(c *Config){
		"gemini without key": func(c *Config) { c.QuoteProvider = QuoteProviderGemini },
		"unknown provider":   func(c *Config) { c.QuoteProvider = "fortune" },
		"inverted reminders": func(c *Config) { c.ReminderStartHour, c.ReminderEndHour = 21, 8 },
		"hour out of range":  func(c *Config) { c.ReminderEndHour = 24 },
		"zero interval":      func(c *Config) { c.ReminderIntervalHours = 0 },
		"zero window":        func(c *Config) { c.WindowDays = 0 },
		"negative goal":      func(c *Config) { c.DailyGoalMl = -1 },
	}
	for name, mutate := range cases {
		c := base
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	setRequired(t)
	t.Chdir(t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
