package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	QuoteProviderZenQuotes = "zenquotes"
	QuoteProviderGemini    = "gemini"
)

type Config struct {
	DatabaseURL string `yaml:"databaseURL"`
	HTTPPort    string `yaml:"httpPort"`
	LogLevel    string `yaml:"logLevel"`

	JWTSecret      string `yaml:"jwtSecret"`
	AccessPasscode string `yaml:"accessPasscode"`

	DailyGoalMl float64 `yaml:"dailyGoalMl"`
	WindowDays  int     `yaml:"windowDays"`

	QuoteProvider string `yaml:"quoteProvider"`
	QuoteURL      string `yaml:"quoteURL"`
	GeminiAPIKey  string `yaml:"geminiAPIKey"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`

	ReminderStartHour     int `yaml:"reminderStartHour"`
	ReminderEndHour       int `yaml:"reminderEndHour"`
	ReminderIntervalHours int `yaml:"reminderIntervalHours"`

	HealthEnabled bool `yaml:"healthEnabled"`
}

func defaults() Config {
	return Config{
		DatabaseURL:           "welltrack.db",
		HTTPPort:              "8080",
		LogLevel:              "INFO",
		DailyGoalMl:           2000,
		WindowDays:            7,
		QuoteProvider:         QuoteProviderZenQuotes,
		QuoteURL:              "https://zenquotes.io/api/random",
		ReminderStartHour:     8,
		ReminderEndHour:       20,
		ReminderIntervalHours: 2,
		HealthEnabled:         true,
	}
}

// Load layers configuration: built-in defaults, then the YAML file at path
// (if any), then environment variables, which may come from a .env file.
func Load(path string) (*Config, error) {
	// A missing .env is normal; the environment is used as is.
	_ = godotenv.Load()

	cfg := defaults()
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.HTTPPort = getEnv("HTTP_PORT", cfg.HTTPPort)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.JWTSecret = getEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.AccessPasscode = getEnv("ACCESS_PASSCODE", cfg.AccessPasscode)
	cfg.DailyGoalMl = getEnvAsFloat("DAILY_GOAL_ML", cfg.DailyGoalMl)
	cfg.WindowDays = getEnvAsInt("WINDOW_DAYS", cfg.WindowDays)
	cfg.QuoteProvider = strings.ToLower(getEnv("QUOTE_PROVIDER", cfg.QuoteProvider))
	cfg.QuoteURL = getEnv("QUOTE_URL", cfg.QuoteURL)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.ReminderStartHour = getEnvAsInt("REMINDER_START_HOUR", cfg.ReminderStartHour)
	cfg.ReminderEndHour = getEnvAsInt("REMINDER_END_HOUR", cfg.ReminderEndHour)
	cfg.ReminderIntervalHours = getEnvAsInt("REMINDER_INTERVAL_HOURS", cfg.ReminderIntervalHours)
	cfg.HealthEnabled = getEnvAsBool("HEALTH_ENABLED", cfg.HealthEnabled)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.AccessPasscode == "" {
		errs = append(errs, errors.New("ACCESS_PASSCODE is required"))
	}
	if c.DailyGoalMl <= 0 {
		errs = append(errs, errors.New("DAILY_GOAL_ML must be positive"))
	}
	if c.WindowDays <= 0 {
		errs = append(errs, errors.New("WINDOW_DAYS must be positive"))
	}
	switch c.QuoteProvider {
	case QuoteProviderZenQuotes:
	case QuoteProviderGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini quote provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown QUOTE_PROVIDER %q", c.QuoteProvider))
	}
	if c.ReminderStartHour < 0 || c.ReminderEndHour > 23 || c.ReminderStartHour > c.ReminderEndHour {
		errs = append(errs, errors.New("reminder hours must satisfy 0 <= start <= end <= 23"))
	}
	if c.ReminderIntervalHours <= 0 {
		errs = append(errs, errors.New("REMINDER_INTERVAL_HOURS must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
