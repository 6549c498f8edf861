// Package config loads service settings from a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every setting of the service
type Config struct {
	TelegramToken string `env:"TELEGRAM_BOT_TOKEN,required"`

	DBType      string `env:"DB_TYPE" envDefault:"sqlite"`
	DBPath      string `env:"DB_PATH" envDefault:"data/pewma.db"`
	DatabaseURL string `env:"DATABASE_URL"`

	SessionDir  string `env:"SESSION_DIR" envDefault:"data/sessions"`
	CatalogFile string `env:"CATALOG_FILE"`
	Timezone    string `env:"TIMEZONE" envDefault:"Local"`

	DefaultDailyGoal int    `env:"DEFAULT_DAILY_GOAL" envDefault:"20"`
	EnableScheduler  bool   `env:"ENABLE_SCHEDULER" envDefault:"true"`
	ReminderHour     int    `env:"REMINDER_HOUR" envDefault:"18"`
	RolloverTime     string `env:"ROLLOVER_TIME" envDefault:"00:05"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the optional .env files, then parses and validates the environment.
// Variables already set in the environment take precedence over the files.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values env tags cannot express
func (c *Config) Validate() error {
	switch c.DBType {
	case "sqlite":
		if c.DBPath == "" {
			return errors.New("config: DB_PATH is required for sqlite")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("config: unsupported DB_TYPE %q", c.DBType)
	}

	if c.DefaultDailyGoal <= 0 {
		return fmt.Errorf("config: DEFAULT_DAILY_GOAL must be positive, got %d", c.DefaultDailyGoal)
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		return fmt.Errorf("config: REMINDER_HOUR must be between 0 and 23, got %d", c.ReminderHour)
	}
	if _, err := time.Parse("15:04", c.RolloverTime); err != nil {
		return fmt.Errorf("config: ROLLOVER_TIME %q: %w", c.RolloverTime, err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// Location resolves TIMEZONE, used to decide where a calendar day ends
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level
func (c *Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("config: LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}
