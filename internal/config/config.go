package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"household-organizer/internal/calendar"
)

// Config holds the configuration for the application.
type Config struct {
	// WeekStartsOn is the first day of a planning week.
	WeekStartsOn time.Weekday
	// DatabasePath enables the SQLite meal plan store. Empty keeps the plan in memory.
	DatabasePath string
	// ExportPath is the directory grocery list snapshots are written to.
	ExportPath   string
	Port         string

	// Telegram Config
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	weekStartsOn := time.Monday
	if v := os.Getenv("WEEK_STARTS_ON"); v != "" {
		d, err := calendar.ParseWeekday(v)
		if err != nil {
			return nil, fmt.Errorf("WEEK_STARTS_ON: %w", err)
		}
		weekStartsOn = d
	}

	exportPath := os.Getenv("EXPORT_PATH")
	if exportPath == "" {
		exportPath = "data/exports"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	allowed, err := parseUserIDs(os.Getenv("TELEGRAM_ALLOW_USER_IDS"))
	if err != nil {
		return nil, err
	}

	return &Config{
		WeekStartsOn:           weekStartsOn,
		DatabasePath:           os.Getenv("DATABASE_PATH"),
		ExportPath:             exportPath,
		Port:                   port,
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowed,
	}, nil
}

// RequireTelegram checks the settings the Telegram bot cannot start without.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	return nil
}

func parseUserIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("TELEGRAM_ALLOW_USER_IDS: invalid user id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
