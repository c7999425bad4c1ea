package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	BackendGoogle = "google"
	BackendCalDAV = "caldav"
)

type Config struct {
	TelegramToken  string
	AllowedChatIDs []int64 // empty means everyone is allowed
	DatabasePath   string
	Timezone       *time.Location

	// Calendar backend selection and credentials.
	CalendarBackend    string
	GoogleClientID     string
	GoogleClientSecret string
	CalDAVURL          string
	CalDAVUsername     string
	CalDAVPassword     string
	CalDAVCalendarPath string

	BriefingTime string // "HH:MM", empty disables the morning briefing

	WebhookURL  string
	ServerPort  string
	APIUsername string
	APIPassword string
}

func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	var allowed []int64
	if raw := os.Getenv("ALLOWED_CHAT_IDS"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid ALLOWED_CHAT_IDS entry %q", part)
			}
			allowed = append(allowed, id)
		}
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/planpal.db"
	}

	tzName := os.Getenv("TIMEZONE")
	if tzName == "" {
		tzName = "Europe/Amsterdam"
	}
	tz, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}

	backend := os.Getenv("CALENDAR_BACKEND")
	if backend == "" {
		backend = BackendGoogle
	}
	if backend != BackendGoogle && backend != BackendCalDAV {
		return nil, fmt.Errorf("invalid CALENDAR_BACKEND %q (want %s or %s)", backend, BackendGoogle, BackendCalDAV)
	}

	cfg := &Config{
		TelegramToken:      token,
		AllowedChatIDs:     allowed,
		DatabasePath:       dbPath,
		Timezone:           tz,
		CalendarBackend:    backend,
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		CalDAVURL:          os.Getenv("CALDAV_URL"),
		CalDAVUsername:     os.Getenv("CALDAV_USERNAME"),
		CalDAVPassword:     os.Getenv("CALDAV_PASSWORD"),
		CalDAVCalendarPath: os.Getenv("CALDAV_CALENDAR_PATH"),
		BriefingTime:       os.Getenv("BRIEFING_TIME"),
		WebhookURL:         os.Getenv("WEBHOOK_URL"),
		ServerPort:         os.Getenv("SERVER_PORT"),
		APIUsername:        os.Getenv("API_USERNAME"),
		APIPassword:        os.Getenv("API_PASSWORD"),
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = "8080"
	}

	if backend == BackendGoogle && (cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "") {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET are required for the google backend")
	}

	if cfg.BriefingTime != "" {
		if _, err := time.Parse("15:04", cfg.BriefingTime); err != nil {
			return nil, fmt.Errorf("invalid BRIEFING_TIME %q: want HH:MM", cfg.BriefingTime)
		}
	}

	return cfg, nil
}

// IsAllowedChat reports whether the chat may use the bot. An empty allowlist
// admits everyone.
func (c *Config) IsAllowedChat(chatID int64) bool {
	if len(c.AllowedChatIDs) == 0 {
		return true
	}
	for _, id := range c.AllowedChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}
