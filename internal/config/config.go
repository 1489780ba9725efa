package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config collects everything the panel reads from the environment.
type Config struct {
	ListenAddr     string        // PANEL_LISTEN_ADDR
	BackendURL     string        // BACKEND_API_URL, management backend base path
	BackendTimeout time.Duration // BACKEND_TIMEOUT_SECONDS
	BotTimeout     time.Duration // BOT_TIMEOUT_SECONDS, per-bot facet requests
	JWTSecret      string        // JWT_SECRET, signs panel session tokens
	SessionDBPath  string        // SESSION_DB_PATH
	LogLevel       string        // LOG_LEVEL

	// Optional ops alerting.
	TelegramToken  string // TELEGRAM_BOT_TOKEN
	TelegramChatID int64  // TELEGRAM_CHAT_ID
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:     getEnv("PANEL_LISTEN_ADDR", "0.0.0.0:8080"),
		BackendURL:     os.Getenv("BACKEND_API_URL"),
		BackendTimeout: secondsEnv("BACKEND_TIMEOUT_SECONDS", 10),
		BotTimeout:     secondsEnv("BOT_TIMEOUT_SECONDS", 10),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		SessionDBPath:  getEnv("SESSION_DB_PATH", "sessions.db"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
	}

	if chat := os.Getenv("TELEGRAM_CHAT_ID"); chat != "" {
		id, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_API_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.BackendTimeout <= 0 || c.BotTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func secondsEnv(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
	}
	return time.Duration(fallback) * time.Second
}
