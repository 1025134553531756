package config

import (
	"fmt"
	"os"
)

// Config holds all environment-backed settings. Load once in main after
// godotenv has populated the environment.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	EmailFrom    string

	// Optional: when set, action broadcasts are relayed through Redis
	// pub/sub so multiple instances share one realtime feed.
	RedisAddr string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "3000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		EmailFrom:    getEnv("EMAIL_FROM", "StatusDeck <noreply@statusdeck.io>"),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return fallback
}
