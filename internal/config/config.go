package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	JWTSecret string
	TokenTTL  time.Duration

	// Auth endpoints rate limit: at most AuthRateLimitMax attempts per
	// AuthRateLimitWindow per client IP.
	AuthRateLimitMax    int
	AuthRateLimitWindow time.Duration

	MentorPlaceholderImage string
	MenteePlaceholderImage string
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		MentorPlaceholderImage: getEnv("MENTOR_PLACEHOLDER_IMAGE_LINK", "https://placehold.co/500x500.jpg?text=MENTOR"),
		MenteePlaceholderImage: getEnv("MENTEE_PLACEHOLDER_IMAGE_LINK", "https://placehold.co/500x500.jpg?text=MENTEE"),
	}

	ttlMinutes, err := strconv.Atoi(getEnv("JWT_TTL_MINUTES", "60"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL_MINUTES: %w", err)
	}
	cfg.TokenTTL = time.Duration(ttlMinutes) * time.Minute

	cfg.AuthRateLimitMax, err = strconv.Atoi(getEnv("AUTH_RATE_LIMIT_MAX", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_RATE_LIMIT_MAX: %w", err)
	}

	cfg.AuthRateLimitWindow, err = time.ParseDuration(getEnv("AUTH_RATE_LIMIT_WINDOW", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_RATE_LIMIT_WINDOW: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
