// Package config
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Address        string
	Mode           string
	DBPath         string
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string

	JWTSecret string
	JWTExpiry time.Duration

	AdminEmail    string
	AdminPassword string

	GaugeRefreshInterval time.Duration
	GaugeIdleTTL         time.Duration
	GaugeMaxConcurrency  int

	MetricsAPIToken string
	MetricsTimeout  time.Duration
}

const (
	ModeServe    = "serve"
	ModeSnapshot = "snapshot"
)

func Load() *Config {
	godotenv.Load()

	mode := strings.ToLower(env("MODE", ModeServe))
	if mode != ModeSnapshot {
		mode = ModeServe
	}

	return &Config{
		Address:        env("HTTP_ADDR", ":3000"),
		Mode:           mode,
		DBPath:         env("DB_PATH", "horizonx-gauge.db"),
		LogLevel:       env("LOG_LEVEL", "info"),
		LogFormat:      env("LOG_FORMAT", "text"),
		AllowedOrigins: envList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTExpiry: envDuration("JWT_EXPIRY", 24*time.Hour),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		GaugeRefreshInterval: envDuration("GAUGE_REFRESH_INTERVAL", 5*time.Second),
		GaugeIdleTTL:         envDuration("GAUGE_IDLE_TTL", 10*time.Minute),
		GaugeMaxConcurrency:  envInt("GAUGE_MAX_CONCURRENCY", 8),

		MetricsAPIToken: os.Getenv("METRICS_API_TOKEN"),
		MetricsTimeout:  envDuration("METRICS_TIMEOUT", 10*time.Second),
	}
}

func env(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
