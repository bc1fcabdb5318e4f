package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port          int
	APIKey        string
	ReportURL     string
	ReportTurns   int
	ScamThreshold float64
	NatsURL       string
	NatsToken     string
	DatabaseURL   string
	LogLevel      string
}

func Load() Config {
	return Config{
		Port:          envInt("DECOY_PORT", 8760),
		APIKey:        envStr("DECOY_API_KEY", ""),
		ReportURL:     envStr("REPORT_CALLBACK_URL", ""),
		ReportTurns:   envInt("REPORT_TURNS", 3),
		ScamThreshold: envFloat("SCAM_THRESHOLD", 0.3),
		NatsURL:       envStr("NATS_URL", ""),
		NatsToken:     envStr("NATS_TOKEN", ""),
		DatabaseURL:   envStr("DATABASE_URL", ""),
		LogLevel:      envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
