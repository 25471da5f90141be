package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultRequestTimeout = 30 * time.Second
	defaultPollInterval   = 30 * time.Second
	defaultRatePerSecond  = 10
	defaultRateBurst      = 20
)

type Config struct {
	StoreBaseURL   string
	AccessToken    string
	AppEnv         string
	RequestTimeout time.Duration
	PollInterval   time.Duration
	RatePerSecond  float64
	RateBurst      int
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		StoreBaseURL:   os.Getenv("STORE_BASE_URL"),
		AccessToken:    os.Getenv("ACCESS_TOKEN"),
		AppEnv:         os.Getenv("APP_ENV"),
		RequestTimeout: durationEnv("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeout),
		PollInterval:   durationEnv("POLL_INTERVAL_SECONDS", defaultPollInterval),
		RatePerSecond:  floatEnv("STORE_RATE_PER_SECOND", defaultRatePerSecond),
		RateBurst:      intEnv("STORE_RATE_BURST", defaultRateBurst),
	}

	if cfg.StoreBaseURL == "" {
		log.Fatal("STORE_BASE_URL not set; environment variables not loaded properly")
	}

	return cfg
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}

func floatEnv(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
