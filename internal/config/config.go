package config

import (
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	RunAddress            string
	PaymentServiceAddress string
	TokenFile             string
	RefreshInterval       time.Duration
}

func New() *Config {
	// .env is optional; real env vars win over it either way.
	_ = godotenv.Load()

	cfg := &Config{}

	var refreshInterval string
	flag.StringVar(&cfg.RunAddress, "a", "localhost:3000", "dashboard address and port")
	flag.StringVar(&cfg.PaymentServiceAddress, "r", "http://localhost:8080/api/v1", "payment service base URL")
	flag.StringVar(&cfg.TokenFile, "t", ".paywatch-token", "session token file (empty keeps the token in memory)")
	flag.StringVar(&refreshInterval, "i", "0s", "pending status refresh interval (0 disables)")
	flag.Parse()

	cfg.RunAddress = getEnv("RUN_ADDRESS", cfg.RunAddress)
	cfg.PaymentServiceAddress = getEnv("PAYMENT_SERVICE_ADDRESS", cfg.PaymentServiceAddress)
	cfg.TokenFile = getEnv("TOKEN_FILE", cfg.TokenFile)
	cfg.RefreshInterval = parseDuration(getEnv("REFRESH_INTERVAL", refreshInterval), 0)

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
