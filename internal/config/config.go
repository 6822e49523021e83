package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/climacrux/cdr-platform/internal/pricing"
)

type Config struct {
	Port          string
	MetricsPort   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	AutoMigrate   bool
	SeedData      bool
	GinMode       string
	LogLevel      string
	FeePercentage int
	APIKeyScheme  string
}

// Load reads configuration from the environment, after applying an optional
// .env file. An out-of-range FEE_PERCENTAGE is a configuration error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	fee, err := strconv.Atoi(getEnv("FEE_PERCENTAGE", strconv.Itoa(pricing.DefaultFeePercentage)))
	if err != nil {
		return nil, fmt.Errorf("parse FEE_PERCENTAGE: %w", err)
	}
	if _, err := pricing.NewFeeCalculator(fee); err != nil {
		return nil, fmt.Errorf("FEE_PERCENTAGE: %w", err)
	}

	return &Config{
		Port:          getEnv("PORT", "8080"),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "cdr"),
		DBPassword:    getEnv("DB_PASSWORD", "cdr_secret"),
		DBName:        getEnv("DB_NAME", "cdrplatform"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		AutoMigrate:   parseBool(getEnv("AUTO_MIGRATE", "false")),
		SeedData:      parseBool(getEnv("SEED_DATA", "false")),
		GinMode:       getEnv("GIN_MODE", "debug"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		FeePercentage: fee,
		APIKeyScheme:  getEnv("API_KEY_HEADER_SCHEME", "Api-Key"),
	}, nil
}

func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
