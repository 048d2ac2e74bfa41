// Package config loads client configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds everything the client needs to start.
type Config struct {
	// APIBaseURL is the backend root, including the /api prefix.
	APIBaseURL string

	// StorePath is the SQLite file holding persisted client state.
	StorePath string

	// TimeoutSeconds bounds each backend round trip.
	TimeoutSeconds int

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Load reads configuration from the environment. A missing .env file is not
// an error; explicit environment variables always win over defaults.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:     getEnvAsString("AUCTION_API_URL", "http://localhost:8081/api"),
		StorePath:      getEnvAsString("AUCTION_STORE_PATH", "auction-client.db"),
		TimeoutSeconds: getEnvAsInt("AUCTION_HTTP_TIMEOUT_SECONDS", 10),
		LogLevel:       getEnvAsString("AUCTION_LOG_LEVEL", "info"),
	}
}

func getEnvAsString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return valueInt
}
