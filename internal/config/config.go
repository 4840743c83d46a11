// Package config reads process configuration once at startup. Nothing in
// the client touches the environment after LoadConfig returns; the API
// client receives the values by reference.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

const (
	// DefaultBaseURL is a local placeholder matching the dev API.
	DefaultBaseURL = "http://localhost:3001"

	envBaseURL = "ITEMS_API_BASE_URL"
	envSecret  = "ITEMS_API_SECRET"
)

type Config struct {
	BaseURL   string
	APISecret string // sent verbatim as the Authorization header
}

// LoadConfig reads an optional .env file, then the environment.
func LoadConfig() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		BaseURL:   getEnv(envBaseURL, DefaultBaseURL),
		APISecret: getEnv(envSecret, ""),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
