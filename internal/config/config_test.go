package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// unsetenv clears key for the test; t.Setenv first so the prior value is
// restored on cleanup.
func unsetenv(t *testing.T, key string) {
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadConfigDefaults(t *testing.T) {
	unsetenv(t, envBaseURL)
	unsetenv(t, envSecret)

	cfg := LoadConfig()
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "", cfg.APISecret)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv(envBaseURL, "https://items.example.com")
	t.Setenv(envSecret, "s3cret")

	cfg := LoadConfig()
	assert.Equal(t, "https://items.example.com", cfg.BaseURL)
	assert.Equal(t, "s3cret", cfg.APISecret)
}

func TestGetEnvPrefersSetValue(t *testing.T) {
	t.Setenv("ITEMS_TEST_KEY", "set")
	assert.Equal(t, "set", getEnv("ITEMS_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getEnv("ITEMS_TEST_KEY_MISSING", "fallback"))
}
