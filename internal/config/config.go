package config

import (
	"errors"
	"os"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// WhatsApp Cloud API credentials
	WhatsAppToken   string
	PhoneNumberID   string
	VerifyToken     string
	AdminPhone      string
	GraphAPIVersion string

	// Gemini fallback assistant
	GeminiAPIKey  string
	GeminiModelID string

	// Storage
	DatabaseURL string
	RedisAddr   string
	RedisPassword string

	// Follow-up sweep
	SweepInterval      time.Duration
	StalenessThreshold time.Duration
}

// ErrMissingWhatsAppCredentials is returned by Validate when the bot cannot send messages.
var ErrMissingWhatsAppCredentials = errors.New("config: WHATSAPP_TOKEN and PHONE_NUMBER_ID are required")

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		WhatsAppToken:   getEnv("WHATSAPP_TOKEN", ""),
		PhoneNumberID:   getEnv("PHONE_NUMBER_ID", ""),
		VerifyToken:     getEnv("VERIFY_TOKEN", "mytoken123"),
		AdminPhone:      getEnv("ADMIN_PHONE", ""),
		GraphAPIVersion: getEnv("GRAPH_API_VERSION", "v22.0"),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		SweepInterval:      getEnvAsDuration("SWEEP_INTERVAL", time.Hour),
		StalenessThreshold: getEnvAsDuration("STALENESS_THRESHOLD", 24*time.Hour),
	}
}

// Validate checks the credentials the bot cannot run without.
func (c *Config) Validate() error {
	if c.WhatsAppToken == "" || c.PhoneNumberID == "" {
		return ErrMissingWhatsAppCredentials
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
