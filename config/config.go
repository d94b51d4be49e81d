package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string // "postgres" or "sqlite"
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration (optional: empty host disables caching and
	// rate limiting)
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Vision capability configuration
	VisionAPIKey string
	VisionAPIURL string
	VisionModel  string

	// Recipe generation capability configuration
	LLMAPIKey string
	LLMAPIURL string
	LLMModel  string

	// Pipeline tuning
	MaxImageBytes       int64
	ConfidenceThreshold float64
	RequestTimeout      time.Duration

	// Optional S3 photo archive
	S3Bucket  string
	AWSRegion string
}

// LoadConfig creates a new Config instance from environment variables.
// API keys may come from *_FILE secret files instead of the environment;
// a missing key is not an error here, the owning service reports the
// not-configured condition before any external call.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	// sqlite is a development convenience; production defaults to
	// postgres and ValidateConfig refuses anything else there.
	defaultDriver := "sqlite"
	if env == Production {
		defaultDriver = "postgres"
	}

	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBDriver:   getEnv("DB_DRIVER", defaultDriver),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "fridgevision"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "fridgevision"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),
		SQLitePath: getEnv("SQLITE_PATH", "fridgevision.db"),

		RedisHost:     os.Getenv("REDIS_HOST"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisURL:      os.Getenv("REDIS_URL"),

		VisionAPIURL: getEnv("VISION_API_URL", "https://api.openai.com/v1/chat/completions"),
		VisionModel:  getEnv("VISION_MODEL", "gpt-4o-mini"),

		LLMAPIURL: getEnv("LLM_API_URL", "https://api.openai.com/v1/chat/completions"),
		LLMModel:  getEnv("LLM_MODEL", "gpt-4o-mini"),

		S3Bucket:  os.Getenv("S3_BUCKET_NAME"),
		AWSRegion: os.Getenv("AWS_REGION"),
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			cfg.RedisDB = db
		}
	}

	var err error
	cfg.VisionAPIKey, err = loadAPIKey("VISION_API_KEY")
	if err != nil {
		return nil, err
	}
	cfg.LLMAPIKey, err = loadAPIKey("LLM_API_KEY")
	if err != nil {
		return nil, err
	}

	cfg.MaxImageBytes = getEnvInt64("MAX_IMAGE_BYTES", 10<<20)
	cfg.ConfidenceThreshold = getEnvFloat("CONFIDENCE_THRESHOLD", 0.6)
	cfg.RequestTimeout = time.Duration(getEnvInt64("REQUEST_TIMEOUT_SECONDS", 30)) * time.Second

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadAPIKey reads a key from the environment, falling back to a secret
// file named by <name>_FILE. An absent key yields an empty string.
func loadAPIKey(name string) (string, error) {
	if key := os.Getenv(name); key != "" {
		return key, nil
	}
	keyFile := os.Getenv(name + "_FILE")
	if keyFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(keyFile)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name+"_FILE", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// ValidateConfig checks invariants that would otherwise fail at runtime.
// Requirements tighten with the environment: production must run on
// postgres with real credentials.
func ValidateConfig(cfg *Config) error {
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if GetEnvironment() == Production {
		if cfg.DBDriver != "postgres" {
			return fmt.Errorf("DB_DRIVER must be postgres in production")
		}
		if cfg.DBPassword == "" {
			return fmt.Errorf("DB_PASSWORD is required in production")
		}
	}
	if cfg.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be positive")
	}
	if cfg.ConfidenceThreshold < 0 || cfg.ConfidenceThreshold > 1 {
		return fmt.Errorf("CONFIDENCE_THRESHOLD must be in [0,1]")
	}
	return nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(name string, fallback int64) int64 {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(name string, fallback float64) float64 {
	if v := os.Getenv(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
