package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	HTTPAddr     string
	DBDSN        string
	LogLevel     string
	Register     Register
}

// Register holds property-level settings loaded from an optional YAML file.
// Missing fields fall back to the built-in defaults.
type Register struct {
	DefaultRooms []string     `yaml:"default_rooms"`
	Feed         FeedSettings `yaml:"feed"`
}

// FeedSettings controls how external iCal feeds are fetched.
type FeedSettings struct {
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`
	SyncCron            string `yaml:"sync_cron"`
}

// FetchTimeout returns the feed HTTP timeout as a duration.
func (f FeedSettings) FetchTimeout() time.Duration {
	return time.Duration(f.FetchTimeoutSeconds) * time.Second
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == PROD_STRING

	// HTTP listen address (default: :8080)
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	// Log level for logrus (default: info)
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// Property register file is optional; defaults cover a fresh install.
	reg, err := LoadRegister(getEnv("REGISTER_CONFIG", ""))
	if err != nil {
		return nil, err
	}
	cfg.Register = *reg

	return cfg, nil
}

// LoadRegister reads property settings from the YAML file at path.
// An empty path yields the built-in defaults.
func LoadRegister(path string) (*Register, error) {
	reg := &Register{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read register config: %w", err)
		}
		if err := yaml.Unmarshal(data, reg); err != nil {
			return nil, fmt.Errorf("parse register config: %w", err)
		}
	}

	reg.applyDefaults()
	return reg, nil
}

func (r *Register) applyDefaults() {
	if len(r.DefaultRooms) == 0 {
		r.DefaultRooms = []string{"Camera 1", "Camera 2", "Appartamento"}
	}
	if r.Feed.FetchTimeoutSeconds <= 0 {
		r.Feed.FetchTimeoutSeconds = 20
	}
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}
