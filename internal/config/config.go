// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/hamzaghanim/taqwim-api/internal/schedule"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Gazetteer database
	DatabasePath string // Path to SQLite file

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Calculation defaults applied when a request leaves them unset.
	DefaultDawnAngle   float64
	DefaultDuskAngle   float64
	DefaultHighLatMode string
	MaxRangeDays       int // upper bound on range queries
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Load reads configuration from environment variables. In development a
// .env file is loaded first if present; in production env vars are set
// directly and the missing file is a no-op.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnvInt("PORT", 8080),
		Env:          getEnv("ENV", EnvDevelopment),
		DatabasePath: getEnv("DATABASE_PATH", "./data/places.db"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),

		DefaultDawnAngle:   getEnvFloat("DEFAULT_DAWN_ANGLE", schedule.DefaultTwilightAngle),
		DefaultDuskAngle:   getEnvFloat("DEFAULT_DUSK_ANGLE", schedule.DefaultTwilightAngle),
		DefaultHighLatMode: getEnv("DEFAULT_HIGH_LAT_MODE", "none"),
		MaxRangeDays:       getEnvInt("MAX_RANGE_DAYS", 366),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if c.DefaultDawnAngle < schedule.MinTwilightAngle || c.DefaultDawnAngle > schedule.MaxTwilightAngle {
		errs = append(errs, fmt.Errorf("DEFAULT_DAWN_ANGLE must be in [%g, %g], got %g",
			schedule.MinTwilightAngle, schedule.MaxTwilightAngle, c.DefaultDawnAngle))
	}
	if c.DefaultDuskAngle < schedule.MinTwilightAngle || c.DefaultDuskAngle > schedule.MaxTwilightAngle {
		errs = append(errs, fmt.Errorf("DEFAULT_DUSK_ANGLE must be in [%g, %g], got %g",
			schedule.MinTwilightAngle, schedule.MaxTwilightAngle, c.DefaultDuskAngle))
	}
	if _, err := schedule.ParseHighLatitudeMode(c.DefaultHighLatMode); err != nil {
		errs = append(errs, fmt.Errorf("DEFAULT_HIGH_LAT_MODE: %w", err))
	}
	if c.MaxRangeDays < 1 {
		errs = append(errs, fmt.Errorf("MAX_RANGE_DAYS must be positive, got %d", c.MaxRangeDays))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat reads an environment variable as a float with a default fallback.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
