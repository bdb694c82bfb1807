package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/Simplici0/fraktkalkulator/internal/pricing"
)

const (
	defaultEnv       = "development"
	defaultDBPath    = "./fraktkalkulator.db"
	defaultPort      = "8080"
	defaultLogLevel  = "info"
	defaultLogFormat = "json"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	Port          string
	DBPath        string
	LogLevel      string
	LogFormat     string
	Pricing       pricing.Options
	AdminEmail    string
	AdminPassword string
	SessionSecret string

	warnings []string
}

// Load reads environment variables and returns a populated Config. Values
// that cannot be parsed fall back to their defaults and are reported by
// Warnings.
func Load() Config {
	return load(".env")
}

func load(dotenvPath string) Config {
	var warnings []string

	// Local development convenience; real deployments inject the environment.
	if err := loadDotEnv(dotenvPath); err != nil {
		warnings = append(warnings, "could not read "+dotenvPath+": "+err.Error())
	}

	cfg := Config{
		Env:           envOr("APP_ENV", defaultEnv),
		Port:          envOr("PORT", defaultPort),
		DBPath:        envOr("DB_PATH", defaultDBPath),
		LogLevel:      envOr("LOG_LEVEL", defaultLogLevel),
		LogFormat:     envOr("LOG_FORMAT", defaultLogFormat),
		Pricing:       pricing.DefaultOptions(),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
	}

	if raw := os.Getenv("ROUNDING_POLICY"); raw != "" {
		rounding, err := pricing.ParseRounding(raw)
		if err != nil {
			warnings = append(warnings, "ROUNDING_POLICY: "+err.Error())
		} else {
			cfg.Pricing.Rounding = rounding
		}
	}

	if raw := os.Getenv("RAMP_SURCHARGE"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			warnings = append(warnings, "RAMP_SURCHARGE must be true or false")
		} else {
			cfg.Pricing.RampTracking = enabled
		}
	}

	if cfg.AdminEmail == "" {
		warnings = append(warnings, "ADMIN_EMAIL is not set")
	}
	if cfg.AdminPassword == "" {
		warnings = append(warnings, "ADMIN_PASSWORD is not set")
	}
	if cfg.SessionSecret == "" {
		warnings = append(warnings, "SESSION_SECRET is not set")
	}

	cfg.warnings = warnings
	return cfg
}

// IsDev reports whether the app runs in a development environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "development", "local":
		return true
	}
	return false
}

// Warnings lists configuration problems found by Load.
func (c Config) Warnings() []string {
	return c.warnings
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
