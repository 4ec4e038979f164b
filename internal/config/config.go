// Package config loads service configuration from environment variables,
// with development-friendly defaults for everything except the database
// password.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root of all runtime configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	CORS     CORSConfig
	Engine   EngineConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	PoolMin  int
	PoolMax  int
}

// CORSConfig holds the allowed-origin list.
type CORSConfig struct {
	Origins []string
}

// EngineConfig holds the default growth assumptions scenario projections
// fall back to when a request leaves them unset.
type EngineConfig struct {
	AppreciationRate     float64
	RentGrowthRate       float64
	ExpenseInflationRate float64
	DiscountRate         float64
}

// Load reads configuration from the environment through viper and validates
// it before returning.
func Load() (*Config, error) {
	v := viper.New()

	defaults := map[string]interface{}{
		"PORT":                          "8080",
		"ENV":                           "development",
		"DB_HOST":                       "host.docker.internal",
		"DB_PORT":                       "5432",
		"DB_NAME":                       "patrimonia",
		"DB_USER":                       "postgres",
		"DB_POOL_MIN":                   2,
		"DB_POOL_MAX":                   10,
		"CORS_ORIGINS":                  "http://localhost:3000,http://localhost:3001",
		"ENGINE_APPRECIATION_RATE":      0.02,
		"ENGINE_RENT_GROWTH_RATE":       0.015,
		"ENGINE_EXPENSE_INFLATION_RATE": 0.02,
		"ENGINE_DISCOUNT_RATE":          0.03,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Engine: EngineConfig{
			AppreciationRate:     v.GetFloat64("ENGINE_APPRECIATION_RATE"),
			RentGrowthRate:       v.GetFloat64("ENGINE_RENT_GROWTH_RATE"),
			ExpenseInflationRate: v.GetFloat64("ENGINE_EXPENSE_INFLATION_RATE"),
			DiscountRate:         v.GetFloat64("ENGINE_DISCOUNT_RATE"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks that required settings are present and in range.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"PORT", c.Server.Port},
		{"DB_HOST", c.Database.Host},
		{"DB_PORT", c.Database.Port},
		{"DB_NAME", c.Database.Name},
		{"DB_USER", c.Database.User},
		{"DB_PASSWORD", c.Database.Password},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}

	if c.Database.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.Database.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.Database.PoolMin > c.Database.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}

	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	// Growth assumptions beyond +/-50%/yr are almost certainly a unit
	// mistake (percent given instead of a fraction).
	rates := []struct {
		name     string
		value    float64
		min, max float64
	}{
		{"ENGINE_APPRECIATION_RATE", c.Engine.AppreciationRate, -0.5, 0.5},
		{"ENGINE_RENT_GROWTH_RATE", c.Engine.RentGrowthRate, -0.5, 0.5},
		{"ENGINE_EXPENSE_INFLATION_RATE", c.Engine.ExpenseInflationRate, -0.5, 0.5},
		{"ENGINE_DISCOUNT_RATE", c.Engine.DiscountRate, 0, 0.5},
	}
	for _, r := range rates {
		if r.value < r.min || r.value > r.max {
			return fmt.Errorf("%s must be a fraction between %g and %g", r.name, r.min, r.max)
		}
	}

	return nil
}

// parseOrigins splits a comma-separated origin list, trimming whitespace and
// dropping empty entries.
func parseOrigins(origins string) []string {
	result := []string{}
	for _, part := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
