package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvVars = []string{
	"PORT", "ENV",
	"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
	"DB_POOL_MIN", "DB_POOL_MAX",
	"CORS_ORIGINS",
	"ENGINE_APPRECIATION_RATE", "ENGINE_RENT_GROWTH_RATE",
	"ENGINE_EXPENSE_INFLATION_RATE", "ENGINE_DISCOUNT_RATE",
}

// resetEnv unsets every configuration variable so a test starts from the
// built-in defaults.
func resetEnv(t *testing.T) {
	t.Helper()
	for _, name := range configEnvVars {
		require.NoError(t, os.Unsetenv(name))
	}
}

// validConfig is a baseline that passes Validate; tests mutate one field at
// a time.
func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: "8080", Env: "development"},
		Database: DatabaseConfig{
			Host: "localhost", Port: "5432", Name: "patrimonia",
			User: "postgres", Password: "postgres", PoolMin: 2, PoolMax: 10,
		},
		CORS: CORSConfig{Origins: []string{"http://localhost:3000"}},
		Engine: EngineConfig{
			AppreciationRate:     0.02,
			RentGrowthRate:       0.015,
			ExpenseInflationRate: 0.02,
			DiscountRate:         0.03,
		},
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	resetEnv(t)
	t.Setenv("DB_PASSWORD", "secret") // the only setting with no default

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Env)
	assert.Equal(t, "host.docker.internal", cfg.Database.Host)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, "patrimonia", cfg.Database.Name)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, 2, cfg.Database.PoolMin)
	assert.Equal(t, 10, cfg.Database.PoolMax)
	assert.Len(t, cfg.CORS.Origins, 2)
}

func TestLoadReadsEnvironment(t *testing.T) {
	resetEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_NAME", "portfolio")
	t.Setenv("DB_USER", "svc")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_POOL_MIN", "5")
	t.Setenv("DB_POOL_MAX", "20")
	t.Setenv("CORS_ORIGINS", "http://example.com,https://app.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "production", cfg.Server.Env)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "5433", cfg.Database.Port)
	assert.Equal(t, "portfolio", cfg.Database.Name)
	assert.Equal(t, "svc", cfg.Database.User)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 5, cfg.Database.PoolMin)
	assert.Equal(t, 20, cfg.Database.PoolMax)
	assert.Equal(t, []string{"http://example.com", "https://app.example.com"}, cfg.CORS.Origins)
}

func TestLoadEngineDefaults(t *testing.T) {
	resetEnv(t)
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.02, cfg.Engine.AppreciationRate, 1e-12)
	assert.InDelta(t, 0.015, cfg.Engine.RentGrowthRate, 1e-12)
	assert.InDelta(t, 0.02, cfg.Engine.ExpenseInflationRate, 1e-12)
	assert.InDelta(t, 0.03, cfg.Engine.DiscountRate, 1e-12)
}

func TestLoadFailsWithoutPassword(t *testing.T) {
	resetEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
}

func TestValidateRequiredStrings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing port", func(c *Config) { c.Server.Port = "" }},
		{"missing db host", func(c *Config) { c.Database.Host = "" }},
		{"missing db name", func(c *Config) { c.Database.Name = "" }},
		{"missing db user", func(c *Config) { c.Database.User = "" }},
		{"missing db password", func(c *Config) { c.Database.Password = "" }},
		{"missing cors origins", func(c *Config) { c.CORS.Origins = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidatePoolBounds(t *testing.T) {
	tests := []struct {
		name    string
		min     int
		max     int
		wantErr bool
	}{
		{"negative minimum", -1, 10, true},
		{"zero maximum", 0, 0, true},
		{"minimum above maximum", 15, 10, true},
		{"sane bounds", 2, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Database.PoolMin = tt.min
			cfg.Database.PoolMax = tt.max

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateEngineRates(t *testing.T) {
	t.Run("percent instead of fraction is rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Engine.AppreciationRate = 3.0
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative discount rate is rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Engine.DiscountRate = -0.01
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative appreciation within range is accepted", func(t *testing.T) {
		cfg := validConfig()
		cfg.Engine.AppreciationRate = -0.05
		assert.NoError(t, cfg.Validate())
	})
}

func TestParseOrigins(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", "http://localhost:3000", []string{"http://localhost:3000"}},
		{"several", "http://a.example,http://b.example", []string{"http://a.example", "http://b.example"}},
		{"padded", " http://a.example , http://b.example ", []string{"http://a.example", "http://b.example"}},
		{"empty", "", []string{}},
		{"commas only", ",,,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOrigins(tt.input))
		})
	}
}
