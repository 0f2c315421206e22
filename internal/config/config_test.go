package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/shareit")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDev, cfg.Env)
	assert.False(t, cfg.IsProduction)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
	assert.Equal(t, 15*time.Minute, cfg.JWTAccessTokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 30*time.Second, cfg.SearchCacheTTL)
	assert.InDelta(t, 10.0, cfg.RateLimitRPS, 0.0001)
	assert.Equal(t, 20, cfg.RateLimitBurst)
	assert.False(t, cfg.BookingPreventOverlap)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PROD_ORIGINS", "https://shareit.example")
	t.Setenv("JWT_ACCESS_TOKEN_TTL", "1h")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("BOOKING_PREVENT_OVERLAP", "true")
	t.Setenv("METRICS_ADDR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction)
	assert.Equal(t, time.Hour, cfg.JWTAccessTokenTTL)
	assert.InDelta(t, 2.5, cfg.RateLimitRPS, 0.0001)
	assert.True(t, cfg.BookingPreventOverlap)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing dsn", map[string]string{"DB_DSN": "", "JWT_SECRET": "s"}},
		{"missing secret", map[string]string{"DB_DSN": "d", "JWT_SECRET": ""}},
		{"bad env", map[string]string{"APP_ENV": "staging"}},
		{"prod without origins", map[string]string{"APP_ENV": "prod", "PROD_ORIGINS": ""}},
		{"bad ttl", map[string]string{"JWT_ACCESS_TOKEN_TTL": "soon"}},
		{"bad cost", map[string]string{"BCRYPT_COST": "high"}},
		{"bad overlap flag", map[string]string{"BOOKING_PREVENT_OVERLAP": "sometimes"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
