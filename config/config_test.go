package config_test

import (
	"testing"
	"time"

	"github.com/skycast/auth-service/config"
	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/auth")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg := config.Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, "postgres://localhost:5432/auth", cfg.DBURL)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.SessionExpiry)
	assert.Equal(t, 30*24*time.Hour, cfg.RememberMeExpiry)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 5, cfg.MaxFailedAttempts)
	assert.Equal(t, 30*time.Minute, cfg.LockoutDuration)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 5, cfg.RateLimitMax)
	assert.Equal(t, time.Hour, cfg.ResetTokenLifetime)
	assert.Equal(t, "noreply@skycast.app", cfg.FromEmail)
	assert.Equal(t, "http://localhost:5173", cfg.FrontendURL)
	assert.Equal(t, "Skycast", cfg.TOTPIssuer)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_URL", "postgres://db:5432/auth")
	t.Setenv("JWT_SECRET", "other-secret")
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("MAX_FAILED_ATTEMPTS", "10")
	t.Setenv("LOCKOUT_DURATION", "1h")
	t.Setenv("RATE_LIMIT_MAX_ATTEMPTS", "20")

	cfg := config.Load()

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.MaxFailedAttempts)
	assert.Equal(t, time.Hour, cfg.LockoutDuration)
	assert.Equal(t, 20, cfg.RateLimitMax)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_URL", "postgres://db:5432/auth")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("SESSION_EXPIRY", "soon")

	cfg := config.Load()

	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, 24*time.Hour, cfg.SessionExpiry)
}
