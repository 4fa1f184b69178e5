package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, "GymWear", cfg.Shop.Name)
	assert.Equal(t, 587, cfg.Shop.SMTPPort)
	assert.Empty(t, cfg.Shop.EmailAPIKey)
	assert.Equal(t, 5.0, cfg.Shop.EmailRateLimit)
	assert.Equal(t, 10, cfg.Shop.EmailRateBurst)
	assert.Equal(t, []string{"http://localhost:4200", "http://localhost:8080"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SHOP_NAME", "Acme")
	t.Setenv("MAIL_FROM", "orders@acme.test")
	t.Setenv("SMTP_HOST", "smtp.acme.test")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("DATABASE_CONN_MAX_LIFETIME", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "Acme", cfg.Shop.Name)
	assert.Equal(t, "smtp.acme.test", cfg.Shop.SMTPHost)
	assert.Equal(t, "orders@acme.test", cfg.Shop.SMTPUsername, "username falls back to the sender address")
	assert.Equal(t, time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-number")

	_, err := Load()
	assert.Error(t, err)
}
