package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("fails without JWT_SECRET", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		cfg, err := Load()

		assert.Error(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8080, cfg.Server.Port)
		assert.Equal(t, "development", cfg.Server.Env)
		assert.Equal(t, "medilink", cfg.Database.Database)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 6379, cfg.Redis.Port)
		assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
		assert.Empty(t, cfg.Auth.AdminEmails)
		assert.False(t, cfg.OTEL.Enabled)
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("JWT_TTL_MINUTES", "15")
		t.Setenv("OTEL_ENABLED", "true")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
		assert.True(t, cfg.OTEL.Enabled)
	})

	t.Run("parses the admin email allowlist", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("ADMIN_EMAILS", "ops@medilink.example, helpdesk@medilink.example ,")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, []string{"ops@medilink.example", "helpdesk@medilink.example"}, cfg.Auth.AdminEmails)
	})

	t.Run("ignores a malformed port", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		t.Setenv("SERVER_PORT", "not-a-port")

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, 8080, cfg.Server.Port)
	})
}

func TestDatabaseDSN(t *testing.T) {
	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "medilink",
		Password: "secret",
		Database: "coordination",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=medilink password=secret dbname=coordination sslmode=require",
		db.DatabaseDSN())
}

func TestRedisAddr(t *testing.T) {
	redis := RedisConfig{Host: "cache.internal", Port: 6380}

	assert.Equal(t, "cache.internal:6380", redis.RedisAddr())
}
