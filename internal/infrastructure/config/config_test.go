package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"TRAMITES_APP_NAME":          os.Getenv("TRAMITES_APP_NAME"),
		"TRAMITES_APP_ENV":           os.Getenv("TRAMITES_APP_ENV"),
		"TRAMITES_APP_PORT":          os.Getenv("TRAMITES_APP_PORT"),
		"TRAMITES_DATABASE_HOST":     os.Getenv("TRAMITES_DATABASE_HOST"),
		"TRAMITES_DATABASE_PORT":     os.Getenv("TRAMITES_DATABASE_PORT"),
		"TRAMITES_DATABASE_PASSWORD": os.Getenv("TRAMITES_DATABASE_PASSWORD"),
		"TRAMITES_DATABASE_SSLMODE":  os.Getenv("TRAMITES_DATABASE_SSLMODE"),
		"TRAMITES_JWT_SECRET":        os.Getenv("TRAMITES_JWT_SECRET"),
		"TRAMITES_PUSH_TTL":          os.Getenv("TRAMITES_PUSH_TTL"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "tramites-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "tramites", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 3600, cfg.Push.TTL)
		assert.Equal(t, 10*time.Second, cfg.Push.Timeout)
		assert.Equal(t, time.Minute, cfg.Redis.RoleTTL)
		assert.True(t, cfg.Event.PollInterval > 0)
	})

	t.Run("loads values from environment variables with TRAMITES prefix", func(t *testing.T) {
		clearEnv()
		os.Setenv("TRAMITES_APP_NAME", "test-app")
		os.Setenv("TRAMITES_APP_PORT", "9000")
		os.Setenv("TRAMITES_DATABASE_HOST", "testdb.local")
		os.Setenv("TRAMITES_DATABASE_PORT", "5433")
		os.Setenv("TRAMITES_PUSH_TTL", "60")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 60, cfg.Push.TTL)
	})

	t.Run("rejects production without jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("TRAMITES_APP_ENV", "production")

		_, err := Load()
		assert.Error(t, err)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "tramites",
		Password: "p@ss/word",
		DBName:   "tramites",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.NotContains(t, dsn, "p@ss/word", "special characters must be escaped")
}

func TestConfig_ValidatePoolSettings(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Database.MaxIdleConns = 50
	cfg.Database.MaxOpenConns = 10

	err := cfg.validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_idle_conns")
}
