package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearDBEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD",
		"DB_NAME", "DB_SSLMODE", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS",
		"DB_CONN_MAX_LIFETIME",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfigFromEnvDefaults(t *testing.T) {
	clearDBEnv(t)

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 5432, cfg.Port)
	assert.Equal(t, "hireflow", cfg.User)
	assert.Equal(t, "hireflow", cfg.Database)
	assert.Equal(t, "disable", cfg.SSLMode)
	assert.Equal(t, 10, cfg.MaxOpenConns)
	assert.Equal(t, 5, cfg.MaxIdleConns)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxLifetime)
}

func TestLoadConfigFromEnvOverrides(t *testing.T) {
	clearDBEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("DB_CONN_MAX_LIFETIME", "1h")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6432, cfg.Port)
	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, time.Hour, cfg.ConnMaxLifetime)
}

func TestLoadConfigFromEnvInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad port", "DB_PORT", "not-a-port"},
		{"bad max open conns", "DB_MAX_OPEN_CONNS", "lots"},
		{"bad lifetime", "DB_CONN_MAX_LIFETIME", "forever"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearDBEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfigFromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestConfigDSN(t *testing.T) {
	url := Config{URL: "postgres://u:p@db.internal:5432/hireflow"}
	assert.Equal(t, "postgres://u:p@db.internal:5432/hireflow", url.DSN(),
		"an explicit URL is used verbatim")

	discrete := Config{
		Host: "localhost", Port: 5432, User: "hireflow",
		Password: "secret", Database: "hireflow", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=hireflow password=secret dbname=hireflow sslmode=disable",
		discrete.DSN())
}
