package database

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadConfigFromEnv assembles connection settings from the deploy
// environment. DATABASE_URL, when set, wins over the discrete DB_*
// variables; pool tuning stays optional with defaults sized for the
// engine's short point queries.
func LoadConfigFromEnv() (Config, error) {
	cfg := Config{
		URL:             os.Getenv("DATABASE_URL"),
		Host:            envOr("DB_HOST", "localhost"),
		Port:            5432,
		User:            envOr("DB_USER", "hireflow"),
		Password:        os.Getenv("DB_PASSWORD"),
		Database:        envOr("DB_NAME", "hireflow"),
		SSLMode:         envOr("DB_SSLMODE", "disable"),
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}

	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DB_PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DB_MAX_OPEN_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DB_MAX_OPEN_CONNS %q: %w", v, err)
		}
		cfg.MaxOpenConns = n
	}
	if v := os.Getenv("DB_MAX_IDLE_CONNS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DB_MAX_IDLE_CONNS %q: %w", v, err)
		}
		cfg.MaxIdleConns = n
	}
	if v := os.Getenv("DB_CONN_MAX_LIFETIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME %q: %w", v, err)
		}
		cfg.ConnMaxLifetime = d
	}

	return cfg, nil
}

// DSN renders the pgx connection string. An explicit URL wins over the
// discrete fields.
func (c Config) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func envOr(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
