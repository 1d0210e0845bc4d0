package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "8787", cfg.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 30*time.Second, cfg.TrendingCacheTTL)
	assert.True(t, cfg.DashboardPlaceholderViews)
	assert.Equal(t, "blog_images", cfg.Storage.Folder)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DASHBOARD_PLACEHOLDER_VIEWS", "false")
	t.Setenv("RATE_LIMIT_WINDOW", "10s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.False(t, cfg.DashboardPlaceholderViews)
	assert.Equal(t, 10*time.Second, cfg.RateLimitWindow)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: "postgres"}}
	assert.Error(t, cfg.Validate(), "missing secret")

	cfg.Auth.JWTSecret = "secret"
	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "ink", Name: "inkwell", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=ink dbname=inkwell sslmode=disable", d.DSN())

	d.Password = "pw"
	assert.Contains(t, d.DSN(), "password=pw")

	d.URL = "postgres://x"
	assert.Equal(t, "postgres://x", d.DSN())
}
