package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://localhost/storefront")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.RunMigrations)
	assert.False(t, cfg.EventsEnabled)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "RWF", cfg.CurrencyLabel)
}

func TestLoad_RequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	_, err := Load()
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://db/storefront")
	t.Setenv("PORT", "9090")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("EVENTS_ENABLED", "true")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("CHECKOUT_RATE_RPS", "2.5")
	t.Setenv("CHECKOUT_RATE_BURST", "7")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.RunMigrations)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, 2.5, cfg.CheckoutRateRPS)
	assert.Equal(t, 7, cfg.CheckoutRateBurst)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_BadValuesFallBack(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://db/storefront")
	t.Setenv("REQUEST_TIMEOUT", "soon")
	t.Setenv("CHECKOUT_RATE_BURST", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.CheckoutRateBurst)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storefront.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "7070"
database_dsn: postgres://file/storefront
events_enabled: true
request_timeout: 10s
cors_allow_origins:
  - https://shop.example
currency_label: USD
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("PORT", "6060")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "6060", cfg.Port)
	assert.Equal(t, "postgres://file/storefront", cfg.DatabaseDSN)
	assert.True(t, cfg.EventsEnabled)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{"https://shop.example"}, cfg.CORSAllowOrigins)
	assert.Equal(t, "USD", cfg.CurrencyLabel)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := Load()
	require.Error(t, err)
}

func TestSplitCSV_EmptyMeansAll(t *testing.T) {
	assert.Equal(t, []string{"*"}, splitCSV(" , "))
}
