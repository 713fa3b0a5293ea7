package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"DATABASE_URL": "postgres://localhost:5432/app",
		"REDIS_URL":    "redis://localhost:6379/0",
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(baseEnv())
	require.NoError(t, err)

	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, "EUR", cfg.DefaultCurrency)
	require.Equal(t, "FR", cfg.DefaultTaxCountry)
	require.InDelta(t, 0.20, cfg.FallbackTaxRate, 1e-9)
	require.Equal(t, 2, cfg.LowStockThreshold)
	require.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	require.Equal(t, time.Minute, cfg.VoucherCacheTTL)
	require.Equal(t, 10*time.Second, cfg.StockLockTTL)
	require.Equal(t, "json", cfg.LogFormat)
	require.True(t, cfg.MetricsEnabled)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	env := baseEnv()
	env["DATABASE_URL"] = ""

	_, err := LoadForTests(env)
	require.Error(t, err)
	require.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadRequiresRedisURL(t *testing.T) {
	env := baseEnv()
	env["REDIS_URL"] = ""

	_, err := LoadForTests(env)
	require.Error(t, err)
	require.Contains(t, err.Error(), "REDIS_URL")
}

func TestLoadRejectsTaxRateOutOfRange(t *testing.T) {
	env := baseEnv()
	env["FALLBACK_TAX_RATE"] = "1.5"

	_, err := LoadForTests(env)
	require.Error(t, err)
	require.Contains(t, err.Error(), "FALLBACK_TAX_RATE")
}

func TestLoadOverrides(t *testing.T) {
	env := baseEnv()
	env["DEFAULT_TAX_COUNTRY"] = "DE"
	env["FALLBACK_TAX_RATE"] = "0.19"
	env["LOW_STOCK_THRESHOLD"] = "5"
	env["CORS_ALLOWED_ORIGINS"] = "https://a.example, https://b.example"

	cfg, err := LoadForTests(env)
	require.NoError(t, err)
	require.Equal(t, "DE", cfg.DefaultTaxCountry)
	require.InDelta(t, 0.19, cfg.FallbackTaxRate, 1e-9)
	require.Equal(t, 5, cfg.LowStockThreshold)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestHTTPAddr(t *testing.T) {
	require.Equal(t, ":9090", (&Config{Port: "9090"}).HTTPAddr())
	require.Equal(t, ":9090", (&Config{Port: ":9090"}).HTTPAddr())
	require.Equal(t, ":8080", (&Config{}).HTTPAddr())
}
