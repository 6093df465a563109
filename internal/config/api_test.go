package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAPIConfigDefaults(t *testing.T) {
	cfg, err := LoadAPIConfig(writeConfig(t, "server: {}\n"))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, NoFallback, cfg.MarketData.Fallback)
}

func TestLoadAPIConfigHTTPFallback(t *testing.T) {
	cfg, err := LoadAPIConfig(writeConfig(t, `
log_level: debug
server:
  port: "9000"
  request_timeout: 3s
market_data:
  fallback: http
  quotes_api:
    address: http://quotes.local:8000
`))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, HTTPFallback, cfg.MarketData.Fallback)
	assert.Equal(t, 120, cfg.MarketData.QuotesAPI.RatePerMinute)
	assert.Equal(t, 5*time.Second, cfg.MarketData.QuotesAPI.Timeout)
}

func TestLoadAPIConfigInvestFallbackDefaults(t *testing.T) {
	cfg, err := LoadAPIConfig(writeConfig(t, "market_data:\n  fallback: invest\n"))
	require.NoError(t, err)

	assert.Equal(t, "./configs/invest.yaml", cfg.MarketData.InvestConfigPath)
	assert.Equal(t, 500, cfg.MarketData.InvestRatePerMinute)
}

func TestLoadAPIConfigErrors(t *testing.T) {
	cases := map[string]string{
		"http fallback without address": "market_data:\n  fallback: http\n",
		"unknown fallback":              "market_data:\n  fallback: carrier-pigeon\n",
		"bad port":                      "server:\n  port: eighty\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadAPIConfig(writeConfig(t, body))
			assert.Error(t, err)
		})
	}

	_, err := LoadAPIConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
