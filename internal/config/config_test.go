package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "https://example.com", cfg.Site.URL)
	assert.Equal(t, cfg.Site.URL, cfg.Site.PortalURL)
	assert.Equal(t, []string{"15106196839", "5106196839"}, cfg.Tenant.SystemOwnerPhones)
	assert.Equal(t, "google/gemini-3-flash-preview", cfg.LLM.EstimateModel)
	assert.Equal(t, "google/gemini-2.5-flash", cfg.LLM.PurchaseOrderModel)
	assert.False(t, cfg.Tenant.DevBypass)
}

func TestLoadFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(`
server:
  port: 9090
tenant:
  id: file-tenant
  cache_ttl: 30s
twilio:
  account_sid: AC123
  auth_token: tok
  from_number: "+15550001111"
site:
  url: https://roof.example
`), 0o600)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("TENANT_ID", "env-tenant")
	t.Setenv("SYSTEM_OWNER_PHONES", " 1555 , +1 (510) 619-6839, - ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "env-tenant", cfg.Tenant.ID)
	assert.Equal(t, 30*time.Second, cfg.Tenant.CacheTTL)
	assert.Equal(t, []string{"1555", "15106196839"}, cfg.Tenant.SystemOwnerPhones)
	assert.True(t, cfg.Twilio.Configured())
	assert.Equal(t, "https://roof.example", cfg.Site.PortalURL)
}

func TestLoadInvalidNumbers(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("SERVER_PORT", "abc")
	_, err := Load()
	require.ErrorContains(t, err, "SERVER_PORT")
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "TENANT_ID")

	cfg.Database.URL = "postgres://x"
	cfg.Auth.JWTSecret = "s"
	cfg.Tenant.ID = "t"
	require.NoError(t, cfg.Validate())
}

func TestTwilioConfigured(t *testing.T) {
	assert.False(t, TwilioConfig{AccountSID: "a", AuthToken: "b"}.Configured())
}

func TestLevel(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	assert.Equal(t, slog.LevelDebug, cfg.Level())

	cfg.LogLevel = "WARN"
	assert.Equal(t, slog.LevelWarn, cfg.Level())

	cfg.LogLevel = "chatty"
	assert.Equal(t, slog.LevelInfo, cfg.Level())
}
