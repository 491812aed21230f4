package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	yml := `env: "test"
http_server:
  address: ":9090"
  read_timeout: 5s
storage:
  driver: "memory"
tracking:
  namespace: "acme.bio"
  retention_days: 30
  internal_sources: ["site"]
  trusted_proxies: ["10.0.0.0/8", "127.0.0.1"]
analytics:
  worker_count: 2
page:
  title: "Acme"
  stores:
    - id: "sp"
      name: "Sao Paulo"
  shelf:
    - id: "sku-1"
      name: "Tenis"
      price: 99.5
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, ":9090", cfg.HTTPServer.Address)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.HTTPServer.WriteTimeout)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "acme.bio", cfg.Tracking.Namespace)
	assert.Equal(t, 30, cfg.Tracking.RetentionDays)
	assert.Equal(t, []string{"site"}, cfg.Tracking.InternalSources)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.Tracking.TrustedProxies)
	assert.Equal(t, "gwf_utm", cfg.Tracking.AttributionCookie)
	assert.Equal(t, 2, cfg.Analytics.WorkerCount)
	assert.Equal(t, []Store{{ID: "sp", Name: "Sao Paulo"}}, cfg.Page.Stores)
	require.Len(t, cfg.Page.Shelf, 1)
	assert.Equal(t, 99.5, cfg.Page.Shelf[0].Price)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mongo")
	t.Setenv("TRACKING_SESSION_KEY", "sess")
	t.Setenv("TRACKING_INTERNAL_MEDIUMS", "internal,banner,intranet")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "mongo", cfg.Storage.Driver)
	assert.Equal(t, "sess", cfg.Tracking.SessionKey)
	assert.Equal(t, []string{"internal", "banner", "intranet"}, cfg.Tracking.InternalMediums)
	assert.Equal(t, 90, cfg.Tracking.RetentionDays)
	assert.Equal(t, "gwf_session_", cfg.Tracking.SessionIDPrefix)
	assert.Empty(t, cfg.Tracking.TrustedProxies)
	assert.Equal(t, DefaultStores(), cfg.Page.Stores)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("http_server: [unclosed"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
