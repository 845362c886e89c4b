package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/zotswipe/internal/domain/listing"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, ModeHTTP, cfg.Transport.Mode)
	require.Equal(t, BackendSQLite, cfg.Store.Backend)
	require.False(t, cfg.Redis.Enabled())
	require.False(t, cfg.NATS.Enabled())
	require.Equal(t, []string{"anteatery", "brandywine"}, cfg.Menu.Halls)
	require.Equal(t, listing.DefaultCatalog(), cfg.Catalog.Listing())
	require.True(t, cfg.Metrics.Enabled)
	require.Equal(t, "zotswipe", cfg.Metrics.Namespace)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
store:
  backend: mongo
mongo:
  database: campus
redis:
  addr: localhost:6379
  menu_ttl: 5m
catalog:
  strict: true
  price_max: 30
`), 0o600))

	t.Setenv("ZOTSWIPE_CONFIG_PATH", path)
	t.Setenv("ZOTSWIPE_SERVER_PORT", "7070")
	t.Setenv("ZOTSWIPE_NATS_URL", "nats://localhost:4222")
	t.Setenv("ZOTSWIPE_MENU_HALLS", "anteatery, brandywine ,pippin")
	t.Setenv("ZOTSWIPE_MENU_TIMEOUT", "3s")
	t.Setenv("ZOTSWIPE_METRICS_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, BackendMongo, cfg.Store.Backend)
	require.Equal(t, "campus", cfg.Mongo.Database)
	require.Equal(t, "listings", cfg.Mongo.Collection)
	require.True(t, cfg.Redis.Enabled())
	require.Equal(t, 5*time.Minute, cfg.Redis.MenuTTL)
	require.True(t, cfg.NATS.Enabled())
	require.Equal(t, "listings.created", cfg.NATS.Subject)
	require.Equal(t, []string{"anteatery", "brandywine", "pippin"}, cfg.Menu.Halls)
	require.Equal(t, 3*time.Second, cfg.Menu.Timeout)
	require.False(t, cfg.Metrics.Enabled)

	catalog := cfg.Catalog.Listing()
	require.True(t, catalog.Strict)
	require.Equal(t, listing.Range{Min: 1, Max: 30}, catalog.PriceRange)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("ZOTSWIPE_SERVER_PORT", "eighty")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("ZOTSWIPE_SERVER_PORT", "")
	t.Setenv("ZOTSWIPE_TRANSPORT_MODE", "carrier-pigeon")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("ZOTSWIPE_TRANSPORT_MODE", "")
	t.Setenv("ZOTSWIPE_STORE_BACKEND", "postgres")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("ZOTSWIPE_STORE_BACKEND", "")
	t.Setenv("ZOTSWIPE_METRICS_ENABLED", "sometimes")
	_, err = Load()
	require.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("ZOTSWIPE_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	require.Error(t, err)
}
