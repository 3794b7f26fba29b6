package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "pos:state", cfg.Store.Key)
	assert.Equal(t, 5*time.Second, cfg.Store.WriteTimeout)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, ":50051", cfg.GRPC.Addr)
	assert.True(t, cfg.GRPC.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Empty(t, cfg.Catalog.Path)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("POS_STORE_BACKEND", " Redis ")
	t.Setenv("POS_STORE_KEY", "shop-1:state")
	t.Setenv("POS_REDIS_ADDR", "cache:6380")
	t.Setenv("POS_TIMEZONE", "UTC")
	t.Setenv("POS_CATALOG_PATH", "/etc/pos/catalog.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, "shop-1:state", cfg.Store.Key)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, "/etc/pos/catalog.json", cfg.Catalog.Path)

	loc, err := cfg.App.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("POS_STORE_BACKEND", "cassandra")

	_, err := Load()
	assert.ErrorContains(t, err, "unsupported store backend")
}

func TestLoadRejectsBadTimezone(t *testing.T) {
	t.Setenv("POS_TIMEZONE", "Mars/Olympus")

	_, err := Load()
	assert.ErrorContains(t, err, "loading timezone")
}
