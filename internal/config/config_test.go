package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 200, cfg.Blocks.ListLimit)
	assert.NotEmpty(t, cfg.Pools, "the built-in pool table backs an absent config")
}

func TestLoadYAMLAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
server:
  port: 9090
node:
  host: "127.0.0.1:8232"
  user: "rpcuser"
  http_mode: true
cache:
  detail_size: 50
blocks:
  list_limit: 25
pools:
  - signature: "pool.example"
    pool_name: "Example Pool"
    url: "https://pool.example"
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	t.Setenv("NODE_PASS", "secret")
	t.Setenv("BLOCKS_LIST_LIMIT", "42")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "127.0.0.1:8232", cfg.Node.Host)
	assert.True(t, cfg.Node.HTTPMode)
	assert.Equal(t, "secret", cfg.Node.Pass, "env overrides the file")
	assert.Equal(t, 42, cfg.Blocks.ListLimit, "env overrides the file")
	assert.Equal(t, 50, cfg.Cache.DetailSize)

	require.Len(t, cfg.Pools, 1, "a configured table replaces the built-in one")
	assert.Equal(t, "Example Pool", cfg.Pools[0].PoolName)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
