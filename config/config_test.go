package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadNodeConfig(t *testing.T) {
	path := writeFile(t, "node.yml", `
node:
  listen_addr: ":5001"
  node_id: "miner-1"
  peers:
    - "127.0.0.1:5002"
    - "http://127.0.0.1:5003"
log:
  file: "./logs/node.log"
  max_size_mb: 100
  max_age_days: 7
`)

	cfg, err := LoadNodeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":5001", cfg.Node.ListenAddr)
	assert.Equal(t, "miner-1", cfg.Node.NodeID)
	assert.Equal(t, []string{"127.0.0.1:5002", "http://127.0.0.1:5003"}, cfg.Node.Peers)
	assert.Equal(t, "./logs/node.log", cfg.Log.File)
	assert.Equal(t, 100, cfg.Log.MaxSizeMB)
	assert.Equal(t, 7, cfg.Log.MaxAgeDays)
	assert.False(t, cfg.Log.Compress)
}

func TestLoadNodeConfigDefaultsListenAddr(t *testing.T) {
	path := writeFile(t, "node.yml", "node:\n  node_id: abc\n")

	cfg, err := LoadNodeConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultListenAddr, cfg.Node.ListenAddr)
	assert.Empty(t, cfg.Node.Peers)
}

func TestLoadNodeConfigErrors(t *testing.T) {
	_, err := LoadNodeConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	_, err = LoadNodeConfig(writeFile(t, "node.yml", "node:\n  unknown_key: 1\n"))
	assert.Error(t, err)
}

func TestLoadConsensusConfig(t *testing.T) {
	path := writeFile(t, "config.ini", `
[consensus]
peer_timeout_ms = 1500
max_concurrent_fetches = 4

[mining]
reject_invalid_amounts = true
`)

	cfg, err := LoadConsensusConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1500, cfg.PeerTimeoutMs)
	assert.Equal(t, 4, cfg.MaxConcurrentFetches)
	assert.Equal(t, 1500*time.Millisecond, cfg.PeerTimeout())

	mining, err := LoadMiningConfig(path)
	require.NoError(t, err)
	assert.True(t, mining.RejectInvalidAmounts)
}

func TestLoadIniMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.ini")

	cfg, err := LoadConsensusConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConsensusConfig(), *cfg)
	assert.Equal(t, 3*time.Second, cfg.PeerTimeout())

	mining, err := LoadMiningConfig(path)
	require.NoError(t, err)
	assert.False(t, mining.RejectInvalidAmounts)
}

func TestLoadConsensusConfigPartialSection(t *testing.T) {
	path := writeFile(t, "config.ini", "[consensus]\nmax_concurrent_fetches = 2\n")

	cfg, err := LoadConsensusConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPeerTimeoutMs, cfg.PeerTimeoutMs)
	assert.Equal(t, 2, cfg.MaxConcurrentFetches)
}

func TestLoadConsensusConfigRejectsNonPositive(t *testing.T) {
	path := writeFile(t, "config.ini", "[consensus]\npeer_timeout_ms = 0\n")

	_, err := LoadConsensusConfig(path)
	assert.Error(t, err)
}
