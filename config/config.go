package config

import (
	"os"
	"time"

	"github.com/mezonai/powledger/logx"
	"github.com/pkg/errors"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

const (
	DefaultListenAddr           = ":5000"
	DefaultPeerTimeoutMs        = 3000
	DefaultMaxConcurrentFetches = 8
)

func DefaultNodeFileConfig() NodeFileConfig {
	return NodeFileConfig{
		Node: NodeConfig{
			ListenAddr: DefaultListenAddr,
		},
	}
}

func DefaultConsensusConfig() ConsensusConfig {
	return ConsensusConfig{
		PeerTimeoutMs:        DefaultPeerTimeoutMs,
		MaxConcurrentFetches: DefaultMaxConcurrentFetches,
	}
}

// LoadNodeConfig reads and parses node.yml. Fields missing from the file keep their defaults.
func LoadNodeConfig(path string) (*NodeFileConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open node config %s", path)
	}
	defer file.Close()

	cfg := DefaultNodeFileConfig()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "decode node config %s", path)
	}
	if cfg.Node.ListenAddr == "" {
		cfg.Node.ListenAddr = DefaultListenAddr
	}
	logx.Info("CONFIG", "Loaded node config from ", path, ": listen=", cfg.Node.ListenAddr, " peers=", len(cfg.Node.Peers))
	return &cfg, nil
}

// PeerTimeout is the per-peer deadline for fetching a chain.
func (c ConsensusConfig) PeerTimeout() time.Duration {
	return time.Duration(c.PeerTimeoutMs) * time.Millisecond
}

// LoadConsensusConfig reads the [consensus] section of an .ini file. A missing file
// yields defaults.
func LoadConsensusConfig(path string) (*ConsensusConfig, error) {
	cfg := DefaultConsensusConfig()
	if err := mapSection(path, "consensus", &cfg); err != nil {
		return nil, err
	}
	if cfg.PeerTimeoutMs <= 0 {
		return nil, errors.Errorf("consensus.peer_timeout_ms must be positive, got %d", cfg.PeerTimeoutMs)
	}
	if cfg.MaxConcurrentFetches <= 0 {
		return nil, errors.Errorf("consensus.max_concurrent_fetches must be positive, got %d", cfg.MaxConcurrentFetches)
	}
	return &cfg, nil
}

// LoadMiningConfig reads the [mining] section of an .ini file. A missing file yields defaults.
func LoadMiningConfig(path string) (*MiningConfig, error) {
	cfg := MiningConfig{}
	if err := mapSection(path, "mining", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func mapSection(path, section string, v interface{}) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logx.Warn("CONFIG", "No ini file at ", path, ", using defaults for [", section, "]")
		return nil
	}
	cfg, err := ini.Load(path)
	if err != nil {
		return errors.Wrapf(err, "load ini config %s", path)
	}
	if err := cfg.Section(section).MapTo(v); err != nil {
		return errors.Wrapf(err, "map [%s] from %s", section, path)
	}
	return nil
}
