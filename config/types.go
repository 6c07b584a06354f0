package config

// NodeConfig represents this node's identity and network settings
type NodeConfig struct {
	ListenAddr string   `yaml:"listen_addr"`
	NodeID     string   `yaml:"node_id"`
	Peers      []string `yaml:"peers"`
}

// LogConfig configures the rotating log file. An empty File keeps logging on stderr.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
	MaxBackups int    `yaml:"max_backups"`
	Compress   bool   `yaml:"compress"`
}

// NodeFileConfig holds the configuration from node.yml
type NodeFileConfig struct {
	Node NodeConfig `yaml:"node"`
	Log  LogConfig  `yaml:"log"`
}

type ConsensusConfig struct {
	PeerTimeoutMs        int `ini:"peer_timeout_ms"`
	MaxConcurrentFetches int `ini:"max_concurrent_fetches"`
}

type MiningConfig struct {
	RejectInvalidAmounts bool `ini:"reject_invalid_amounts"`
}
