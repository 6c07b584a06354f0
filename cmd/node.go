package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mezonai/powledger/api"
	"github.com/mezonai/powledger/client"
	"github.com/mezonai/powledger/common"
	"github.com/mezonai/powledger/config"
	"github.com/mezonai/powledger/ledger"
	"github.com/mezonai/powledger/logx"
	"github.com/mezonai/powledger/monitoring"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var (
	nodeConfigPath string
	iniConfigPath  string
	listenAddr     string
	extraPeers     []string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the ledger node",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNode(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&nodeConfigPath, "config", "c", "config/node.yml", "Path to node.yml")
	runCmd.Flags().StringVar(&iniConfigPath, "ini", "config/config.ini", "Path to config.ini")
	runCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "API listen address, overrides node.listen_addr")
	runCmd.Flags().StringArrayVarP(&extraPeers, "peer", "p", nil, "Peer address to register (repeatable)")
}

func runNode(parent context.Context) error {
	nodeCfg, err := loadNodeConfig()
	if err != nil {
		return err
	}
	consensusCfg, err := config.LoadConsensusConfig(iniConfigPath)
	if err != nil {
		return err
	}
	miningCfg, err := config.LoadMiningConfig(iniConfigPath)
	if err != nil {
		return err
	}

	if nodeCfg.Log.File != "" {
		logx.InitFileLogger(logx.FileConfig{
			Filename:   nodeCfg.Log.File,
			MaxSizeMB:  nodeCfg.Log.MaxSizeMB,
			MaxAgeDays: nodeCfg.Log.MaxAgeDays,
			MaxBackups: nodeCfg.Log.MaxBackups,
			Compress:   nodeCfg.Log.Compress,
		})
		defer logx.Close()
	}
	monitoring.InitMetrics()

	nodeID := nodeCfg.Node.NodeID
	if nodeID == "" {
		nodeID, err = common.NewNodeID()
		if err != nil {
			return fmt.Errorf("generate node id: %w", err)
		}
		logx.Info("CMD", "Generated node id ", nodeID)
	}

	fetcher := client.NewChainClient(client.Config{
		PeerTimeout:          consensusCfg.PeerTimeout(),
		MaxConcurrentFetches: consensusCfg.MaxConcurrentFetches,
	})
	ld := ledger.NewLedger(fetcher, ledger.Options{
		RejectInvalidAmounts: miningCfg.RejectInvalidAmounts,
	})
	if _, err := ld.RegisterPeers(nodeCfg.Node.Peers); err != nil {
		return fmt.Errorf("register configured peers: %w", err)
	}

	apiSrv := api.NewAPIServer(ld, nodeID, nodeCfg.Node.ListenAddr)
	if err := apiSrv.Start(); err != nil {
		return err
	}
	logx.Info("CMD", fmt.Sprintf("Node %s running, peers=%d", nodeID, len(ld.Peers())))

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()
	select {
	case <-ctx.Done():
	case err := <-apiSrv.Err():
		return fmt.Errorf("api server: %w", err)
	}

	logx.Info("CMD", "Shutting down node")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown api server: %w", err)
	}
	return nil
}

// loadNodeConfig reads node.yml and applies the command-line overrides.
func loadNodeConfig() (*config.NodeFileConfig, error) {
	cfg, err := config.LoadNodeConfig(nodeConfigPath)
	if err != nil {
		return nil, err
	}
	if listenAddr != "" {
		cfg.Node.ListenAddr = listenAddr
	}
	cfg.Node.Peers = append(cfg.Node.Peers, extraPeers...)
	return cfg, nil
}
