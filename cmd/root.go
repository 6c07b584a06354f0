package cmd

import (
	"os"

	"github.com/mezonai/powledger/logx"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "powledger",
	Short: "Proof-of-work ledger node CLI",
	Long:  "Command line interface for running a proof-of-work ledger node and its HTTP API.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("CMD", "Command execution failed:", err)
		os.Exit(1)
	}
}
