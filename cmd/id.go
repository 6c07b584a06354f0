package cmd

import (
	"fmt"

	"github.com/mezonai/powledger/common"
	"github.com/spf13/cobra"
)

var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Print a freshly generated node id",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := common.NewNodeID()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(idCmd)
}
