package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sui-sponsor/client-sdk-go/client"
	"github.com/sui-sponsor/client-sdk-go/logger"
	txservice "github.com/sui-sponsor/client-sdk-go/services/transaction"
	"github.com/sui-sponsor/client-sdk-go/utils"
)

var txCmd = &cobra.Command{
	Use:   "tx <digest>",
	Short: "查询交易执行结果",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		digest := args[0]
		if !utils.IsValidDigest(digest) {
			return fmt.Errorf("invalid digest %q", digest)
		}
		wait, _ := cmd.Flags().GetDuration("wait")

		nc, err := newNetworkClient()
		if err != nil {
			return err
		}
		defer nc.Close()
		svc := txservice.NewService(nc, cfg.ServicesConfig())

		var tx *utils.ParsedTx
		if wait > 0 {
			tx, err = svc.WaitForTransaction(cmd.Context(), digest, wait)
		} else {
			tx, err = svc.GetTransaction(cmd.Context(), digest)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Digest:     %s\n", tx.Digest)
		fmt.Fprintf(out, "Status:     %s\n", tx.Status)
		if tx.Error != "" {
			fmt.Fprintf(out, "Error:      %s\n", tx.Error)
		}
		if tx.Checkpoint > 0 {
			fmt.Fprintf(out, "Checkpoint: %d\n", tx.Checkpoint)
		}
		if tx.GasUsed != nil {
			fmt.Fprintf(out, "Gas Used:   %s SUI\n", utils.FormatSignedMist(tx.GasUsed.NetCost()))
		}
		return nil
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "检查节点连通性",
	RunE: func(cmd *cobra.Command, args []string) error {
		nc, err := newNetworkClient()
		if err != nil {
			return err
		}
		defer nc.Close()

		start := time.Now()
		if err := nc.Ping(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s ok (%s, %s)\n", cfg.NetworkURL, cfg.Protocol, time.Since(start).Round(time.Millisecond))
		return nil
	},
}

func newNetworkClient() (client.Client, error) {
	if cfg.NetworkURL == "" {
		return nil, fmt.Errorf("network_url is required")
	}
	netCfg := cfg.NetworkClientConfig()
	netCfg.Logger = logger.ForClient(logger.Log.Named("network"))
	return client.NewClient(netCfg)
}

func init() {
	txCmd.Flags().Duration("wait", 0, "轮询等待交易可查询的最长时间")
}
