package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sui-sponsor/client-sdk-go/logger"
	"github.com/sui-sponsor/client-sdk-go/metrics"
	"github.com/sui-sponsor/client-sdk-go/services/sponsored"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "分批并发发送代付交易",
	Long: `每批并发发送 batch_size 笔交易，等待整批完成后休眠 interval，
直到收到中断信号或达到 max_batches。失败会被汇总记录，不会中断后续批次。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// 1. 组装
		w, err := sponsored.LoadWallet(cfg)
		if err != nil {
			return err
		}

		var m *metrics.Metrics
		if cfg.MetricsAddr != "" {
			m = metrics.New()
			go func() {
				if err := metrics.Serve(ctx, cfg.MetricsAddr, m); err != nil {
					logger.Error("metrics server stopped", zap.Error(err))
				}
			}()
			logger.Info("metrics server listening", zap.String("addr", cfg.MetricsAddr))
		}

		stack, err := sponsored.NewStack(cfg, w, logger.Log, m)
		if err != nil {
			return err
		}
		defer stack.Close()

		// 2. 循环
		opts := cfg.LoadOptions()
		logger.Info("load started",
			zap.String("sender", stack.Sender.Address().String()),
			zap.Int("batch_size", opts.BatchSize),
			zap.Duration("interval", opts.Interval),
			zap.Int("max_batches", opts.MaxBatches))

		summary, err := stack.Sender.RunLoad(ctx, opts, sponsored.TransferToSelf(cfg.Load.Amount))
		if summary != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "batches=%d success=%d failed=%d\n",
				summary.Batches, summary.Success, summary.Failed)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	flags := loadCmd.Flags()
	flags.Int("batch-size", 0, "每批并发数量")
	flags.Duration("interval", 0, "批次间隔")
	flags.Int("max-batches", 0, "最大批次数，0 表示不限")
	flags.Uint64("amount", 0, "每笔拆分金额（MIST）")
	flags.String("metrics-addr", "", "Prometheus 指标监听地址，如 :9100")

	for key, name := range map[string]string{
		"load.batch_size":  "batch-size",
		"load.interval":    "interval",
		"load.max_batches": "max-batches",
		"load.amount":      "amount",
		"metrics_addr":     "metrics-addr",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}
