package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sui-sponsor/client-sdk-go/config"
	"github.com/sui-sponsor/client-sdk-go/logger"
)

var (
	cfgFile string
	v       = config.New()
	cfg     *config.Config
)

// rootCmd 基础命令
var rootCmd = &cobra.Command{
	Use:   "sponsorctl",
	Short: "代付交易命令行工具",
	Long: `通过 Gas Station 发送代付交易：构建交易 → 申请 gas → 合并 → 签名 → 提交。
配置来自 sponsor.yaml、SPONSOR_ 前缀环境变量与命令行参数。`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadWith(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded
		return logger.Init(cfg.Env)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "配置文件路径（默认在 . 与 ./config 下查找 sponsor.yaml）")
	flags.String("sponsor-url", "", "Gas Station 地址")
	flags.String("network-url", "", "节点 JSON-RPC 地址")
	flags.String("protocol", "", "节点协议 http | websocket | grpc")
	flags.String("submit-to", "", "提交目标 sponsor | network")
	flags.String("keystore", "", "keystore 文件路径")
	flags.String("address", "", "keystore 中使用的地址")
	flags.Int("timeout", 0, "HTTP 超时（秒）")
	flags.String("env", "", "运行环境 development | production")

	// 只有显式设置的 flag 会覆盖配置文件与环境变量
	for key, name := range map[string]string{
		"sponsor_url":   "sponsor-url",
		"network_url":   "network-url",
		"protocol":      "protocol",
		"submit_to":     "submit-to",
		"keystore_path": "keystore",
		"address":       "address",
		"timeout":       "timeout",
		"env":           "env",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(sendCmd, loadCmd, addressCmd, txCmd, pingCmd)
}
