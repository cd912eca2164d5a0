package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sui-sponsor/client-sdk-go/client"
	"github.com/sui-sponsor/client-sdk-go/config"
	"github.com/sui-sponsor/client-sdk-go/logger"
	"github.com/sui-sponsor/client-sdk-go/services/sponsored"
	"github.com/sui-sponsor/client-sdk-go/wallet"
)

const (
	// EnvIntegration 设为 1 时运行集成测试
	EnvIntegration = "SPONSOR_INTEGRATION"
	// DefaultTimeout 默认超时时间
	DefaultTimeout = 30 * time.Second
	// TransactionConfirmTimeout 交易确认超时时间
	TransactionConfirmTimeout = 60 * time.Second
)

// LoadTestConfig 读取测试配置
//
// **功能**：
// - 与 sponsorctl 使用相同的配置来源（sponsor.yaml + SPONSOR_ 环境变量）
// - 必须提供 SPONSOR_SECRET_KEY 或 SPONSOR_KEYSTORE_PATH
func LoadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(os.Getenv("SPONSOR_CONFIG"))
	require.NoError(t, err, "读取配置失败")
	require.True(t, cfg.HasSigner(), "缺少签名密钥：设置 SPONSOR_SECRET_KEY 或 SPONSOR_KEYSTORE_PATH")
	return cfg
}

// EnsureSponsorRunning 确保 sponsor 与节点可用，未启用集成测试时跳过
func EnsureSponsorRunning(t *testing.T) *config.Config {
	t.Helper()
	if os.Getenv(EnvIntegration) != "1" {
		t.Skipf("集成测试未启用，设置 %s=1 并启动 sponsor 与节点后运行", EnvIntegration)
	}

	cfg := LoadTestConfig(t)

	c := SetupTestClient(t, cfg)
	TeardownTestClient(t, c)
	return cfg
}

// SetupTestClient 创建节点客户端并探活
func SetupTestClient(t *testing.T, cfg *config.Config) client.Client {
	t.Helper()

	c, err := client.NewClient(cfg.NetworkClientConfig())
	require.NoError(t, err, "创建客户端失败")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, c.Ping(ctx), "节点未运行: %s", cfg.NetworkURL)
	return c
}

// TeardownTestClient 关闭客户端
func TeardownTestClient(t *testing.T, c client.Client) {
	if c != nil {
		if err := c.Close(); err != nil {
			t.Logf("关闭客户端时出现警告: %v", err)
		}
	}
}

// CreateTestWallet 加载配置中的签名钱包
func CreateTestWallet(t *testing.T, cfg *config.Config) wallet.Wallet {
	t.Helper()
	w, err := sponsored.LoadWallet(cfg)
	require.NoError(t, err, "加载测试钱包失败")
	return w
}

// SetupTestStack 按配置组装 Sender，测试结束时自动关闭
func SetupTestStack(t *testing.T, cfg *config.Config) *sponsored.Stack {
	t.Helper()

	log, err := logger.New(cfg.Env)
	require.NoError(t, err)

	stack, err := sponsored.NewStack(cfg, CreateTestWallet(t, cfg), log, nil)
	require.NoError(t, err, "创建 Sender 失败")
	t.Cleanup(func() {
		if err := stack.Close(); err != nil {
			t.Logf("关闭连接时出现警告: %v", err)
		}
	})
	return stack
}
