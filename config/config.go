// Package config 加载 sponsorctl 与代付流程的运行配置（YAML 文件 + SPONSOR_ 环境变量）
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sui-sponsor/client-sdk-go/client"
	"github.com/sui-sponsor/client-sdk-go/services"
	"github.com/sui-sponsor/client-sdk-go/utils"
)

// EnvPrefix 环境变量前缀，例如 SPONSOR_SECRET_KEY
const EnvPrefix = "SPONSOR"

// 提交目标
const (
	SubmitToSponsor = "sponsor"
	SubmitToNetwork = "network"
)

// Config 运行配置
type Config struct {
	// SponsorURL Gas Station 根地址
	SponsorURL string `mapstructure:"sponsor_url"`
	// NetworkURL 节点 JSON-RPC 地址
	NetworkURL string `mapstructure:"network_url"`
	// SecretKey base64(flag || secret)，为空时从 keystore 读取
	SecretKey string `mapstructure:"secret_key"`

	KeystorePath string `mapstructure:"keystore_path"`
	// Address 从 keystore 中选择的地址，为空时取第一个
	Address string `mapstructure:"address"`

	Protocol string `mapstructure:"protocol"`
	// Timeout HTTP 超时（秒），0 表示不设超时
	Timeout  int    `mapstructure:"timeout"`
	SubmitTo string `mapstructure:"submit_to"`
	Env      string `mapstructure:"env"`
	// MetricsAddr 为空时不启动指标服务
	MetricsAddr string `mapstructure:"metrics_addr"`

	Sponsor SponsorConfig `mapstructure:"sponsor"`
	Load    LoadConfig    `mapstructure:"load"`
}

// SponsorConfig sponsor 接口路径与节点执行选项
type SponsorConfig struct {
	GasPath     string `mapstructure:"gas_path"`
	SubmitPath  string `mapstructure:"submit_path"`
	RequestType string `mapstructure:"request_type"`
}

// LoadConfig 压测循环配置
type LoadConfig struct {
	BatchSize  int           `mapstructure:"batch_size"`
	Interval   time.Duration `mapstructure:"interval"`
	MaxBatches int           `mapstructure:"max_batches"`
	// Amount 每次从 gas coin 拆分并转给自己的金额（MIST）
	Amount uint64 `mapstructure:"amount"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sponsor_url", "http://127.0.0.1:4000")
	v.SetDefault("network_url", "http://127.0.0.1:9000")
	v.SetDefault("secret_key", "")
	v.SetDefault("keystore_path", "")
	v.SetDefault("address", "")
	v.SetDefault("protocol", string(client.ProtocolHTTP))
	v.SetDefault("timeout", 30)
	v.SetDefault("submit_to", SubmitToSponsor)
	v.SetDefault("env", "development")
	v.SetDefault("metrics_addr", "")

	v.SetDefault("sponsor.gas_path", services.DefaultGasPath)
	v.SetDefault("sponsor.submit_path", services.DefaultSubmitPath)
	v.SetDefault("sponsor.request_type", services.DefaultRequestType)

	load := utils.DefaultLoadConfig()
	v.SetDefault("load.batch_size", load.BatchSize)
	v.SetDefault("load.interval", load.Interval)
	v.SetDefault("load.max_batches", 0)
	v.SetDefault("load.amount", 1000)
}

// New 创建带默认值与环境变量绑定的 viper 实例
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load 读取配置
//
// **流程**：
// 1. 默认值
// 2. 配置文件（path 为空时在 . 与 ./config 下查找 sponsor.yaml，找不到不报错）
// 3. SPONSOR_ 前缀环境变量
// 4. 校验
func Load(path string) (*Config, error) {
	return LoadWith(New(), path)
}

// LoadWith 使用给定的 viper 实例读取配置，便于命令行 flag 绑定
func LoadWith(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("sponsor")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.SponsorURL == "" {
		return fmt.Errorf("sponsor_url is required")
	}
	switch c.SubmitTo {
	case SubmitToSponsor:
	case SubmitToNetwork:
		if c.NetworkURL == "" {
			return fmt.Errorf("network_url is required when submit_to is %q", SubmitToNetwork)
		}
		// gRPC 端点只用于探活
		if client.Protocol(c.Protocol) == client.ProtocolGRPC {
			return fmt.Errorf("submit_to %q requires protocol http or websocket", SubmitToNetwork)
		}
	default:
		return fmt.Errorf("submit_to must be %q or %q, got %q", SubmitToSponsor, SubmitToNetwork, c.SubmitTo)
	}
	switch client.Protocol(c.Protocol) {
	case "", client.ProtocolHTTP, client.ProtocolWebSocket, client.ProtocolGRPC:
	default:
		return fmt.Errorf("unsupported protocol %q", c.Protocol)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.Load.BatchSize <= 0 {
		return fmt.Errorf("load.batch_size must be positive")
	}
	if c.Load.Interval < 0 {
		return fmt.Errorf("load.interval must not be negative")
	}
	return nil
}

// HasSigner 是否配置了签名密钥来源
func (c *Config) HasSigner() bool {
	return c.SecretKey != "" || c.KeystorePath != ""
}

// SponsorClientConfig sponsor REST 客户端配置（不重试）
func (c *Config) SponsorClientConfig() *client.Config {
	return &client.Config{
		Endpoint: c.SponsorURL,
		Protocol: client.ProtocolHTTP,
		Timeout:  c.Timeout,
	}
}

// NetworkClientConfig 节点客户端配置
func (c *Config) NetworkClientConfig() *client.Config {
	return &client.Config{
		Endpoint: c.NetworkURL,
		Protocol: client.Protocol(c.Protocol),
		Timeout:  c.Timeout,
	}
}

// ServicesConfig 服务层配置
func (c *Config) ServicesConfig() *services.Config {
	return &services.Config{
		GasPath:     c.Sponsor.GasPath,
		SubmitPath:  c.Sponsor.SubmitPath,
		RequestType: c.Sponsor.RequestType,
	}
}

// LoadOptions 压测循环配置
func (c *Config) LoadOptions() *utils.LoadConfig {
	return &utils.LoadConfig{
		BatchSize:  c.Load.BatchSize,
		Interval:   c.Load.Interval,
		MaxBatches: c.Load.MaxBatches,
	}
}
