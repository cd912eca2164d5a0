package client

import "time"

// Config 客户端配置
type Config struct {
	// Endpoint 端点地址（节点 RPC 或 sponsor 根地址）
	Endpoint string

	// Protocol 协议类型
	Protocol Protocol

	// Timeout 超时时间（秒），0 表示不设超时
	Timeout int

	// TLS 配置
	TLS *TLSConfig

	// Retry 重试配置；JSON-RPC 客户端为 nil 时使用默认配置，REST 客户端为 nil 时不重试
	Retry *RetryConfig

	// Headers 每个请求附带的额外请求头
	Headers map[string]string

	// 调试模式
	Debug bool

	// 日志器（可选）
	Logger Logger
}

// Protocol 协议类型
type Protocol string

const (
	ProtocolHTTP      Protocol = "http"
	ProtocolGRPC      Protocol = "grpc"
	ProtocolWebSocket Protocol = "websocket"
)

// TLSConfig TLS 配置
type TLSConfig struct {
	CertFile string
	KeyFile  string
	CAFile   string
	Insecure bool // 跳过 TLS 验证（仅用于开发）
}

// Logger 日志接口
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// NopLogger 丢弃所有日志
type NopLogger struct{}

func (NopLogger) Debug(string, ...interface{}) {}
func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Endpoint: "http://127.0.0.1:9000",
		Protocol: ProtocolHTTP,
		Timeout:  30,
		Debug:    false,
	}
}

// timeout 返回配置的超时时长
func (c *Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 0
	}
	return time.Duration(c.Timeout) * time.Second
}

// logger 返回配置的日志器，未配置时返回 NopLogger
func (c *Config) logger() Logger {
	if c.Logger == nil {
		return NopLogger{}
	}
	return c.Logger
}
