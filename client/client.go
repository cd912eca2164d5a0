package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// Client 网络节点 JSON-RPC 客户端接口
type Client interface {
	// Call 调用 JSON-RPC 方法，返回 result 原始 JSON
	Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error)

	// Ping 探测节点是否可用
	Ping(ctx context.Context) error

	// Close 关闭连接
	Close() error
}

// NewClient 创建新的客户端
func NewClient(config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Protocol {
	case ProtocolHTTP, "":
		return NewHTTPClient(config)
	case ProtocolGRPC:
		return NewGRPCClient(config)
	case ProtocolWebSocket:
		return NewWebSocketClient(config)
	default:
		return nil, fmt.Errorf("unsupported protocol: %s", config.Protocol)
	}
}

// pingMethod 用于 HTTP/WebSocket 探活的只读方法
const pingMethod = "sui_getChainIdentifier"
