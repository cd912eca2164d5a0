package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sui-sponsor/client-sdk-go/types"
)

// grpcClient gRPC 客户端实现
//
// 节点的交易接口走 JSON-RPC，gRPC 端点只用于标准健康检查。
type grpcClient struct {
	conn     *grpc.ClientConn
	health   healthpb.HealthClient
	endpoint string
	service  string
}

// NewGRPCClient 创建 gRPC 客户端
func NewGRPCClient(config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	// 移除协议前缀
	endpoint := strings.TrimPrefix(config.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	// 注意：当前使用 insecure 连接，生产环境应该使用 TLS
	conn, err := grpc.NewClient(endpoint, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial gRPC: %w", err)
	}

	return &grpcClient{
		conn:     conn,
		health:   healthpb.NewHealthClient(conn),
		endpoint: endpoint,
	}, nil
}

// Call gRPC 端点不提供 JSON-RPC
func (c *grpcClient) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	return nil, types.NewNotSupportedError("json-rpc call over grpc: " + method)
}

// Ping 执行 grpc.health.v1 健康检查
func (c *grpcClient) Ping(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: c.service})
	if err != nil {
		return types.NewNetworkError(fmt.Errorf("grpc health check %s: %w", c.endpoint, err))
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return types.NewNetworkError(fmt.Errorf("grpc endpoint %s is %s", c.endpoint, resp.GetStatus()))
	}
	return nil
}

// Close 关闭连接
func (c *grpcClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
