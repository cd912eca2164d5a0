package client

import (
	"context"

	"github.com/google/uuid"
)

// RequestIDHeader 请求追踪头
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// NewRequestID 生成请求 ID
func NewRequestID() string {
	return uuid.New().String()
}

// WithRequestID 将请求 ID 写入 context，随后的 HTTP 请求会携带 X-Request-Id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext 读取请求 ID
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
