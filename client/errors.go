package client

import (
	"errors"
	"fmt"

	"github.com/sui-sponsor/client-sdk-go/types"
)

// httpStatusError 可重试的 HTTP 状态错误（5xx / 429）
type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}

// newRPCError 将 JSON-RPC error 对象转换为 SDK 错误
func newRPCError(method string, rpcErr *jsonRPCError) *types.Error {
	e := types.NewRPCError(method, rpcErr.Code, rpcErr.Message)
	if len(rpcErr.Data) > 0 {
		e.Body = string(rpcErr.Data)
	}
	return e
}

// toTransportError 将传输层错误统一为 types.Error
//
// 已经是 SDK 错误的原样返回；重试耗尽后的 HTTP 状态错误保留状态码与响应体。
func toTransportError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := types.IsError(err); ok {
		return err
	}

	var statusErr *httpStatusError
	if errors.As(err, &statusErr) {
		return &types.Error{
			Code:    types.CodeNetworkError,
			Message: "unexpected http status",
			Status:  statusErr.StatusCode,
			Body:    statusErr.Body,
			Cause:   err,
		}
	}
	return types.NewNetworkError(err)
}
