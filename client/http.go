package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync/atomic"

	"github.com/sui-sponsor/client-sdk-go/types"
)

// httpClient HTTP JSON-RPC 客户端实现
type httpClient struct {
	endpoint string
	client   *http.Client
	headers  map[string]string
	logger   Logger
	debug    bool
	nextID   atomic.Uint64
	retry    *RetryConfig
}

// NewHTTPClient 创建HTTP客户端
func NewHTTPClient(config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	httpCli, err := newHTTPClient(config)
	if err != nil {
		return nil, err
	}

	retryConfig := config.Retry
	if retryConfig == nil {
		retryConfig = DefaultRetryConfig()
		if config.Debug && config.Logger != nil {
			retryConfig.OnRetry = func(attempt int, err error) {
				config.Logger.Warn("Retrying request", "attempt", attempt, "error", err)
			}
		}
	}

	return &httpClient{
		endpoint: config.Endpoint,
		client:   httpCli,
		headers:  config.Headers,
		logger:   config.logger(),
		debug:    config.Debug,
		retry:    retryConfig,
	}, nil
}

// newHTTPClient 按配置构建 *http.Client（超时与 TLS）
func newHTTPClient(config *Config) (*http.Client, error) {
	httpCli := &http.Client{
		Timeout: config.timeout(),
	}

	if config.TLS == nil {
		return httpCli, nil
	}

	tlsCfg := &tls.Config{
		InsecureSkipVerify: config.TLS.Insecure, //nolint:gosec // 仅用于开发环境
	}
	if config.TLS.CAFile != "" {
		pem, err := os.ReadFile(config.TLS.CAFile)
		if err != nil {
			return nil, fmt.Errorf("read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("no certificates found in %s", config.TLS.CAFile)
		}
		tlsCfg.RootCAs = pool
	}
	if config.TLS.CertFile != "" && config.TLS.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(config.TLS.CertFile, config.TLS.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsCfg.Certificates = []tls.Certificate{cert}
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = tlsCfg
	httpCli.Transport = transport
	return httpCli, nil
}

// Call 调用JSON-RPC方法
func (c *httpClient) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	// 使用原子计数器生成唯一ID
	req := &jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	if c.debug {
		c.logger.Debug("JSON-RPC request", "method", method, "body", string(reqBody))
	}

	// 发送请求（带重试）
	var resp *http.Response
	respErr := withRetry(ctx, func() error {
		// 每次重试都创建新的请求（因为 Body 只能读取一次）
		httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
		if reqErr != nil {
			return fmt.Errorf("create request failed: %w", reqErr)
		}
		setHeaders(ctx, httpReq, c.headers)

		httpResp, reqErr := c.client.Do(httpReq)
		if reqErr != nil {
			return reqErr
		}

		if isRetryableHTTPError(httpResp.StatusCode) {
			body, _ := io.ReadAll(httpResp.Body)
			httpResp.Body.Close()
			return &httpStatusError{StatusCode: httpResp.StatusCode, Body: string(body)}
		}

		resp = httpResp
		return nil
	}, c.retry)
	if respErr != nil {
		return nil, toTransportError(respErr)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Warn("Failed to close response body", "error", err)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewNetworkError(fmt.Errorf("read response failed: %w", err))
	}

	if c.debug {
		c.logger.Debug("JSON-RPC response", "status", resp.StatusCode, "body", string(respBody))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &types.Error{
			Code:    types.CodeNetworkError,
			Message: fmt.Sprintf("%s: unexpected http status", method),
			Status:  resp.StatusCode,
			Body:    string(respBody),
		}
	}

	return decodeRPCResponse(method, respBody)
}

// Ping 调用只读方法探活
func (c *httpClient) Ping(ctx context.Context) error {
	_, err := c.Call(ctx, pingMethod, []interface{}{})
	return err
}

// Close 关闭连接（HTTP客户端无需特殊处理）
func (c *httpClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}

// setHeaders 设置通用请求头
func setHeaders(ctx context.Context, req *http.Request, extra map[string]string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range extra {
		req.Header.Set(k, v)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}
}

// decodeRPCResponse 解析 JSON-RPC 响应体
func decodeRPCResponse(method string, body []byte) (json.RawMessage, error) {
	var jsonResp jsonRPCResponse
	if err := json.Unmarshal(body, &jsonResp); err != nil {
		return nil, types.NewNetworkError(fmt.Errorf("unmarshal response failed: %w", err))
	}

	if jsonResp.Error != nil {
		return nil, newRPCError(method, jsonResp.Error)
	}

	return jsonResp.Result, nil
}

// jsonRPCRequest JSON-RPC请求结构
type jsonRPCRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      uint64      `json:"id"`
}

// jsonRPCResponse JSON-RPC响应结构
type jsonRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonRPCError   `json:"error,omitempty"`
	ID      uint64          `json:"id"`
}

// jsonRPCError JSON-RPC错误结构
type jsonRPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}
