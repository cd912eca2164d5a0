package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Response REST 响应
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess 是否为 2xx
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// RESTClient JSON over HTTP 客户端（用于 sponsor 服务）
//
// 非 2xx 响应不视为错误，原样返回给调用方按业务映射；
// 只有传输失败返回 NetworkError。默认不重试。
type RESTClient struct {
	baseURL string
	client  *http.Client
	headers map[string]string
	logger  Logger
	debug   bool
	retry   *RetryConfig
}

// NewRESTClient 创建 REST 客户端，config.Endpoint 为服务根地址
func NewRESTClient(config *Config) (*RESTClient, error) {
	if config == nil || config.Endpoint == "" {
		return nil, fmt.Errorf("rest client requires an endpoint")
	}

	httpCli, err := newHTTPClient(config)
	if err != nil {
		return nil, err
	}

	return &RESTClient{
		baseURL: strings.TrimRight(config.Endpoint, "/"),
		client:  httpCli,
		headers: config.Headers,
		logger:  config.logger(),
		debug:   config.Debug,
		retry:   config.Retry,
	}, nil
}

// BaseURL 服务根地址
func (c *RESTClient) BaseURL() string {
	return c.baseURL
}

// PostJSON 以 JSON 编码 body 并 POST 到 baseURL + path
func (c *RESTClient) PostJSON(ctx context.Context, path string, body interface{}) (*Response, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if c.debug {
		c.logger.Debug("REST request", "url", url, "body", string(reqBody))
	}

	var resp *Response
	err = withRetry(ctx, func() error {
		httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
		if reqErr != nil {
			return fmt.Errorf("create request failed: %w", reqErr)
		}
		setHeaders(ctx, httpReq, c.headers)

		httpResp, reqErr := c.client.Do(httpReq)
		if reqErr != nil {
			return reqErr
		}
		defer httpResp.Body.Close()

		data, reqErr := io.ReadAll(httpResp.Body)
		if reqErr != nil {
			return fmt.Errorf("read response failed: %w", reqErr)
		}

		if isRetryableHTTPError(httpResp.StatusCode) && c.retry != nil && c.retry.MaxRetries > 0 {
			return &httpStatusError{StatusCode: httpResp.StatusCode, Body: string(data)}
		}

		resp = &Response{StatusCode: httpResp.StatusCode, Body: data}
		return nil
	}, c.retry)
	if err != nil {
		return nil, toTransportError(err)
	}

	if c.debug {
		c.logger.Debug("REST response", "url", url, "status", resp.StatusCode, "body", string(resp.Body))
	}
	return resp, nil
}

// Close 释放空闲连接
func (c *RESTClient) Close() error {
	c.client.CloseIdleConnections()
	return nil
}
