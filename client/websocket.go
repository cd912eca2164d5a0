package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sui-sponsor/client-sdk-go/types"
)

// websocketClient WebSocket JSON-RPC 客户端实现
type websocketClient struct {
	endpoint string
	conn     *websocket.Conn
	timeout  time.Duration
	logger   Logger
	mu       sync.Mutex
	closed   int32
	nextID   uint64
	requests map[uint64]chan *jsonRPCResponse
	muReq    sync.Mutex
}

// NewWebSocketClient 创建 WebSocket 客户端
func NewWebSocketClient(config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	endpoint := toWebSocketURL(config.Endpoint)

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	header := http.Header{}
	for k, v := range config.Headers {
		header.Set(k, v)
	}

	conn, _, err := dialer.Dial(endpoint, header)
	if err != nil {
		return nil, types.NewNetworkError(fmt.Errorf("dial websocket: %w", err))
	}

	timeout := config.timeout()
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := &websocketClient{
		endpoint: endpoint,
		conn:     conn,
		timeout:  timeout,
		logger:   config.logger(),
		requests: make(map[uint64]chan *jsonRPCResponse),
	}

	go client.readLoop()

	return client, nil
}

// toWebSocketURL 将 http(s):// 转换为 ws(s)://
func toWebSocketURL(endpoint string) string {
	switch {
	case strings.HasPrefix(endpoint, "http://"):
		return "ws://" + strings.TrimPrefix(endpoint, "http://")
	case strings.HasPrefix(endpoint, "https://"):
		return "wss://" + strings.TrimPrefix(endpoint, "https://")
	case strings.HasPrefix(endpoint, "ws://"), strings.HasPrefix(endpoint, "wss://"):
		return endpoint
	default:
		return "ws://" + endpoint
	}
}

// readLoop 消息读取循环
func (c *websocketClient) readLoop() {
	for {
		var resp jsonRPCResponse
		if err := c.conn.ReadJSON(&resp); err != nil {
			if atomic.LoadInt32(&c.closed) == 0 {
				c.logger.Warn("websocket read failed", "endpoint", c.endpoint, "error", err)
			}
			atomic.StoreInt32(&c.closed, 1)

			// 连接关闭：唤醒所有等待中的请求
			c.muReq.Lock()
			for _, ch := range c.requests {
				close(ch)
			}
			c.requests = make(map[uint64]chan *jsonRPCResponse)
			c.muReq.Unlock()
			return
		}

		c.muReq.Lock()
		ch, exists := c.requests[resp.ID]
		if exists {
			delete(c.requests, resp.ID)
		}
		c.muReq.Unlock()

		if exists {
			ch <- &resp
		}
	}
}

// Call 调用 JSON-RPC 方法
func (c *websocketClient) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	if atomic.LoadInt32(&c.closed) == 1 {
		return nil, types.NewNetworkError(fmt.Errorf("websocket client is closed"))
	}

	reqID := atomic.AddUint64(&c.nextID, 1)
	req := jsonRPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      reqID,
	}

	// 响应通道带缓冲，readLoop 不会阻塞
	respCh := make(chan *jsonRPCResponse, 1)
	c.muReq.Lock()
	c.requests[reqID] = respCh
	c.muReq.Unlock()

	// gorilla/websocket 只允许一个并发写者
	c.mu.Lock()
	err := c.conn.WriteJSON(req)
	c.mu.Unlock()
	if err != nil {
		c.forget(reqID)
		return nil, types.NewNetworkError(fmt.Errorf("write request: %w", err))
	}

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case resp, ok := <-respCh:
		if !ok {
			return nil, types.NewNetworkError(fmt.Errorf("websocket connection closed"))
		}
		if resp.Error != nil {
			return nil, newRPCError(method, resp.Error)
		}
		return resp.Result, nil

	case <-ctx.Done():
		c.forget(reqID)
		return nil, types.NewNetworkError(ctx.Err())

	case <-timer.C:
		c.forget(reqID)
		return nil, types.NewNetworkError(fmt.Errorf("%s: request timeout after %s", method, c.timeout))
	}
}

func (c *websocketClient) forget(id uint64) {
	c.muReq.Lock()
	delete(c.requests, id)
	c.muReq.Unlock()
}

// Ping 调用只读方法探活
func (c *websocketClient) Ping(ctx context.Context) error {
	_, err := c.Call(ctx, pingMethod, []interface{}{})
	return err
}

// Close 关闭连接
func (c *websocketClient) Close() error {
	if atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		c.mu.Lock()
		defer c.mu.Unlock()
		_ = c.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		return c.conn.Close()
	}
	return nil
}
