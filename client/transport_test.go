package client

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sui-sponsor/client-sdk-go/types"
)

func TestRESTClient_PostJSON(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "/tx/gas", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.JSONEq(t, `{"tx_data":"AAE="}`, string(body))

		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("busy"))
	}))
	defer server.Close()

	c, err := NewRESTClient(&Config{
		Endpoint: server.URL + "/",
		Headers:  map[string]string{"X-Api-Key": "secret"},
	})
	require.NoError(t, err)
	defer c.Close()

	resp, err := c.PostJSON(context.Background(), "/tx/gas", map[string]string{"tx_data": "AAE="})
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, "busy", string(resp.Body))
	// 未配置重试时只请求一次
	assert.Equal(t, int32(1), calls.Load())
}

func TestRESTClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c, err := NewRESTClient(&Config{Endpoint: url, Timeout: 1})
	require.NoError(t, err)

	_, err = c.PostJSON(context.Background(), "tx/gas", struct{}{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrNetwork))
}

func TestRESTClient_RequiresEndpoint(t *testing.T) {
	_, err := NewRESTClient(&Config{})
	assert.Error(t, err)
}

func TestWebSocketClient_Call(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			var req jsonRPCRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}
			resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
			if req.Method == "sui_fail" {
				resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
			} else {
				resp["result"] = req.Method
			}
			if err := conn.WriteJSON(resp); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	c, err := NewClient(&Config{Endpoint: server.URL, Protocol: ProtocolWebSocket, Timeout: 5})
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	result, err := c.Call(ctx, "sui_getTransactionBlock", []interface{}{"abc"})
	require.NoError(t, err)
	assert.Equal(t, `"sui_getTransactionBlock"`, string(result))

	require.NoError(t, c.Ping(ctx))

	_, err = c.Call(ctx, "sui_fail", nil)
	assert.True(t, errors.Is(err, types.ErrRPC))

	require.NoError(t, c.Close())
	_, err = c.Call(ctx, "sui_getTransactionBlock", nil)
	assert.True(t, errors.Is(err, types.ErrNetwork))
}

func TestToWebSocketURL(t *testing.T) {
	assert.Equal(t, "ws://node:9000", toWebSocketURL("http://node:9000"))
	assert.Equal(t, "wss://node", toWebSocketURL("https://node"))
	assert.Equal(t, "wss://node", toWebSocketURL("wss://node"))
	assert.Equal(t, "ws://node:9000", toWebSocketURL("node:9000"))
}

func TestGRPCClient_Ping(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)
	go func() { _ = srv.Serve(lis) }()
	defer srv.Stop()

	c, err := NewClient(&Config{Endpoint: "http://" + lis.Addr().String(), Protocol: ProtocolGRPC})
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Ping(ctx))

	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	assert.True(t, errors.Is(c.Ping(ctx), types.ErrNetwork))

	_, err = c.Call(ctx, "sui_getTransactionBlock", nil)
	assert.True(t, errors.Is(err, types.ErrNotSupported))
}

func TestNewClient_UnsupportedProtocol(t *testing.T) {
	_, err := NewClient(&Config{Endpoint: "x", Protocol: "carrier-pigeon"})
	assert.Error(t, err)
}
