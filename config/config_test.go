package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sui-sponsor/client-sdk-go/client"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:4000", cfg.SponsorURL)
	assert.Equal(t, "http://127.0.0.1:9000", cfg.NetworkURL)
	assert.Equal(t, SubmitToSponsor, cfg.SubmitTo)
	assert.Equal(t, 30, cfg.Timeout)
	assert.Equal(t, "/tx/gas", cfg.Sponsor.GasPath)
	assert.Equal(t, "/tx/submit", cfg.Sponsor.SubmitPath)
	assert.Equal(t, 50, cfg.Load.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.Load.Interval)
	assert.Equal(t, uint64(1000), cfg.Load.Amount)
	assert.False(t, cfg.HasSigner())
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sponsor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sponsor_url: http://sponsor.local:4000
secret_key: AAAA
submit_to: network
timeout: 0
load:
  batch_size: 10
  interval: 250ms
`), 0o600))

	t.Setenv("SPONSOR_NETWORK_URL", "ws://node.local:9000")
	t.Setenv("SPONSOR_PROTOCOL", "websocket")
	t.Setenv("SPONSOR_LOAD_MAX_BATCHES", "3")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://sponsor.local:4000", cfg.SponsorURL)
	assert.Equal(t, "ws://node.local:9000", cfg.NetworkURL)
	assert.Equal(t, SubmitToNetwork, cfg.SubmitTo)
	assert.Equal(t, 0, cfg.Timeout)
	assert.Equal(t, 10, cfg.Load.BatchSize)
	assert.Equal(t, 250*time.Millisecond, cfg.Load.Interval)
	assert.Equal(t, 3, cfg.Load.MaxBatches)
	assert.True(t, cfg.HasSigner())

	nc := cfg.NetworkClientConfig()
	assert.Equal(t, client.ProtocolWebSocket, nc.Protocol)
	assert.Equal(t, "ws://node.local:9000", nc.Endpoint)

	opts := cfg.LoadOptions()
	assert.Equal(t, 10, opts.BatchSize)
	assert.Equal(t, 3, opts.MaxBatches)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			SponsorURL: "http://127.0.0.1:4000",
			NetworkURL: "http://127.0.0.1:9000",
			SubmitTo:   SubmitToSponsor,
			Load:       LoadConfig{BatchSize: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing sponsor url", mutate: func(c *Config) { c.SponsorURL = "" }, wantErr: true},
		{name: "unknown submit target", mutate: func(c *Config) { c.SubmitTo = "chain" }, wantErr: true},
		{name: "network target without url", mutate: func(c *Config) {
			c.SubmitTo = SubmitToNetwork
			c.NetworkURL = ""
		}, wantErr: true},
		{name: "network target over grpc", mutate: func(c *Config) {
			c.SubmitTo = SubmitToNetwork
			c.Protocol = "grpc"
		}, wantErr: true},
		{name: "unsupported protocol", mutate: func(c *Config) { c.Protocol = "quic" }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = -1 }, wantErr: true},
		{name: "zero batch size", mutate: func(c *Config) { c.Load.BatchSize = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
