package sponsored_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sui-sponsor/client-sdk-go/config"
	"github.com/sui-sponsor/client-sdk-go/services/sponsored"
	"github.com/sui-sponsor/client-sdk-go/test/sponsortest"
	"github.com/sui-sponsor/client-sdk-go/wallet"
)

func TestLoadWallet(t *testing.T) {
	w, err := wallet.NewWallet(wallet.SchemeSecp256k1)
	require.NoError(t, err)

	t.Run("secret key", func(t *testing.T) {
		got, err := sponsored.LoadWallet(&config.Config{SecretKey: w.ExportSecret()})
		require.NoError(t, err)
		assert.Equal(t, w.Address(), got.Address())
	})

	t.Run("keystore", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), wallet.DefaultKeystoreFile)
		km, err := wallet.NewKeystoreManager(path)
		require.NoError(t, err)
		other, err := wallet.NewWallet(wallet.SchemeEd25519)
		require.NoError(t, err)
		require.NoError(t, km.Save(other))
		require.NoError(t, km.Save(w))

		got, err := sponsored.LoadWallet(&config.Config{KeystorePath: path, Address: w.Address().String()})
		require.NoError(t, err)
		assert.Equal(t, w.Address(), got.Address())

		first, err := sponsored.LoadWallet(&config.Config{KeystorePath: path})
		require.NoError(t, err)
		assert.Equal(t, other.Address(), first.Address())
	})

	t.Run("mistyped keystore path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "typo", wallet.DefaultKeystoreFile)
		_, err := sponsored.LoadWallet(&config.Config{KeystorePath: path})
		assert.Error(t, err)
		assert.NoDirExists(t, filepath.Dir(path))
	})

	t.Run("no source", func(t *testing.T) {
		_, err := sponsored.LoadWallet(&config.Config{})
		assert.Error(t, err)
	})

	t.Run("bad secret", func(t *testing.T) {
		_, err := sponsored.LoadWallet(&config.Config{SecretKey: "not base64"})
		assert.Error(t, err)
	})
}

func TestNewStack(t *testing.T) {
	srv := sponsortest.New(t)
	w, err := wallet.NewWallet(wallet.SchemeEd25519)
	require.NoError(t, err)

	cfg := &config.Config{
		SponsorURL: srv.URL,
		NetworkURL: srv.RPCURL(),
		Protocol:   "http",
		Timeout:    5,
		SubmitTo:   config.SubmitToNetwork,
		Load:       config.LoadConfig{BatchSize: 1},
	}
	require.NoError(t, cfg.Validate())

	stack, err := sponsored.NewStack(cfg, w, nil, nil)
	require.NoError(t, err)
	defer stack.Close()

	require.NotNil(t, stack.Network)
	require.NoError(t, stack.Network.Ping(context.Background()))

	a, err := stack.Sender.Send(context.Background(), sponsored.TransferToSelf(1000))
	require.NoError(t, err)

	tx, err := stack.NetworkService.GetTransaction(context.Background(), a.Result.Digest)
	require.NoError(t, err)
	assert.Equal(t, a.Result.Digest, tx.Digest)

	subs := srv.Submissions()
	require.Len(t, subs, 1)
	assert.Equal(t, config.SubmitToNetwork, subs[0].Via)
}
