package wallet

import (
	"encoding/base64"
	"encoding/hex"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RFC 8032 test vector 1
const (
	rfcSeedHex   = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"
	rfcPubKeyHex = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"
)

func TestFromBase64Secret(t *testing.T) {
	seed, err := hex.DecodeString(rfcSeedHex)
	require.NoError(t, err)
	pub, err := hex.DecodeString(rfcPubKeyHex)
	require.NoError(t, err)

	// flag || ed25519 私钥（种子 || 公钥）
	keypair := append(append([]byte{0x00}, seed...), pub...)
	mismatched := append(append([]byte{0x00}, seed...), make([]byte, 32)...)
	secpKeypair := append(append([]byte{0x01}, seed...), pub...)

	tests := []struct {
		name    string
		secret  string
		scheme  Scheme
		wantErr bool
	}{
		{
			name:   "flag prefixed ed25519",
			secret: base64.StdEncoding.EncodeToString(append([]byte{0x00}, seed...)),
			scheme: SchemeEd25519,
		},
		{
			name:   "bare 32-byte seed",
			secret: base64.StdEncoding.EncodeToString(seed),
			scheme: SchemeEd25519,
		},
		{
			name:   "flag prefixed secp256k1",
			secret: base64.StdEncoding.EncodeToString(append([]byte{0x01}, seed...)),
			scheme: SchemeSecp256k1,
		},
		{
			name:   "flag prefixed 64-byte ed25519 keypair",
			secret: base64.StdEncoding.EncodeToString(keypair),
			scheme: SchemeEd25519,
		},
		{
			name:    "keypair with mismatched public key",
			secret:  base64.StdEncoding.EncodeToString(mismatched),
			wantErr: true,
		},
		{
			name:    "keypair with secp256k1 flag",
			secret:  base64.StdEncoding.EncodeToString(secpKeypair),
			wantErr: true,
		},
		{
			name:    "unknown flag",
			secret:  base64.StdEncoding.EncodeToString(append([]byte{0x09}, seed...)),
			wantErr: true,
		},
		{
			name:    "wrong length",
			secret:  base64.StdEncoding.EncodeToString(seed[:16]),
			wantErr: true,
		},
		{
			name:    "not base64",
			secret:  "%%%",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := FromBase64Secret(tt.secret)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.scheme, w.Scheme())
			assert.Equal(t, DeriveAddress(tt.scheme, w.PublicKey()), w.Address())
		})
	}
}

func TestFromBase64Secret_KeypairMatchesSeed(t *testing.T) {
	seed, err := hex.DecodeString(rfcSeedHex)
	require.NoError(t, err)
	pub, err := hex.DecodeString(rfcPubKeyHex)
	require.NoError(t, err)

	fromSeed, err := FromBase64Secret(base64.StdEncoding.EncodeToString(append([]byte{0x00}, seed...)))
	require.NoError(t, err)
	fromKeypair, err := FromBase64Secret(base64.StdEncoding.EncodeToString(append(append([]byte{0x00}, seed...), pub...)))
	require.NoError(t, err)

	assert.Equal(t, fromSeed.Address(), fromKeypair.Address())
	assert.Equal(t, pub, fromKeypair.PublicKey())
	// 导出统一为 flag || 种子
	assert.Equal(t, fromSeed.ExportSecret(), fromKeypair.ExportSecret())
}

func TestEd25519KnownVector(t *testing.T) {
	w, err := NewWalletFromPrivateKey("0x"+rfcSeedHex, SchemeEd25519)
	require.NoError(t, err)
	assert.Equal(t, rfcPubKeyHex, hex.EncodeToString(w.PublicKey()))

	addr := w.Address().String()
	assert.True(t, strings.HasPrefix(addr, "0x"))
	assert.Len(t, addr, 2+64)
}

func TestSignTransaction_RoundTrip(t *testing.T) {
	txBytes := []byte("sponsored transaction bytes")

	for _, scheme := range []Scheme{SchemeEd25519, SchemeSecp256k1} {
		t.Run(scheme.String(), func(t *testing.T) {
			w, err := NewWallet(scheme)
			require.NoError(t, err)

			sig, err := w.SignTransaction(txBytes)
			require.NoError(t, err)

			raw, err := base64.StdEncoding.DecodeString(sig)
			require.NoError(t, err)
			assert.Equal(t, byte(scheme), raw[0])

			signer, err := VerifyTransactionSignature(txBytes, sig)
			require.NoError(t, err)
			assert.Equal(t, w.Address(), signer)

			_, err = VerifyTransactionSignature([]byte("tampered"), sig)
			assert.Error(t, err)
		})
	}
}

func TestSignTransaction_Ed25519Deterministic(t *testing.T) {
	w, err := NewWalletFromPrivateKey(rfcSeedHex, SchemeEd25519)
	require.NoError(t, err)

	a, err := w.SignTransaction([]byte{1, 2, 3})
	require.NoError(t, err)
	b, err := w.SignTransaction([]byte{1, 2, 3})
	require.NoError(t, err)
	c, err := w.SignTransaction([]byte{1, 2, 4})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	_, err = w.SignTransaction(nil)
	assert.Error(t, err)
}

func TestExportSecret_RoundTrip(t *testing.T) {
	for _, scheme := range []Scheme{SchemeEd25519, SchemeSecp256k1} {
		t.Run(scheme.String(), func(t *testing.T) {
			w, err := NewWallet(scheme)
			require.NoError(t, err)

			imported, err := FromBase64Secret(w.ExportSecret())
			require.NoError(t, err)
			assert.Equal(t, w.Address(), imported.Address())
			assert.Equal(t, w.PublicKey(), imported.PublicKey())
		})
	}
}

func TestParseScheme(t *testing.T) {
	s, err := ParseScheme("")
	require.NoError(t, err)
	assert.Equal(t, SchemeEd25519, s)

	s, err = ParseScheme("Secp256k1")
	require.NoError(t, err)
	assert.Equal(t, SchemeSecp256k1, s)

	_, err = ParseScheme("bls")
	assert.Error(t, err)
}

func TestKeystoreManager(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultKeystoreFile)
	km, err := NewKeystoreManager(path)
	require.NoError(t, err)

	wallets, err := km.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, wallets)
	_, err = km.Load("0x1")
	assert.Error(t, err)
	// 只读操作不创建目录
	assert.NoDirExists(t, filepath.Dir(path))

	a, err := NewWallet(SchemeEd25519)
	require.NoError(t, err)
	b, err := NewWallet(SchemeSecp256k1)
	require.NoError(t, err)

	require.NoError(t, km.Save(a))
	assert.DirExists(t, filepath.Dir(path))
	require.NoError(t, km.Save(b))
	require.NoError(t, km.Save(a))

	wallets, err = km.LoadAll()
	require.NoError(t, err)
	require.Len(t, wallets, 2)

	loaded, err := km.Load(b.Address())
	require.NoError(t, err)
	assert.Equal(t, SchemeSecp256k1, loaded.Scheme())

	_, err = km.Load("0xmissing")
	assert.Error(t, err)

	_, err = NewKeystoreManager("")
	assert.Error(t, err)
}
