package gasstation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sui-sponsor/client-sdk-go/test/sponsortest"
	"github.com/sui-sponsor/client-sdk-go/transaction"
	"github.com/sui-sponsor/client-sdk-go/types"
	"github.com/sui-sponsor/client-sdk-go/wallet"
)

// draftFixture 构建 split + transfer 给自己的草稿
func draftFixture(t *testing.T, w wallet.Wallet) *transaction.Draft {
	t.Helper()

	d := transaction.NewDraft()
	coin, err := d.AddSplitCoin(transaction.GasCoin(), 1000)
	require.NoError(t, err)
	require.NoError(t, d.AddTransfer([]transaction.Argument{coin.Nested(0)}, w.Address()))
	d.SetSender(w.Address())
	return d
}

// unsignedFixture 不含 gas 的交易字节
func unsignedFixture(t *testing.T) []byte {
	t.Helper()

	w, err := wallet.NewWallet(wallet.SchemeEd25519)
	require.NoError(t, err)
	txBytes, err := draftFixture(t, w).SerializeUnsigned()
	require.NoError(t, err)
	return txBytes
}

// signedFixture 构建并签名一笔 split + transfer 交易
func signedFixture(t *testing.T) *types.SignedTransaction {
	t.Helper()

	w, err := wallet.NewWallet(wallet.SchemeEd25519)
	require.NoError(t, err)
	d := draftFixture(t, w)

	gas := types.NewGasData([]types.ObjectRef{{ObjectID: "0xA", Version: 3, Digest: sponsortest.ObjectDigest("a")}}, sponsortest.DefaultOwner, 1000, 5000000)
	_, err = transaction.MergeGas(d, gas)
	require.NoError(t, err)

	signed, err := transaction.Sign(d, w)
	require.NoError(t, err)
	return signed
}
