package transaction

import (
	"fmt"

	"github.com/sui-sponsor/client-sdk-go/types"
)

// Signer 交易签名者
//
// SignTransaction 对规范编码的交易字节签名，返回序列化后的签名（base64）。
// wallet.Wallet 实现了该接口。
type Signer interface {
	SignTransaction(txBytes []byte) (string, error)
}

// Sign 对已定稿的草稿签名
//
// 草稿未定稿时返回 PrematureSign，gas 槽位不全时返回 IncompleteTransaction，
// 两种情况下都不会调用 signer。
func Sign(d *Draft, signer Signer) (*types.SignedTransaction, error) {
	if d.Phase() != PhaseFinalized {
		return nil, types.NewError(types.CodePrematureSign, "draft is %s, merge gas data before signing", d.Phase())
	}

	txBytes, err := d.SerializeFinalized()
	if err != nil {
		return nil, err
	}

	sig, err := signer.SignTransaction(txBytes)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	return &types.SignedTransaction{
		TxBytes:   txBytes,
		Signature: sig,
		Digest:    Digest(txBytes),
		Revision:  d.Revision(),
	}, nil
}

// VerifyFresh 检查签名之后草稿未被修改
func VerifyFresh(d *Draft, signed *types.SignedTransaction) error {
	if signed == nil || d.Revision() != signed.Revision {
		return types.NewError(types.CodeStaleSignature, "draft revision %d differs from signed revision", d.Revision())
	}
	return nil
}
