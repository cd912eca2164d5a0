package transaction

import (
	"github.com/btcsuite/btcutil/base58"
	"github.com/pattonkan/sui-go/sui"
	"golang.org/x/crypto/blake2b"

	"github.com/sui-sponsor/client-sdk-go/types"
)

// 规范编码为 suiptb.TransactionData 的 BCS 形式：地址与对象 ID 是 32 字节定长数组，
// 对象摘要是带长度前缀的字节串。

// objectDigestLen 对象摘要解码后的字节数
const objectDigestLen = 32

// ParseAddress 解析十六进制地址，短地址左侧补零到 32 字节
func ParseAddress(addr types.Address) (*sui.Address, error) {
	if addr.IsEmpty() {
		return nil, types.NewError(types.CodeInvalidArgument, "address is empty")
	}
	parsed, err := sui.AddressFromHex(addr.String())
	if err != nil {
		return nil, types.NewError(types.CodeInvalidArgument, "invalid address %q: %v", addr, err)
	}
	return parsed, nil
}

// ParseObjectRef 解析对象引用：ID 按地址规则补齐，摘要为 base58 编码的 32 字节
func ParseObjectRef(ref types.ObjectRef) (*sui.ObjectRef, error) {
	if ref.ObjectID == "" {
		return nil, types.NewError(types.CodeInvalidArgument, "object id is empty")
	}
	id, err := sui.ObjectIdFromHex(ref.ObjectID)
	if err != nil {
		return nil, types.NewError(types.CodeInvalidArgument, "invalid object id %q: %v", ref.ObjectID, err)
	}
	digest, err := sui.NewDigest(ref.Digest)
	if err != nil || digest.Length() != objectDigestLen {
		return nil, types.NewError(types.CodeInvalidArgument, "invalid object digest %q for %s", ref.Digest, ref.ObjectID)
	}
	return &sui.ObjectRef{ObjectId: id, Version: ref.Version, Digest: digest}, nil
}

// NormalizeAddress 返回 64 位十六进制的完整地址
func NormalizeAddress(addr types.Address) (types.Address, error) {
	parsed, err := ParseAddress(addr)
	if err != nil {
		return "", err
	}
	return types.Address(parsed.String()), nil
}

// NormalizeObjectRef 返回 ID 补齐后的对象引用
func NormalizeObjectRef(ref types.ObjectRef) (types.ObjectRef, error) {
	parsed, err := ParseObjectRef(ref)
	if err != nil {
		return types.ObjectRef{}, err
	}
	return fromSuiObjectRef(parsed), nil
}

func fromSuiObjectRef(ref *sui.ObjectRef) types.ObjectRef {
	return types.ObjectRef{
		ObjectID: ref.ObjectId.String(),
		Version:  ref.Version,
		Digest:   ref.Digest.String(),
	}
}

// digestPrefix 交易摘要的域分隔前缀
const digestPrefix = "TransactionData::"

// Digest 计算交易摘要：base58(blake2b-256("TransactionData::" || txBytes))
func Digest(txBytes []byte) string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte(digestPrefix))
	h.Write(txBytes)
	return base58.Encode(h.Sum(nil))
}
