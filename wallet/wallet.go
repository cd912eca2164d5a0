package wallet

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pattonkan/sui-go/sui"
	"github.com/pattonkan/sui-go/suisigner"
	"golang.org/x/crypto/blake2b"

	"github.com/sui-sponsor/client-sdk-go/types"
)

// Scheme 签名方案，取值即序列化签名中的 flag 字节
type Scheme byte

const (
	// SchemeEd25519 默认方案
	SchemeEd25519 = Scheme(suisigner.KeySchemeFlagEd25519)
	// SchemeSecp256k1 secp256k1 ECDSA
	SchemeSecp256k1 = Scheme(suisigner.KeySchemeFlagSecp256k1)
)

func (s Scheme) String() string {
	switch s {
	case SchemeEd25519:
		return "ed25519"
	case SchemeSecp256k1:
		return "secp256k1"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(s))
	}
}

// ParseScheme 解析方案名称
func ParseScheme(name string) (Scheme, error) {
	switch strings.ToLower(name) {
	case "", "ed25519":
		return SchemeEd25519, nil
	case "secp256k1":
		return SchemeSecp256k1, nil
	default:
		return 0, fmt.Errorf("unsupported signature scheme: %s", name)
	}
}

// Wallet 钱包接口
type Wallet interface {
	// Address 获取钱包地址
	Address() types.Address

	// Scheme 签名方案
	Scheme() Scheme

	// PublicKey 公钥字节（ed25519 32 字节，secp256k1 压缩格式 33 字节）
	PublicKey() []byte

	// SignTransaction 对交易字节签名，返回 base64(flag || sig || pubkey)
	SignTransaction(txBytes []byte) (string, error)

	// SignDigest 对 32 字节摘要签名，返回原始签名（供高级调用方使用）
	SignDigest(digest []byte) ([]byte, error)

	// ExportSecret 导出 base64(flag || secret)，格式与 FromBase64Secret 对应
	ExportSecret() string
}

// NewWallet 创建新钱包
func NewWallet(scheme Scheme) (Wallet, error) {
	switch scheme {
	case SchemeEd25519:
		seed := make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			return nil, fmt.Errorf("generate ed25519 key: %w", err)
		}
		return newEd25519Wallet(seed), nil
	case SchemeSecp256k1:
		priv, err := ethcrypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("generate secp256k1 key: %w", err)
		}
		return newSecp256k1Wallet(priv), nil
	default:
		return nil, fmt.Errorf("unsupported signature scheme: %s", scheme)
	}
}

// FromBase64Secret 从 base64 编码的私钥导入钱包
//
// 33 字节时首字节为 flag，据此选择签名方案；32 字节时视为 ed25519 种子；
// 65 字节为 flag || ed25519 私钥（种子 || 公钥），公钥须与种子派生结果一致。
func FromBase64Secret(secret string) (Wallet, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(secret))
	if err != nil {
		return nil, fmt.Errorf("decode base64 secret: %w", err)
	}

	switch len(raw) {
	case 1 + ed25519.PrivateKeySize:
		return fromEd25519PrivateKey(Scheme(raw[0]), raw[1:])
	case 33:
		return fromSeed(Scheme(raw[0]), raw[1:])
	case 32:
		return fromSeed(SchemeEd25519, raw)
	default:
		return nil, fmt.Errorf("invalid secret length: expected 32, 33 or 65 bytes, got %d", len(raw))
	}
}

// fromEd25519PrivateKey 导入 64 字节 ed25519 私钥（种子 || 公钥）
func fromEd25519PrivateKey(scheme Scheme, key []byte) (Wallet, error) {
	if scheme != SchemeEd25519 {
		return nil, fmt.Errorf("64-byte private key requires %s flag, got %s", SchemeEd25519, scheme)
	}
	w := newEd25519Wallet(key[:ed25519.SeedSize])
	if !bytes.Equal(w.PublicKey(), key[ed25519.SeedSize:]) {
		return nil, fmt.Errorf("ed25519 public key does not match seed")
	}
	return w, nil
}

// NewWalletFromPrivateKey 从十六进制私钥创建钱包
func NewWalletFromPrivateKey(privateKeyHex string, scheme Scheme) (Wallet, error) {
	privateKeyBytes, err := hex.DecodeString(hexRemovePrefix(privateKeyHex))
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	if len(privateKeyBytes) != 32 {
		return nil, fmt.Errorf("invalid private key length: expected 32 bytes, got %d", len(privateKeyBytes))
	}
	return fromSeed(scheme, privateKeyBytes)
}

func fromSeed(scheme Scheme, seed []byte) (Wallet, error) {
	switch scheme {
	case SchemeEd25519:
		return newEd25519Wallet(seed), nil
	case SchemeSecp256k1:
		priv, err := ethcrypto.ToECDSA(seed)
		if err != nil {
			return nil, fmt.Errorf("parse secp256k1 private key failed: %w", err)
		}
		return newSecp256k1Wallet(priv), nil
	default:
		return nil, fmt.Errorf("unsupported signature scheme: %s", scheme)
	}
}

// ed25519Wallet Ed25519 钱包，签名与地址派生交给 suisigner
type ed25519Wallet struct {
	signer    *suisigner.Signer
	address   types.Address
	createdAt time.Time
}

func newEd25519Wallet(seed []byte) *ed25519Wallet {
	signer := suisigner.NewSigner(seed, suisigner.KeySchemeFlagEd25519)
	return &ed25519Wallet{
		signer:    signer,
		address:   types.Address(signer.Address.String()),
		createdAt: time.Now(),
	}
}

func (w *ed25519Wallet) Address() types.Address { return w.address }
func (w *ed25519Wallet) Scheme() Scheme         { return SchemeEd25519 }
func (w *ed25519Wallet) PublicKey() []byte      { return append([]byte(nil), w.signer.PublicKey()...) }

func (w *ed25519Wallet) SignTransaction(txBytes []byte) (string, error) {
	if len(txBytes) == 0 {
		return "", fmt.Errorf("empty transaction bytes")
	}
	sig, err := w.signer.SignTransactionBlock(txBytes, suisigner.DefaultIntent())
	if err != nil {
		return "", fmt.Errorf("sign transaction block: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig.Bytes()), nil
}

func (w *ed25519Wallet) SignDigest(digest []byte) ([]byte, error) {
	return ed25519.Sign(w.privateKey(), digest), nil
}

func (w *ed25519Wallet) ExportSecret() string {
	return exportSecret(SchemeEd25519, w.privateKey().Seed())
}

func (w *ed25519Wallet) privateKey() ed25519.PrivateKey {
	return ed25519.PrivateKey(w.signer.PrivateKey())
}

// secp256k1Wallet secp256k1 钱包
type secp256k1Wallet struct {
	privateKey *ecdsa.PrivateKey
	publicKey  []byte
	address    types.Address
	createdAt  time.Time
}

func newSecp256k1Wallet(priv *ecdsa.PrivateKey) *secp256k1Wallet {
	pub := ethcrypto.CompressPubkey(&priv.PublicKey)
	return &secp256k1Wallet{
		privateKey: priv,
		publicKey:  pub,
		address:    DeriveAddress(SchemeSecp256k1, pub),
		createdAt:  time.Now(),
	}
}

func (w *secp256k1Wallet) Address() types.Address { return w.address }
func (w *secp256k1Wallet) Scheme() Scheme         { return SchemeSecp256k1 }
func (w *secp256k1Wallet) PublicKey() []byte      { return append([]byte(nil), w.publicKey...) }

func (w *secp256k1Wallet) SignTransaction(txBytes []byte) (string, error) {
	return signTransaction(w, txBytes)
}

// SignDigest 对 sha256(digest) 做 ECDSA 签名，返回 r || s（64 字节，low-S）
func (w *secp256k1Wallet) SignDigest(digest []byte) ([]byte, error) {
	hash := sha256.Sum256(digest)
	sig, err := ethcrypto.Sign(hash[:], w.privateKey)
	if err != nil {
		return nil, fmt.Errorf("ecdsa sign: %w", err)
	}
	// 去掉恢复位 V
	return sig[:64], nil
}

func (w *secp256k1Wallet) ExportSecret() string {
	return exportSecret(SchemeSecp256k1, ethcrypto.FromECDSA(w.privateKey))
}

// signTransaction 通用签名流程（suisigner 未覆盖的方案）
func signTransaction(w Wallet, txBytes []byte) (string, error) {
	if len(txBytes) == 0 {
		return "", fmt.Errorf("empty transaction bytes")
	}

	// 1. 计算意图摘要
	digest := IntentDigest(txBytes)

	// 2. 签名摘要
	sig, err := w.SignDigest(digest)
	if err != nil {
		return "", err
	}

	// 3. 序列化：flag || sig || pubkey
	return SerializeSignature(w.Scheme(), sig, w.PublicKey()), nil
}

// IntentDigest 计算 blake2b-256(intent || txBytes)，intent 为 TransactionData/V0/Sui
func IntentDigest(txBytes []byte) []byte {
	sum := blake2b.Sum256(suisigner.MessageWithIntent(suisigner.DefaultIntent(), txBytes))
	return sum[:]
}

// SerializeSignature 编码 base64(flag || sig || pubkey)
func SerializeSignature(scheme Scheme, sig, pubKey []byte) string {
	buf := make([]byte, 0, 1+len(sig)+len(pubKey))
	buf = append(buf, byte(scheme))
	buf = append(buf, sig...)
	buf = append(buf, pubKey...)
	return base64.StdEncoding.EncodeToString(buf)
}

// DeriveAddress 从公钥派生地址："0x" + hex(blake2b-256(flag || pubkey))
func DeriveAddress(scheme Scheme, pubKey []byte) types.Address {
	buf := make([]byte, 0, 1+len(pubKey))
	buf = append(buf, byte(scheme))
	buf = append(buf, pubKey...)
	addr := sui.Address(blake2b.Sum256(buf))
	return types.Address(addr.String())
}

// VerifyTransactionSignature 校验序列化签名，成功时返回签名者地址
func VerifyTransactionSignature(txBytes []byte, serialized string) (types.Address, error) {
	raw, err := base64.StdEncoding.DecodeString(serialized)
	if err != nil {
		return "", fmt.Errorf("decode signature: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty signature")
	}

	scheme := Scheme(raw[0])
	body := raw[1:]
	digest := IntentDigest(txBytes)

	switch scheme {
	case SchemeEd25519:
		if len(body) != ed25519.SignatureSize+ed25519.PublicKeySize {
			return "", fmt.Errorf("invalid ed25519 signature length: %d", len(body))
		}
		sig, pub := body[:ed25519.SignatureSize], body[ed25519.SignatureSize:]
		if !ed25519.Verify(pub, digest, sig) {
			return "", fmt.Errorf("ed25519 signature mismatch")
		}
		return DeriveAddress(scheme, pub), nil
	case SchemeSecp256k1:
		if len(body) != 64+33 {
			return "", fmt.Errorf("invalid secp256k1 signature length: %d", len(body))
		}
		sig, pub := body[:64], body[64:]
		hash := sha256.Sum256(digest)
		if !ethcrypto.VerifySignature(pub, hash[:], sig) {
			return "", fmt.Errorf("secp256k1 signature mismatch")
		}
		return DeriveAddress(scheme, pub), nil
	default:
		return "", fmt.Errorf("unsupported signature scheme: %s", scheme)
	}
}

func exportSecret(scheme Scheme, seed []byte) string {
	buf := make([]byte, 0, 1+len(seed))
	buf = append(buf, byte(scheme))
	buf = append(buf, seed...)
	return base64.StdEncoding.EncodeToString(buf)
}

// hexRemovePrefix 移除十六进制字符串的0x前缀
func hexRemovePrefix(hexStr string) string {
	if len(hexStr) >= 2 && hexStr[:2] == "0x" {
		return hexStr[2:]
	}
	return hexStr
}
