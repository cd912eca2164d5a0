package utils

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/pattonkan/sui-go/sui"

	"github.com/sui-sponsor/client-sdk-go/types"
)

// AddressLength 地址字节长度
const AddressLength = sui.AddressLen

// DigestLength 交易摘要字节长度
const DigestLength = 32

// NormalizeAddress 规范化地址：小写、补 0x 前缀、左侧补零到 32 字节
//
// 短地址（如 0x2）会被补齐为完整长度，与交易编码中的 32 字节地址一致。
func NormalizeAddress(addr string) (types.Address, error) {
	clean := strings.TrimSpace(addr)
	if strings.TrimPrefix(strings.TrimPrefix(clean, "0x"), "0X") == "" {
		return "", fmt.Errorf("empty address")
	}
	parsed, err := sui.AddressFromHex(clean)
	if err != nil {
		return "", fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return types.Address(parsed.String()), nil
}

// IsValidAddress 是否为合法的十六进制地址
func IsValidAddress(addr string) bool {
	_, err := NormalizeAddress(addr)
	return err == nil
}

// ShortAddress 缩写地址用于日志展示：0x1234…abcd
func ShortAddress(addr types.Address) string {
	s := addr.String()
	if len(s) <= 14 {
		return s
	}
	return s[:6] + "…" + s[len(s)-4:]
}

// IsValidDigest 交易摘要是否为 32 字节的 Base58 串
func IsValidDigest(digest string) bool {
	if digest == "" {
		return false
	}
	return len(base58.Decode(digest)) == DigestLength
}
