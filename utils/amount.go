package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MistPerSui 1 SUI = 10^9 MIST
const MistPerSui = 1_000_000_000

const suiDecimals = 9

// FormatMist 将 MIST 数量格式化为 SUI 字符串，去掉多余的尾随零
func FormatMist(mist uint64) string {
	return decimal.NewFromUint64(mist).Shift(-suiDecimals).String()
}

// FormatSignedMist 格式化可能为负的 MIST 数量（如净 gas 消耗）
func FormatSignedMist(mist int64) string {
	return decimal.NewFromInt(mist).Shift(-suiDecimals).String()
}

// ParseSui 将 SUI 字符串解析为 MIST，精度超过 9 位小数或为负时报错
func ParseSui(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative: %s", s)
	}
	mist := d.Shift(suiDecimals)
	if !mist.Equal(mist.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", s, suiDecimals)
	}
	if mist.GreaterThan(decimal.NewFromUint64(^uint64(0))) {
		return 0, fmt.Errorf("amount %s overflows u64", s)
	}
	return mist.BigInt().Uint64(), nil
}
