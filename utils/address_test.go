package utils

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcutil/base58"

	"github.com/sui-sponsor/client-sdk-go/types"
)

func TestNormalizeAddress(t *testing.T) {
	full := "0x" + strings.Repeat("ab", 32)

	tests := []struct {
		name    string
		input   string
		want    types.Address
		wantErr bool
	}{
		{"full lowercase", full, types.Address(full), false},
		{"uppercase", strings.ToUpper(full[2:]), types.Address(full), false},
		{"short address", "0x2", types.Address("0x" + strings.Repeat("0", 63) + "2"), false},
		{"surrounding spaces", "  0x2  ", types.Address("0x" + strings.Repeat("0", 63) + "2"), false},
		{"empty", "", "", true},
		{"only prefix", "0x", "", true},
		{"too long", full + "00", "", true},
		{"invalid hex", "0xzz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeAddress(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NormalizeAddress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("NormalizeAddress() = %s, want %s", got, tt.want)
			}
			if IsValidAddress(tt.input) == tt.wantErr {
				t.Errorf("IsValidAddress() disagrees with NormalizeAddress()")
			}
		})
	}
}

func TestShortAddress(t *testing.T) {
	if got := ShortAddress("0x2"); got != "0x2" {
		t.Errorf("ShortAddress(0x2) = %s", got)
	}
	long := types.Address("0x" + strings.Repeat("1", 60) + "abcd")
	if got := ShortAddress(long); got != "0x1111…abcd" {
		t.Errorf("ShortAddress() = %s", got)
	}
}

func TestIsValidDigest(t *testing.T) {
	valid := base58.Encode(make([]byte, 32))
	if !IsValidDigest(valid) {
		t.Errorf("IsValidDigest(%s) = false", valid)
	}
	if IsValidDigest(base58.Encode(make([]byte, 31))) {
		t.Error("31-byte digest should be invalid")
	}
	if IsValidDigest("") {
		t.Error("empty digest should be invalid")
	}
	if IsValidDigest("0OIl") {
		t.Error("non-base58 digest should be invalid")
	}
}
