package gasstation

import (
	"bytes"
	"encoding/json"

	"github.com/sui-sponsor/client-sdk-go/types"
)

// gasResponseWire sponsor 响应的线上格式，字段延迟解析以便区分"缺失"与"格式错误"
type gasResponseWire struct {
	GasData *gasDataWire    `json:"gas_data"`
	Sig     json.RawMessage `json:"sig"`
}

type gasDataWire struct {
	Payment json.RawMessage `json:"payment"`
	Owner   json.RawMessage `json:"owner"`
	Price   json.RawMessage `json:"price"`
	Budget  json.RawMessage `json:"budget"`
}

// decodeGasResponse 解析 gas 响应
//
// 缺失字段保持为 nil，格式错误的字段返回 MalformedGasResponse。
func decodeGasResponse(body []byte) (*GasResponse, error) {
	var wire gasResponseWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, types.NewMalformedGasResponseError("invalid json: %v", err)
	}
	if wire.GasData == nil {
		return nil, types.NewMalformedGasResponseError("missing gas_data object")
	}

	gas := &types.GasData{}

	// 1. payment: [[id, version, digest], ...]
	if !isAbsent(wire.GasData.Payment) {
		var tuples []json.RawMessage
		if err := json.Unmarshal(wire.GasData.Payment, &tuples); err != nil {
			return nil, types.NewMalformedGasResponseError("payment must be an array of [id, version, digest]")
		}
		payment := make([]types.ObjectRef, 0, len(tuples))
		for i, raw := range tuples {
			var ref types.ObjectRef
			if err := json.Unmarshal(raw, &ref); err != nil {
				return nil, types.NewMalformedGasResponseError("payment[%d]: %v", i, err)
			}
			payment = append(payment, ref)
		}
		gas.Payment = payment
	}

	// 2. owner
	if !isAbsent(wire.GasData.Owner) {
		var owner string
		if err := json.Unmarshal(wire.GasData.Owner, &owner); err != nil {
			return nil, types.NewMalformedGasResponseError("owner must be a string: %s", string(wire.GasData.Owner))
		}
		if owner != "" {
			addr := types.Address(owner)
			gas.Owner = &addr
		}
	}

	// 3. price / budget 接受数字或十进制字符串
	if !isAbsent(wire.GasData.Price) {
		price, err := types.ParseUint64(wire.GasData.Price)
		if err != nil {
			return nil, types.NewMalformedGasResponseError("price: %v", err)
		}
		gas.Price = &price
	}
	if !isAbsent(wire.GasData.Budget) {
		budget, err := types.ParseUint64(wire.GasData.Budget)
		if err != nil {
			return nil, types.NewMalformedGasResponseError("budget: %v", err)
		}
		gas.Budget = &budget
	}

	return &GasResponse{
		GasData:          gas,
		SponsorSignature: decodeSig(wire.Sig),
	}, nil
}

// decodeSig sig 字段原样保存：字符串取其值，其他 JSON 取紧凑文本
func decodeSig(raw json.RawMessage) string {
	if isAbsent(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
