package transaction

import (
	"github.com/sui-sponsor/client-sdk-go/types"
)

// MergeGas 将 sponsor 返回的 GasData 合并进草稿并定稿
//
// 先校验四个字段齐全，缺任一字段时返回 IncompleteGasData 且不修改草稿。
// 支付对象与 owner 在合并时解析：短十六进制 ID 补齐为 32 字节，
// 无法解析时返回 MalformedGasResponse，同样不修改草稿。
// 对同一份 GasData 重复合并结果不变。
func MergeGas(d *Draft, gas *types.GasData) (*Draft, error) {
	if missing := gas.MissingFields(); len(missing) > 0 {
		return d, types.NewIncompleteGasDataError(missing)
	}

	payment := make([]types.ObjectRef, 0, len(gas.Payment))
	for i, ref := range gas.Payment {
		normalized, err := NormalizeObjectRef(ref)
		if err != nil {
			return d, types.NewMalformedGasResponseError("gas payment %d: %v", i, err)
		}
		payment = append(payment, normalized)
	}
	owner, err := NormalizeAddress(*gas.Owner)
	if err != nil {
		return d, types.NewMalformedGasResponseError("gas owner: %v", err)
	}

	d.SetGasPayment(payment).
		SetGasOwner(owner).
		SetGasPrice(*gas.Price).
		SetGasBudget(*gas.Budget)

	if err := d.Finalize(); err != nil {
		return d, err
	}
	return d, nil
}
