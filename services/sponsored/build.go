package sponsored

import (
	"github.com/sui-sponsor/client-sdk-go/transaction"
	"github.com/sui-sponsor/client-sdk-go/types"
)

// BuildFunc 向草稿中添加命令
//
// sender 为签名者地址，在调用前已写入草稿。
type BuildFunc func(d *transaction.Draft, sender types.Address) error

// SplitAndTransfer 从 gas coin 拆分 amounts 并全部转给 recipient
//
// recipient 为空时转给发送者自己。
func SplitAndTransfer(recipient types.Address, amounts ...uint64) BuildFunc {
	return func(d *transaction.Draft, sender types.Address) error {
		coins, err := d.AddSplitCoin(transaction.GasCoin(), amounts...)
		if err != nil {
			return err
		}

		objects := make([]transaction.Argument, len(amounts))
		for i := range amounts {
			objects[i] = coins.Nested(uint16(i))
		}

		to := recipient
		if to.IsEmpty() {
			to = sender
		}
		return d.AddTransfer(objects, to)
	}
}

// TransferToSelf 拆分 amount 并转回自己
func TransferToSelf(amount uint64) BuildFunc {
	return SplitAndTransfer("", amount)
}
