package transaction

import (
	"fmt"

	"github.com/pattonkan/sui-go/sui"
	"github.com/pattonkan/sui-go/sui/suiptb"

	"github.com/sui-sponsor/client-sdk-go/types"
)

type argumentKind uint8

const (
	argInvalid argumentKind = iota
	argGasCoin
	argInput
	argResult
	argNestedResult
)

// Argument 草稿内部对象的不透明句柄
//
// 句柄只是草稿 arena 中的位置（输入序号或命令序号），不持有对象本身，
// 因此复制草稿或重新编码都不会产生别名问题。零值是无效句柄。
type Argument struct {
	kind   argumentKind
	index  uint16
	nested uint16
}

// GasCoin 返回指向 gas 币的句柄
func GasCoin() Argument {
	return Argument{kind: argGasCoin}
}

// Nested 选择命令结果中的第 i 个对象（例如 split 产生的第 i 枚币）
func (a Argument) Nested(i uint16) Argument {
	if a.kind != argResult {
		return Argument{}
	}
	return Argument{kind: argNestedResult, index: a.index, nested: i}
}

// IsValid 句柄是否由草稿产生
func (a Argument) IsValid() bool {
	return a.kind != argInvalid
}

func (a Argument) String() string {
	switch a.kind {
	case argGasCoin:
		return "GasCoin"
	case argInput:
		return fmt.Sprintf("Input(%d)", a.index)
	case argResult:
		return fmt.Sprintf("Result(%d)", a.index)
	case argNestedResult:
		return fmt.Sprintf("NestedResult(%d,%d)", a.index, a.nested)
	default:
		return "Invalid"
	}
}

// toPTB 转换为 suiptb 参数；无效句柄不会被编码成任何引用
func (a Argument) toPTB() (suiptb.Argument, error) {
	switch a.kind {
	case argGasCoin:
		return suiptb.Argument{GasCoin: &sui.EmptyEnum{}}, nil
	case argInput:
		idx := a.index
		return suiptb.Argument{Input: &idx}, nil
	case argResult:
		idx := a.index
		return suiptb.Argument{Result: &idx}, nil
	case argNestedResult:
		return suiptb.Argument{NestedResult: &suiptb.NestedResult{Cmd: a.index, Result: a.nested}}, nil
	default:
		return suiptb.Argument{}, types.NewError(types.CodeInvalidArgument, "cannot encode argument %s", a)
	}
}

// fromPTB 包装 suiptb 构建器返回的输入或结果句柄
func fromPTB(arg suiptb.Argument) Argument {
	switch {
	case arg.Input != nil:
		return Argument{kind: argInput, index: *arg.Input}
	case arg.Result != nil:
		return Argument{kind: argResult, index: *arg.Result}
	default:
		return Argument{}
	}
}
