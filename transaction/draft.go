package transaction

import (
	"fmt"
	"math"

	"github.com/fardream/go-bcs/bcs"
	"github.com/pattonkan/sui-go/sui"
	"github.com/pattonkan/sui-go/sui/suiptb"

	"github.com/sui-sponsor/client-sdk-go/types"
)

// Phase 草稿阶段
type Phase int

const (
	// PhaseBuilding 构建中：gas 槽位不参与编码
	PhaseBuilding Phase = iota
	// PhaseFinalized 已定稿：gas 槽位齐全，可以签名
	PhaseFinalized
)

func (p Phase) String() string {
	if p == PhaseFinalized {
		return "finalized"
	}
	return "building"
}

// 字段名（用于 MissingFields）
const (
	FieldSender     = "sender"
	FieldCommands   = "commands"
	FieldGasPayment = "gas_payment"
	FieldGasOwner   = "gas_owner"
	FieldGasPrice   = "gas_price"
	FieldGasBudget  = "gas_budget"
)

// Draft 可变交易草稿
//
// 一次发送尝试对应一个草稿：先以 PhaseBuilding 编码（不含 gas）发给 sponsor，
// 合并 GasData 后进入 PhaseFinalized 再编码签名。两种编码共享同一份非 gas 内容，
// 因此非 gas 部分逐字节一致。
//
// 输入与命令保存在 suiptb 构建器中。每次 Pure 调用都占用一个独立输入，
// 同一对象只占用一个输入。
//
// Draft 不是并发安全的，不应在多个 goroutine 间共享。
type Draft struct {
	ptb *suiptb.ProgrammableTransactionBuilder
	// objects 按对象 ID 记录已加入的对象输入
	objects map[sui.ObjectId]objectInput
	// results[i] 为第 i 个命令产生的对象数量
	results []int

	sender     types.Address
	gasPayment []types.ObjectRef
	gasOwner   types.Address
	gasPrice   *uint64
	gasBudget  *uint64
	expiration *uint64

	phase    Phase
	revision uint64
}

// NewDraft 创建空草稿
func NewDraft() *Draft {
	return &Draft{
		ptb:     suiptb.NewTransactionDataTransactionBuilder(),
		objects: make(map[sui.ObjectId]objectInput),
		phase:   PhaseBuilding,
	}
}

type objectInput struct {
	ref sui.ObjectRef
	arg Argument
}

// Phase 返回当前阶段
func (d *Draft) Phase() Phase {
	return d.phase
}

// Revision 返回修改计数，任何修改都会使其递增
func (d *Draft) Revision() uint64 {
	return d.revision
}

func (d *Draft) touch() {
	d.revision++
}

func (d *Draft) ensureBuilding() error {
	if d.phase != PhaseBuilding {
		return types.NewError(types.CodeInvalidArgument, "draft is %s, operations can no longer be appended", d.phase)
	}
	return nil
}

// Pure 追加一个纯值输入并返回其句柄
func (d *Draft) Pure(value interface{}) (Argument, error) {
	if err := d.ensureBuilding(); err != nil {
		return Argument{}, err
	}
	if err := d.checkInputLimit(); err != nil {
		return Argument{}, err
	}
	arg, err := d.ptb.ForceSeparatePure(value)
	if err != nil {
		return Argument{}, types.NewError(types.CodeInvalidArgument, "encode pure value %T: %v", value, err)
	}
	d.touch()
	return fromPTB(arg), nil
}

// Object 追加一个自有对象输入并返回其句柄
//
// 同一对象重复加入时返回已有句柄；ID 相同但版本或摘要不同视为错误。
func (d *Draft) Object(ref types.ObjectRef) (Argument, error) {
	if err := d.ensureBuilding(); err != nil {
		return Argument{}, err
	}
	parsed, err := ParseObjectRef(ref)
	if err != nil {
		return Argument{}, err
	}
	if existing, ok := d.objects[*parsed.ObjectId]; ok {
		if existing.ref.Version != parsed.Version || existing.ref.Digest.String() != parsed.Digest.String() {
			return Argument{}, types.NewError(types.CodeInvalidArgument, "object %s already added with a different version or digest", parsed.ObjectId)
		}
		return existing.arg, nil
	}
	if err := d.checkInputLimit(); err != nil {
		return Argument{}, err
	}
	arg, err := d.ptb.Obj(suiptb.ObjectArg{ImmOrOwnedObject: parsed})
	if err != nil {
		return Argument{}, types.NewError(types.CodeInvalidArgument, "add object %s: %v", parsed.ObjectId, err)
	}
	handle := fromPTB(arg)
	d.objects[*parsed.ObjectId] = objectInput{ref: *parsed, arg: handle}
	d.touch()
	return handle, nil
}

func (d *Draft) checkInputLimit() error {
	if d.ptb.Inputs.Len() >= math.MaxUint16 {
		return types.NewError(types.CodeInvalidArgument, "too many inputs")
	}
	return nil
}

func (d *Draft) addCommand(cmd suiptb.Command, results int) (Argument, error) {
	if len(d.results) >= math.MaxUint16 {
		return Argument{}, types.NewError(types.CodeInvalidArgument, "too many commands")
	}
	arg := d.ptb.Command(cmd)
	d.results = append(d.results, results)
	d.touch()
	return fromPTB(arg), nil
}

// validateArgument 检查句柄是否指向草稿中已存在的输入或结果
func (d *Draft) validateArgument(a Argument) error {
	switch a.kind {
	case argGasCoin:
		return nil
	case argInput:
		if int(a.index) < d.ptb.Inputs.Len() {
			return nil
		}
	case argResult:
		if int(a.index) < len(d.results) && d.results[a.index] > 0 {
			return nil
		}
	case argNestedResult:
		if int(a.index) < len(d.results) && int(a.nested) < d.results[a.index] {
			return nil
		}
	}
	return types.NewError(types.CodeInvalidArgument, "argument %s does not refer to this draft", a)
}

// AddSplitCoin 追加 split 操作，从 source 中拆出 amounts 对应的若干枚币
//
// 返回命令结果句柄，使用 Nested(i) 选择第 i 枚币。
func (d *Draft) AddSplitCoin(source Argument, amounts ...uint64) (Argument, error) {
	if err := d.ensureBuilding(); err != nil {
		return Argument{}, err
	}
	if len(amounts) == 0 {
		return Argument{}, types.NewError(types.CodeInvalidAmount, "split requires at least one amount")
	}
	for i, amount := range amounts {
		if amount == 0 {
			return Argument{}, types.NewInvalidAmountError(i, amount)
		}
	}
	if err := d.validateArgument(source); err != nil {
		return Argument{}, err
	}
	coin, err := source.toPTB()
	if err != nil {
		return Argument{}, err
	}

	// 1. 金额作为纯值输入（u64）
	amountArgs := make([]suiptb.Argument, 0, len(amounts))
	for _, amount := range amounts {
		arg, err := d.Pure(amount)
		if err != nil {
			return Argument{}, err
		}
		pa, err := arg.toPTB()
		if err != nil {
			return Argument{}, err
		}
		amountArgs = append(amountArgs, pa)
	}

	// 2. 追加命令
	return d.addCommand(suiptb.Command{
		SplitCoins: &suiptb.ProgrammableSplitCoins{
			Coin:    coin,
			Amounts: amountArgs,
		},
	}, len(amounts))
}

// AddTransfer 追加 transfer 操作，将 objects 转给 recipient
func (d *Draft) AddTransfer(objects []Argument, recipient types.Address) error {
	if err := d.ensureBuilding(); err != nil {
		return err
	}
	if len(objects) == 0 {
		return types.NewError(types.CodeEmptyTransferSet, "transfer requires at least one object")
	}
	if recipient.IsEmpty() {
		return types.NewError(types.CodeInvalidArgument, "recipient address is required")
	}
	addr, err := ParseAddress(recipient)
	if err != nil {
		return err
	}

	objectArgs := make([]suiptb.Argument, 0, len(objects))
	for _, obj := range objects {
		if err := d.validateArgument(obj); err != nil {
			return err
		}
		pa, err := obj.toPTB()
		if err != nil {
			return err
		}
		objectArgs = append(objectArgs, pa)
	}

	// 接收方以 32 字节地址作为纯值输入
	recipientArg, err := d.Pure(addr)
	if err != nil {
		return err
	}
	address, err := recipientArg.toPTB()
	if err != nil {
		return err
	}

	_, err = d.addCommand(suiptb.Command{
		TransferObjects: &suiptb.ProgrammableTransferObjects{
			Objects: objectArgs,
			Address: address,
		},
	}, 0)
	return err
}

// SetSender 设置发送方
func (d *Draft) SetSender(sender types.Address) *Draft {
	d.sender = sender
	d.touch()
	return d
}

// Sender 返回发送方
func (d *Draft) Sender() types.Address {
	return d.sender
}

// SetGasBudget 设置 gas 预算
func (d *Draft) SetGasBudget(budget uint64) *Draft {
	d.gasBudget = &budget
	d.touch()
	return d
}

// SetGasPrice 设置 gas 单价
func (d *Draft) SetGasPrice(price uint64) *Draft {
	d.gasPrice = &price
	d.touch()
	return d
}

// SetGasOwner 设置 gas 所有者（sponsor 地址）
func (d *Draft) SetGasOwner(owner types.Address) *Draft {
	d.gasOwner = owner
	d.touch()
	return d
}

// SetGasPayment 设置 gas 支付对象，入参会被复制
func (d *Draft) SetGasPayment(refs []types.ObjectRef) *Draft {
	d.gasPayment = append([]types.ObjectRef(nil), refs...)
	d.touch()
	return d
}

// SetExpiration 设置过期 epoch
func (d *Draft) SetExpiration(epoch uint64) *Draft {
	d.expiration = &epoch
	d.touch()
	return d
}

// GasData 返回当前 gas 槽位的副本
func (d *Draft) GasData() types.GasData {
	gas := types.GasData{
		Payment: append([]types.ObjectRef(nil), d.gasPayment...),
	}
	if !d.gasOwner.IsEmpty() {
		owner := d.gasOwner
		gas.Owner = &owner
	}
	if d.gasPrice != nil {
		price := *d.gasPrice
		gas.Price = &price
	}
	if d.gasBudget != nil {
		budget := *d.gasBudget
		gas.Budget = &budget
	}
	return gas
}

// MissingFields 返回编码所缺的字段；includeGas 为 true 时同时检查 gas 槽位
func (d *Draft) MissingFields(includeGas bool) []string {
	missing := make([]string, 0)
	if d.sender.IsEmpty() {
		missing = append(missing, FieldSender)
	}
	if len(d.results) == 0 {
		missing = append(missing, FieldCommands)
	}
	if !includeGas {
		return missing
	}
	if len(d.gasPayment) == 0 {
		missing = append(missing, FieldGasPayment)
	}
	if d.gasOwner.IsEmpty() {
		missing = append(missing, FieldGasOwner)
	}
	if d.gasPrice == nil {
		missing = append(missing, FieldGasPrice)
	}
	if d.gasBudget == nil {
		missing = append(missing, FieldGasBudget)
	}
	return missing
}

// Finalize 校验 gas 槽位齐全并进入 PhaseFinalized
func (d *Draft) Finalize() error {
	if missing := d.MissingFields(true); len(missing) > 0 {
		return types.NewIncompleteTransactionError(missing)
	}
	if d.phase != PhaseFinalized {
		d.phase = PhaseFinalized
		d.touch()
	}
	return nil
}

// SerializeOptions 编码选项
type SerializeOptions struct {
	// IncludeGasFields 为 false 时 gas 槽位一律编码为占位值，与是否调用过 setter 无关
	IncludeGasFields bool
}

// Serialize 返回草稿的规范编码
//
// 编码是确定性的：相同的操作序列得到逐字节相同的输出。
func (d *Draft) Serialize(opts SerializeOptions) ([]byte, error) {
	if missing := d.MissingFields(opts.IncludeGasFields); len(missing) > 0 {
		return nil, types.NewIncompleteTransactionError(missing)
	}
	sender, err := ParseAddress(d.sender)
	if err != nil {
		return nil, err
	}

	// gas 占位：空支付列表、零地址、价格与预算为 0
	payment := []*sui.ObjectRef{}
	owner := &sui.Address{}
	var price, budget uint64
	if opts.IncludeGasFields {
		payment = make([]*sui.ObjectRef, 0, len(d.gasPayment))
		for _, ref := range d.gasPayment {
			parsed, err := ParseObjectRef(ref)
			if err != nil {
				return nil, err
			}
			payment = append(payment, parsed)
		}
		if owner, err = ParseAddress(d.gasOwner); err != nil {
			return nil, err
		}
		price, budget = *d.gasPrice, *d.gasBudget
	}

	tx := suiptb.NewTransactionDataAllowSponsor(*sender, d.ptb.Finish(), payment, budget, price, owner)
	if d.expiration != nil {
		epoch := *d.expiration
		tx.V1.Expiration = suiptb.TransactionExpiration{Epoch: &epoch}
	}

	data, err := bcs.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("bcs marshal transaction: %w", err)
	}
	return data, nil
}

// SerializeUnsigned 编码不含 gas 的草稿（发给 sponsor）
func (d *Draft) SerializeUnsigned() ([]byte, error) {
	return d.Serialize(SerializeOptions{IncludeGasFields: false})
}

// SerializeFinalized 编码含 gas 的草稿（用于签名）
func (d *Draft) SerializeFinalized() ([]byte, error) {
	return d.Serialize(SerializeOptions{IncludeGasFields: true})
}
