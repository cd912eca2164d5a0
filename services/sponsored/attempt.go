package sponsored

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sui-sponsor/client-sdk-go/transaction"
	"github.com/sui-sponsor/client-sdk-go/types"
)

// State 发送尝试的状态
type State int

const (
	StateBuilding State = iota
	StateAwaitingGas
	StateGasReceived
	StateFinalized
	StateSigned
	StateSubmitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateBuilding:
		return "building"
	case StateAwaitingGas:
		return "awaiting_gas"
	case StateGasReceived:
		return "gas_received"
	case StateFinalized:
		return "finalized"
	case StateSigned:
		return "signed"
	case StateSubmitted:
		return "submitted"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal 是否为终态
func (s State) Terminal() bool {
	return s == StateSubmitted || s == StateFailed
}

// next 每个状态唯一的后继；任一非终态都可以进入 Failed
var next = map[State]State{
	StateBuilding:    StateAwaitingGas,
	StateAwaitingGas: StateGasReceived,
	StateGasReceived: StateFinalized,
	StateFinalized:   StateSigned,
	StateSigned:      StateSubmitted,
}

// Attempt 一次代付发送尝试
//
// 每次尝试拥有独立的草稿，不与其他尝试共享可变状态。
type Attempt struct {
	ID        string
	StartedAt time.Time

	state    State
	history  []State
	failure  error
	failedIn State

	Draft            *transaction.Draft
	GasData          *types.GasData
	SponsorSignature string
	Signed           *types.SignedTransaction
	Result           *types.SubmitResult
}

// NewAttempt 创建处于 Building 状态的尝试
func NewAttempt() *Attempt {
	return &Attempt{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		state:     StateBuilding,
		history:   []State{StateBuilding},
		Draft:     transaction.NewDraft(),
	}
}

// State 当前状态
func (a *Attempt) State() State {
	return a.state
}

// History 经过的状态序列
func (a *Attempt) History() []State {
	return append([]State(nil), a.history...)
}

// Err 失败原因，未失败时为 nil
func (a *Attempt) Err() error {
	return a.failure
}

// advance 前进到 to，只允许按顺序前进一步
func (a *Attempt) advance(to State) error {
	want, ok := next[a.state]
	if !ok || want != to {
		return types.NewError(types.CodeInvalidArgument, "attempt %s cannot move from %s to %s", a.ID, a.state, to)
	}
	a.state = to
	a.history = append(a.history, to)
	return nil
}

// FailedIn 失败发生时所处的状态
func (a *Attempt) FailedIn() State {
	return a.failedIn
}

// fail 进入 Failed 并记录原因；终态下不再变化
func (a *Attempt) fail(err error) error {
	if a.state.Terminal() {
		return err
	}
	a.failedIn = a.state
	a.state = StateFailed
	a.history = append(a.history, StateFailed)
	a.failure = err
	return err
}
