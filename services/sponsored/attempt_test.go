package sponsored

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sui-sponsor/client-sdk-go/types"
)

func TestAttempt_Transitions(t *testing.T) {
	a := NewAttempt()
	assert.Equal(t, StateBuilding, a.State())

	// 不能跳过状态
	err := a.advance(StateFinalized)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrInvalidArgument))
	assert.Equal(t, StateBuilding, a.State())

	for _, s := range []State{StateAwaitingGas, StateGasReceived, StateFinalized, StateSigned, StateSubmitted} {
		require.NoError(t, a.advance(s))
	}
	assert.True(t, a.State().Terminal())

	// 终态之后不再变化
	assert.Error(t, a.advance(StateBuilding))
	cause := errors.New("late")
	assert.Equal(t, cause, a.fail(cause))
	assert.Equal(t, StateSubmitted, a.State())
	assert.NoError(t, a.Err())
}

func TestAttempt_Fail(t *testing.T) {
	a := NewAttempt()
	require.NoError(t, a.advance(StateAwaitingGas))

	cause := types.ErrGasRequestFailed
	assert.Equal(t, cause, a.fail(cause))
	assert.Equal(t, StateFailed, a.State())
	assert.Equal(t, StateAwaitingGas, a.FailedIn())
	assert.Equal(t, cause, a.Err())
	assert.Equal(t, []State{StateBuilding, StateAwaitingGas, StateFailed}, a.History())

	// 失败后不可恢复
	assert.Error(t, a.advance(StateGasReceived))
}

func TestAttempt_UniqueIDs(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		seen[NewAttempt().ID] = struct{}{}
	}
	assert.Len(t, seen, 100)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "awaiting_gas", StateAwaitingGas.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "state(42)", State(42).String())
}
