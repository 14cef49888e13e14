package action_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/treadle/pkg/action"
	"github.com/aretw0/treadle/pkg/state"
)

func TestCancellation_FiresInRegistrationOrder(t *testing.T) {
	s := state.NewStore()
	sc := &action.Cancellation{}
	var order []int
	for i := 1; i <= 3; i++ {
		sc.Register(func(*state.Store) { order = append(order, i) })
	}
	sc.Cancel(s)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestCancellation_FiresAtMostOnce(t *testing.T) {
	s := state.NewStore()
	sc := &action.Cancellation{}
	calls := 0
	sc.Register(func(*state.Store) { calls++ })
	sc.Cancel(s)
	sc.Cancel(s)
	assert.Equal(t, 1, calls)
	assert.True(t, sc.Fired())
}

func TestCancellation_UnregisteredHandlerDoesNotFire(t *testing.T) {
	s := state.NewStore()
	sc := &action.Cancellation{}
	fired := false
	id := sc.Register(func(*state.Store) { fired = true })
	sc.Unregister(id)
	assert.Equal(t, 0, sc.Len())
	sc.Cancel(s)
	assert.False(t, fired)
}

func TestCancellation_RegisterAfterFiredIsIgnored(t *testing.T) {
	s := state.NewStore()
	sc := &action.Cancellation{}
	sc.Cancel(s)
	fired := false
	sc.Register(func(*state.Store) { fired = true })
	sc.Cancel(s)
	assert.False(t, fired)
	assert.Equal(t, 0, sc.Len())
}

func TestCancelAction_ReturnsCancelledStatus(t *testing.T) {
	s := state.NewStore()
	out := &action.Output[action.Unit]{}
	sc := &action.Cancellation{}
	r := action.Cancel().CreateRunner(out)
	assert.Equal(t, action.Cancelled, r.Step(s, sc))
}

func TestCancelledStatus_PropagatesThroughChain(t *testing.T) {
	s := state.NewStore()
	reached := false
	a := action.Then(action.Cancel(), action.Run(func(*state.Store) action.Unit {
		reached = true
		return action.Unit{}
	}))
	out := &action.Output[action.Unit]{}
	sc := &action.Cancellation{}
	r := a.CreateRunner(out)
	assert.Equal(t, action.Cancelled, r.Step(s, sc))
	assert.False(t, reached, "stages after a cancellation never run")
}
