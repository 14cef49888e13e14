package action_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/treadle/pkg/action"
	"github.com/aretw0/treadle/pkg/state"
)

func TestTurnOnThenWaitOn(t *testing.T) {
	s := state.NewStore()
	sw := state.NewSwitch("gate")
	a := action.Then(action.TurnOn(sw), action.WaitOn(sw))
	_, ticks := drive(t, s, a, 5)
	assert.Equal(t, 1, ticks, "a fresh observer sees the pending edge immediately")
	assert.True(t, sw.IsOn(s))
}

func TestWaitOn_BlocksUntilExternalFlip(t *testing.T) {
	s := state.NewStore()
	sw := state.NewSwitch("gate")

	out := &action.Output[action.Unit]{}
	sc := &action.Cancellation{}
	r := action.WaitOn(sw).CreateRunner(out)
	assert.Equal(t, action.Pending, r.Step(s, sc))
	assert.Equal(t, action.Pending, r.Step(s, sc))

	sw.On(s)
	assert.Equal(t, action.Completed, r.Step(s, sc))
}

func TestWaitOff_IgnoresNeverOnSwitch(t *testing.T) {
	s := state.NewStore()
	sw := state.NewSwitch("gate")

	out := &action.Output[action.Unit]{}
	sc := &action.Cancellation{}
	r := action.WaitOff(sw).CreateRunner(out)
	assert.Equal(t, action.Pending, r.Step(s, sc), "off-since-birth is not a transition")

	sw.On(s)
	assert.Equal(t, action.Pending, r.Step(s, sc))
	sw.Off(s)
	assert.Equal(t, action.Completed, r.Step(s, sc))
}

func TestTurnOff(t *testing.T) {
	s := state.NewStore()
	sw := state.NewSwitch("gate")
	sw.On(s)
	_, _ = drive(t, s, action.TurnOff(sw), 1)
	assert.True(t, sw.IsOff(s))
}
