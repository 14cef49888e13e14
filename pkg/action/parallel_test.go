package action_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/treadle/pkg/action"
	"github.com/aretw0/treadle/pkg/state"
)

// tickCounter completes after n polls and records each poll in trace.
func tickCounter(n int, name string, trace *[]string) action.Action[action.Unit, string] {
	polls := 0
	return action.Poll(func(*state.Store) (string, bool) {
		polls++
		*trace = append(*trace, name)
		return name, polls == n
	})
}

func TestBoth_WaitsForSlower(t *testing.T) {
	s := state.NewStore()
	var trace []string
	a := action.Both(tickCounter(1, "a", &trace), tickCounter(3, "b", &trace))
	v, ticks := drive(t, s, a, 10)
	assert.Equal(t, action.Pair[string, string]{First: "a", Second: "b"}, v)
	assert.Equal(t, 3, ticks)
	// The fast child stops being polled once done.
	assert.Equal(t, []string{"a", "b", "b", "b"}, trace)
}

func TestBoth_PollsFirstChildFirst(t *testing.T) {
	s := state.NewStore()
	var trace []string
	a := action.Both(tickCounter(2, "left", &trace), tickCounter(2, "right", &trace))
	_, _ = drive(t, s, a, 10)
	assert.Equal(t, []string{"left", "right", "left", "right"}, trace)
}

func TestAll_CollectsInArgumentOrder(t *testing.T) {
	s := state.NewStore()
	var trace []string
	// The middle child finishes last; output order must not change.
	a := action.All(
		tickCounter(1, "x", &trace),
		tickCounter(3, "y", &trace),
		tickCounter(2, "z", &trace),
	)
	v, ticks := drive(t, s, a, 10)
	assert.Equal(t, []string{"x", "y", "z"}, v)
	assert.Equal(t, 3, ticks)
}

func TestAny_LowestIndexWinsTies(t *testing.T) {
	s := state.NewStore()
	var trace []string
	a := action.Any(
		tickCounter(2, "slow", &trace),
		tickCounter(1, "fast1", &trace),
		tickCounter(1, "fast2", &trace),
	)
	idx, ticks := drive(t, s, a, 10)
	assert.Equal(t, 1, idx, "both fast children finish tick 1; lower index wins")
	assert.Equal(t, 1, ticks)
}

func TestAny_AbandonsLosers(t *testing.T) {
	s := state.NewStore()
	loserCancelled := false
	loser := action.NewSeed(func(_ action.Unit, out *action.Output[action.Unit]) action.Runner {
		registered := false
		return runnerFunc(func(s *state.Store, sc *action.Cancellation) action.Status {
			if !registered {
				registered = true
				sc.Register(func(*state.Store) { loserCancelled = true })
			}
			return action.Pending
		})
	}).With(action.Unit{})

	a := action.Any(loser, action.NoOp())
	idx, _ := drive(t, s, a, 10)
	assert.Equal(t, 1, idx)
	assert.True(t, loserCancelled, "losing child's cancellation scope fires")
}

func TestAny_ChildrenAfterWinnerNeverRunOnWinningTick(t *testing.T) {
	s := state.NewStore()
	var trace []string
	a := action.Any(
		tickCounter(1, "winner", &trace),
		tickCounter(1, "after", &trace),
	)
	idx, ticks := drive(t, s, a, 10)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, ticks)
	assert.Equal(t, []string{"winner"}, trace, "polling stops at the winner")
}

func TestEither_RightNeverRunsWhenLeftWins(t *testing.T) {
	s := state.NewStore()
	rightRan := false
	a := action.Either(
		action.Run(func(*state.Store) int { return 1 }),
		action.Run(func(*state.Store) string {
			rightRan = true
			return "r"
		}),
	)
	v, ticks := drive(t, s, a, 10)
	assert.False(t, v.IsRight)
	assert.Equal(t, 1, v.Left)
	assert.Equal(t, 1, ticks)
	assert.False(t, rightRan, "the losing side's effects never happen")
}

func TestEither_LeftBias(t *testing.T) {
	s := state.NewStore()
	a := action.Either(
		action.Run(func(*state.Store) int { return 1 }),
		action.Run(func(*state.Store) string { return "r" }),
	)
	v, _ := drive(t, s, a, 10)
	assert.False(t, v.IsRight, "same-tick finish resolves to the left")
	assert.Equal(t, 1, v.Left)
}

func TestEither_RightWinsWhenFaster(t *testing.T) {
	s := state.NewStore()
	a := action.Either(
		action.Overwrite(action.DelayTicks(5), 1),
		action.Overwrite(action.DelayTicks(2), "r"),
	)
	v, ticks := drive(t, s, a, 10)
	assert.True(t, v.IsRight)
	assert.Equal(t, "r", v.Right)
	assert.Equal(t, 2, ticks)
}

// runnerFunc adapts a function to the Runner interface for tests.
type runnerFunc func(s *state.Store, sc *action.Cancellation) action.Status

func (f runnerFunc) Step(s *state.Store, sc *action.Cancellation) action.Status {
	return f(s, sc)
}

func TestParallel_TaskCancellationReachesChildren(t *testing.T) {
	s := state.NewStore()
	var cancelled []string
	child := func(name string) action.Action[action.Unit, action.Unit] {
		return action.NewSeed(func(_ action.Unit, out *action.Output[action.Unit]) action.Runner {
			registered := false
			return runnerFunc(func(s *state.Store, sc *action.Cancellation) action.Status {
				if !registered {
					registered = true
					sc.Register(func(*state.Store) { cancelled = append(cancelled, name) })
				}
				return action.Pending
			})
		}).With(action.Unit{})
	}

	out := &action.Output[action.Pair[action.Unit, action.Unit]]{}
	sc := &action.Cancellation{}
	r := action.Both(child("a"), child("b")).CreateRunner(out)
	assert.Equal(t, action.Pending, r.Step(s, sc))

	sc.Cancel(s)
	assert.Equal(t, []string{"a", "b"}, cancelled, "children fire in index order")
}
