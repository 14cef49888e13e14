package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/treadle/internal/logging"
	"github.com/aretw0/treadle/pkg/action"
	"github.com/aretw0/treadle/pkg/state"
)

func newTestScheduler(onDone func(*Task)) *Scheduler {
	return NewScheduler(state.NewStore(), logging.NewNop(), onDone)
}

func TestScheduler_TasksRunInSpawnOrder(t *testing.T) {
	sc := newTestScheduler(nil)
	var order []string
	body := func(name string) func(*Routine) {
		return func(rt *Routine) {
			Do(rt, action.Run(func(*state.Store) action.Unit {
				order = append(order, name)
				return action.Unit{}
			}))
		}
	}
	sc.Spawn("a", body("a"))
	sc.Spawn("b", body("b"))
	sc.Spawn("c", body("c"))

	sc.Tick()
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, 0, sc.Live())
}

func TestScheduler_MidTickSpawnWaitsForNextTick(t *testing.T) {
	sc := newTestScheduler(nil)
	var order []string
	sc.Spawn("outer", func(rt *Routine) {
		Do(rt, action.Run(func(*state.Store) action.Unit {
			order = append(order, "outer")
			sc.Spawn("inner", func(rt *Routine) {
				Do(rt, action.Run(func(*state.Store) action.Unit {
					order = append(order, "inner")
					return action.Unit{}
				}))
			})
			return action.Unit{}
		}))
	})

	sc.Tick()
	assert.Equal(t, []string{"outer"}, order, "mid-tick spawn does not run this tick")
	sc.Tick()
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestScheduler_OnDoneFiresOncePerTask(t *testing.T) {
	var done []string
	sc := newTestScheduler(func(t *Task) { done = append(done, t.ID()) })
	sc.Spawn("a", func(rt *Routine) {})
	sc.Tick()
	sc.Tick()
	assert.Equal(t, []string{"a"}, done)
}

func TestScheduler_CancelByID(t *testing.T) {
	sc := newTestScheduler(nil)
	cleaned := false
	sc.Spawn("stuck", func(rt *Routine) {
		defer func() { cleaned = true }()
		Do(rt, action.Until(func(*state.Store) bool { return false }))
	})
	sc.Tick()
	assert.Equal(t, 1, sc.Live())

	assert.True(t, sc.Cancel("stuck"))
	assert.True(t, cleaned)
	assert.Equal(t, 0, sc.Live())
	assert.False(t, sc.Cancel("stuck"), "already gone")
}

func TestScheduler_CancelAllSparesDetached(t *testing.T) {
	sc := newTestScheduler(nil)
	forever := func(rt *Routine) {
		Do(rt, action.Until(func(*state.Store) bool { return false }))
	}
	sc.Spawn("a", forever)
	d := sc.Spawn("b", forever)
	d.Detach()
	sc.Tick()

	sc.CancelAll()
	assert.Equal(t, 1, sc.Live())
	assert.Equal(t, TaskRunning, d.State())
}

func TestScheduler_CancelBeforeFirstTick(t *testing.T) {
	sc := newTestScheduler(nil)
	ran := false
	sc.Spawn("a", func(rt *Routine) { ran = true })
	assert.True(t, sc.Cancel("a"))
	sc.Tick()
	assert.False(t, ran, "a task cancelled before admission never runs")
}

func TestScheduler_FinishedTasksAreCompacted(t *testing.T) {
	sc := newTestScheduler(nil)
	sc.Spawn("a", func(rt *Routine) {})
	sc.Spawn("b", func(rt *Routine) {
		Do(rt, action.DelayTicks(3))
	})
	sc.Tick()
	assert.Len(t, sc.Tasks(), 1, "completed task dropped, live one kept")
}
