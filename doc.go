/*
Package treadle is a cooperative task engine driven by an external tick.

Treadle runs long-lived, stateful procedures ("tasks") as ordinary Go
code, advanced one step at a time by whoever owns the loop: a game frame,
a simulation step, a poll cycle. Nothing runs between ticks, every tick
runs tasks in spawn order, and all state lives in a single store, so a
run is reproducible from its inputs.

# Concept

A task body suspends on actions with Do. An action is polled once per
tick until it completes; its typed output becomes Do's return value and
the body resumes on the same tick. Actions compose: Then and Pipe chain
them, Both, All, Any and Either run them concurrently within the task,
and switches coordinate between tasks.

	eng := treadle.New()
	eng.Spawn(func(rt *treadle.Routine) {
		n := treadle.Do(rt, action.Poll(func(s *state.Store) (int, bool) {
			v, ok := state.Value[int](s, "count")
			return v, ok && v >= 3
		}))
		treadle.Do(rt, action.Run(func(s *state.Store) treadle.Unit {
			s.Set("result", n*10)
			return treadle.Unit{}
		}))
	})
	for eng.Advance() {
	}

# Cancellation

Cancelling a task fires its cancellation handlers in registration order,
unwinds the body through its defers, and guarantees it is never polled
again. Concurrent combinators cancel losing branches the same way.

# Persistence

The store exports a snapshot that round-trips through the adapters in
pkg/adapters; a stopped engine can resume from where it left off.
*/
package treadle
