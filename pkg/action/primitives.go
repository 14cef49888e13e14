package action

import (
	"time"

	"github.com/aretw0/treadle/pkg/state"
)

// funcRunner adapts a poll function to the Runner interface.
type funcRunner func(s *state.Store, sc *Cancellation) Status

func (f funcRunner) Step(s *state.Store, sc *Cancellation) Status { return f(s, sc) }

// Until completes on the first tick the predicate reports true. The
// predicate is polled on every tick up to and including that one.
func Until(pred func(s *state.Store) bool) Action[Unit, Unit] {
	return UntilWith(func(s *state.Store, _ Unit) bool { return pred(s) }).With(Unit{})
}

// UntilWith is Until with a bound input threaded to the predicate.
func UntilWith[I any](pred func(s *state.Store, in I) bool) Seed[I, Unit] {
	return NewSeed(func(in I, out *Output[Unit]) Runner {
		return funcRunner(func(s *state.Store, _ *Cancellation) Status {
			if pred(s, in) {
				out.Set(Unit{})
				return Completed
			}
			return Pending
		})
	})
}

// Poll completes with the first value the function produces; a false second
// return keeps the action pending.
func Poll[O any](f func(s *state.Store) (O, bool)) Action[Unit, O] {
	return PollWith(func(s *state.Store, _ Unit) (O, bool) { return f(s) }).With(Unit{})
}

// PollWith is Poll with a bound input threaded to the function.
func PollWith[I, O any](f func(s *state.Store, in I) (O, bool)) Seed[I, O] {
	return NewSeed(func(in I, out *Output[O]) Runner {
		return funcRunner(func(s *state.Store, _ *Cancellation) Status {
			if v, ok := f(s, in); ok {
				out.Set(v)
				return Completed
			}
			return Pending
		})
	})
}

// Run executes f exactly once and completes on the same tick with its
// return value.
func Run[O any](f func(s *state.Store) O) Action[Unit, O] {
	return RunWith(func(s *state.Store, _ Unit) O { return f(s) }).With(Unit{})
}

// RunWith is Run with a bound input threaded to the function.
func RunWith[I, O any](f func(s *state.Store, in I) O) Seed[I, O] {
	return NewSeed(func(in I, out *Output[O]) Runner {
		return funcRunner(func(s *state.Store, _ *Cancellation) Status {
			out.Set(f(s, in))
			return Completed
		})
	})
}

// NoOp completes immediately without touching the store.
func NoOp() Action[Unit, Unit] {
	return Run(func(*state.Store) Unit { return Unit{} })
}

// DelayTicks stays pending for n ticks, completing on the nth poll.
// DelayTicks(0) completes on its first poll.
func DelayTicks(n int) Action[Unit, Unit] {
	return NewSeed(func(_ Unit, out *Output[Unit]) Runner {
		remaining := n
		return funcRunner(func(*state.Store, *Cancellation) Status {
			if remaining <= 1 {
				out.Set(Unit{})
				return Completed
			}
			remaining--
			return Pending
		})
	}).With(Unit{})
}

// DelayFor completes on the first tick at least d has elapsed since the
// action's first poll. Wall-clock based; for deterministic tests prefer
// DelayTicks.
func DelayFor(d time.Duration) Action[Unit, Unit] {
	return NewSeed(func(_ Unit, out *Output[Unit]) Runner {
		var deadline time.Time
		return funcRunner(func(*state.Store, *Cancellation) Status {
			if deadline.IsZero() {
				deadline = time.Now().Add(d)
			}
			if time.Now().Before(deadline) {
				return Pending
			}
			out.Set(Unit{})
			return Completed
		})
	}).With(Unit{})
}

// Cancel is a runner-initiated task cancellation: polling it terminates the
// whole task, firing its cancellation handlers.
func Cancel() Action[Unit, Unit] {
	return NewSeed(func(_ Unit, _ *Output[Unit]) Runner {
		return funcRunner(func(*state.Store, *Cancellation) Status {
			return Cancelled
		})
	}).With(Unit{})
}
