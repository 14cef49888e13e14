package action

import "github.com/aretw0/treadle/pkg/state"

// Pair holds the outputs of two actions run by Both.
type Pair[A, B any] struct {
	First  A
	Second B
}

// Or is the result of a race between two actions. Exactly one side is set;
// when both finish on the same tick the left wins.
type Or[L, R any] struct {
	Left    L
	Right   R
	IsRight bool
}

// childSlot tracks one child of a parallel combinator. Each child runs
// under its own cancellation scope so losers can be abandoned without
// firing the winner's handlers.
type childSlot struct {
	runner Runner
	scope  *Cancellation
	done   bool
}

func (c *childSlot) step(s *state.Store) Status {
	if c.done {
		return Completed
	}
	st := c.runner.Step(s, c.scope)
	if st == Completed {
		c.done = true
	}
	return st
}

func (c *childSlot) abandon(s *state.Store) {
	if !c.done {
		c.done = true
		c.scope.Cancel(s)
	}
}

// parallelRunner polls its children in index order every tick and defers
// the completion decision to its policy. In race mode the polling round
// stops at the first child to complete, so children after the winner are
// never polled on the winning tick. The outer handler cancels every
// unfinished child if the whole task is cancelled; it is unregistered the
// tick the combinator completes.
type parallelRunner struct {
	children []*childSlot
	// decide inspects the children after a round of polling and returns
	// Completed when the combinator is finished. It may abandon losers.
	decide     func(s *state.Store) Status
	race       bool
	handlerID  HandlerID
	registered bool
}

func newParallelRunner(n int, race bool, build func(i int) Runner, decide func(children []*childSlot, s *state.Store) Status) *parallelRunner {
	r := &parallelRunner{race: race}
	r.children = make([]*childSlot, n)
	for i := range r.children {
		r.children[i] = &childSlot{runner: build(i), scope: &Cancellation{}}
	}
	r.decide = func(s *state.Store) Status {
		return decide(r.children, s)
	}
	return r
}

func (r *parallelRunner) Step(s *state.Store, sc *Cancellation) Status {
	if !r.registered {
		r.registered = true
		r.handlerID = sc.Register(func(s *state.Store) {
			for _, c := range r.children {
				c.abandon(s)
			}
		})
	}
	for _, c := range r.children {
		if c.done {
			continue
		}
		switch c.step(s) {
		case Cancelled:
			sc.Unregister(r.handlerID)
			for _, other := range r.children {
				other.abandon(s)
			}
			return Cancelled
		case Completed:
			if r.race {
				// A race is over at the first completion; the remaining
				// children are abandoned unpolled by decide.
				return r.finishRound(s, sc)
			}
		}
	}
	return r.finishRound(s, sc)
}

func (r *parallelRunner) finishRound(s *state.Store, sc *Cancellation) Status {
	st := r.decide(s)
	if st == Completed {
		sc.Unregister(r.handlerID)
	}
	return st
}

// Both runs two actions concurrently within the task and completes when
// both have completed, producing their outputs as a Pair. The first action
// is polled before the second on every tick.
func Both[I1, O1, I2, O2 any](a Action[I1, O1], b Action[I2, O2]) Action[Unit, Pair[O1, O2]] {
	return NewSeed(func(_ Unit, out *Output[Pair[O1, O2]]) Runner {
		o1 := &Output[O1]{}
		o2 := &Output[O2]{}
		return newParallelRunner(2, false, func(i int) Runner {
			if i == 0 {
				return a.CreateRunner(o1)
			}
			return b.CreateRunner(o2)
		}, func(children []*childSlot, _ *state.Store) Status {
			if children[0].done && children[1].done {
				v1, _ := o1.Take()
				v2, _ := o2.Take()
				out.Set(Pair[O1, O2]{First: v1, Second: v2})
				return Completed
			}
			return Pending
		})
	}).With(Unit{})
}

// All runs every action concurrently within the task and completes when
// all have completed. Outputs are collected in argument order regardless of
// which child finished first.
func All[I, O any](actions ...Action[I, O]) Action[Unit, []O] {
	return NewSeed(func(_ Unit, out *Output[[]O]) Runner {
		outs := make([]*Output[O], len(actions))
		for i := range outs {
			outs[i] = &Output[O]{}
		}
		return newParallelRunner(len(actions), false, func(i int) Runner {
			return actions[i].CreateRunner(outs[i])
		}, func(children []*childSlot, _ *state.Store) Status {
			for _, c := range children {
				if !c.done {
					return Pending
				}
			}
			vs := make([]O, len(outs))
			for i, o := range outs {
				vs[i], _ = o.Take()
			}
			out.Set(vs)
			return Completed
		})
	}).With(Unit{})
}

// Any races the given actions and completes with the index of the first to
// finish. Children are polled in index order; polling stops at the winner,
// so later children never run on the winning tick and their cancellation
// scopes fire immediately.
func Any[I, O any](actions ...Action[I, O]) Action[Unit, int] {
	return NewSeed(func(_ Unit, out *Output[int]) Runner {
		outs := make([]*Output[O], len(actions))
		for i := range outs {
			outs[i] = &Output[O]{}
		}
		return newParallelRunner(len(actions), true, func(i int) Runner {
			return actions[i].CreateRunner(outs[i])
		}, func(children []*childSlot, s *state.Store) Status {
			for i, c := range children {
				if c.done {
					for j, other := range children {
						if j != i {
							other.abandon(s)
						}
					}
					outs[i].Take()
					out.Set(i)
					return Completed
				}
			}
			return Pending
		})
	}).With(Unit{})
}

// Either races two actions and completes with whichever output arrives
// first. The left side is polled first each tick and a left completion
// ends the round, so the right side never runs on a tick the left wins.
func Either[I1, L, I2, R any](left Action[I1, L], right Action[I2, R]) Action[Unit, Or[L, R]] {
	return NewSeed(func(_ Unit, out *Output[Or[L, R]]) Runner {
		lo := &Output[L]{}
		ro := &Output[R]{}
		return newParallelRunner(2, true, func(i int) Runner {
			if i == 0 {
				return left.CreateRunner(lo)
			}
			return right.CreateRunner(ro)
		}, func(children []*childSlot, s *state.Store) Status {
			if children[0].done {
				children[1].abandon(s)
				v, _ := lo.Take()
				out.Set(Or[L, R]{Left: v})
				return Completed
			}
			if children[1].done {
				children[0].abandon(s)
				v, _ := ro.Take()
				out.Set(Or[L, R]{Right: v, IsRight: true})
				return Completed
			}
			return Pending
		})
	}).With(Unit{})
}
