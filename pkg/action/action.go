// Package action defines the unit of work the engine schedules and the
// algebra that composes units into larger ones.
//
// An Action pairs a typed input with a recipe for building a Runner, the
// pollable state machine that actually does the work. The engine polls the
// Runner once per tick until it reports Completed; everything else in this
// package (Then, Pipe, Both, Any, ...) is a Runner that drives child Runners.
//
// Determinism is part of the contract: combinators poll their children in
// index order, ties resolve to the lowest index, and cancellation handlers
// fire in registration order.
package action

import "github.com/aretw0/treadle/pkg/state"

// Unit is the empty input/output type.
type Unit = struct{}

// Status is the result of polling a Runner.
type Status int

const (
	// Pending means the runner has not finished; it will be polled again
	// next tick.
	Pending Status = iota

	// Completed means the runner finished and set its output. A completed
	// runner must never be polled again.
	Completed

	// Cancelled means the runner requests termination of its whole task.
	// The task's cancellation handlers fire and the task never ticks again.
	Cancelled
)

// Runner is the pollable state machine backing one Action execution.
//
// Step may mutate the store synchronously and must leave it consistent when
// it returns. Runners that register cancellation handlers must unregister
// them when they complete normally: handlers fire on cancellation only.
type Runner interface {
	Step(s *state.Store, sc *Cancellation) Status
}

// Output is a single-slot, write-once container connecting a Runner to its
// consumer. The runner sets it at most once; the consumer takes it at most
// once.
type Output[O any] struct {
	value O
	set   bool
}

// Set stores the value. Setting twice replaces the value; well-behaved
// runners set exactly once, on the tick they complete.
func (o *Output[O]) Set(v O) {
	o.value = v
	o.set = true
}

// Take removes and returns the value. The second return is false when
// nothing has been set or the value was already taken.
func (o *Output[O]) Take() (O, bool) {
	if !o.set {
		var zero O
		return zero, false
	}
	v := o.value
	var zero O
	o.value = zero
	o.set = false
	return v, true
}

// IsSet reports whether a value is waiting to be taken.
func (o *Output[O]) IsSet() bool { return o.set }

// Seed is a reusable Action factory: it knows how to build a Runner once an
// input is bound with With.
type Seed[I, O any] struct {
	build func(in I, out *Output[O]) Runner
}

// NewSeed creates a Seed from a Runner constructor.
func NewSeed[I, O any](build func(in I, out *Output[O]) Runner) Seed[I, O] {
	return Seed[I, O]{build: build}
}

// Define creates a Seed from a function that derives an action from the
// input. It is the escape hatch for seeds whose shape depends on the value
// they are bound to.
func Define[I, I2, O any](f func(in I) Action[I2, O]) Seed[I, O] {
	return NewSeed(func(in I, out *Output[O]) Runner {
		return f(in).CreateRunner(out)
	})
}

// With binds the seed to a concrete input, producing an Action.
// The seed stays reusable; the returned Action is single-use.
func (s Seed[I, O]) With(in I) Action[I, O] {
	return Action[I, O]{input: in, seed: s}
}

// Action is a typed, single-use unit of work: an input bound to a Runner
// recipe. Constructing more than one Runner from the same Action is a
// programming error; combinators consume the Actions they are given.
type Action[I, O any] struct {
	input I
	seed  Seed[I, O]

	// Flattened then-chain, populated by Then and Sequence. When last is
	// non-nil the seed field is unused and CreateRunner builds a single
	// iterative chain runner, so long eager chains resolve without nesting.
	prefix []func() Runner
	last   func(out *Output[O]) Runner
}

// Input returns the bound input value.
func (a Action[I, O]) Input() I { return a.input }

// CreateRunner builds the runner for this action, wiring its output slot.
// It is exported for Remake and for custom drivers; ordinary callers hand
// actions to the engine instead.
func (a Action[I, O]) CreateRunner(out *Output[O]) Runner {
	if a.last != nil {
		stages := a.prefix
		final := a.last
		return &chainRunner{
			stages: stages,
			last:   func() Runner { return final(out) },
		}
	}
	return a.seed.build(a.input, out)
}

// discardStage wraps the action as a chain stage whose output is dropped.
func (a Action[I, O]) discardStage() func() Runner {
	return func() Runner {
		var sink Output[O]
		return a.CreateRunner(&sink)
	}
}

// stages flattens the action into chain stages, all outputs discarded.
func (a Action[I, O]) stages() []func() Runner {
	if a.last != nil {
		out := make([]func() Runner, 0, len(a.prefix)+1)
		out = append(out, a.prefix...)
		final := a.last
		out = append(out, func() Runner {
			var sink Output[O]
			return final(&sink)
		})
		return out
	}
	return []func() Runner{a.discardStage()}
}

// lastStage returns the chain prefix and final runner builder for the action.
func (a Action[I, O]) lastStage() ([]func() Runner, func(out *Output[O]) Runner) {
	if a.last != nil {
		return a.prefix, a.last
	}
	return nil, func(out *Output[O]) Runner { return a.CreateRunner(out) }
}

// chainRunner drives a flat list of stages to completion, one after another.
// The loop is iterative on purpose: a chain of eagerly-completing stages
// resolves within a single tick without growing the stack.
type chainRunner struct {
	stages []func() Runner
	last   func() Runner
	cur    Runner
	idx    int
	inLast bool
}

func (r *chainRunner) Step(s *state.Store, sc *Cancellation) Status {
	for {
		if r.cur == nil {
			if r.idx < len(r.stages) {
				r.cur = r.stages[r.idx]()
				r.idx++
			} else if !r.inLast {
				r.cur = r.last()
				r.inLast = true
			} else {
				return Completed
			}
		}
		switch st := r.cur.Step(s, sc); st {
		case Completed:
			r.cur = nil
			if r.inLast {
				return Completed
			}
		default:
			return st
		}
	}
}
