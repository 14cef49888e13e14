package action

import "github.com/aretw0/treadle/pkg/state"

// Inspect feeds a copy of the bound input through aux purely for its side
// effects, then completes with the original input. aux's output is
// discarded; the forwarded value is the input as bound, whatever aux does.
func Inspect[I, O2 any](aux Seed[I, O2]) Seed[I, I] {
	return NewSeed(func(in I, out *Output[I]) Runner {
		var sink Output[O2]
		r := aux.With(in).CreateRunner(&sink)
		return funcRunner(func(s *state.Store, sc *Cancellation) Status {
			switch st := r.Step(s, sc); st {
			case Completed:
				sink.Take()
				out.Set(in)
				return Completed
			default:
				return st
			}
		})
	})
}

// Tap runs f with a copy of the output when the action completes, then
// passes the value through unchanged.
func Tap[I, O any](a Action[I, O], f func(O)) Action[I, O] {
	return Remake(a, func(child Runner, childOut *Output[O], out *Output[O]) Runner {
		return funcRunner(func(s *state.Store, sc *Cancellation) Status {
			switch st := child.Step(s, sc); st {
			case Completed:
				v, _ := childOut.Take()
				f(v)
				out.Set(v)
				return Completed
			default:
				return st
			}
		})
	})
}
