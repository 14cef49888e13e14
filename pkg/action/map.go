package action

import "github.com/aretw0/treadle/pkg/state"

// Map transforms the action's output with f once the child completes.
func Map[I, O1, O2 any](a Action[I, O1], f func(O1) O2) Action[I, O2] {
	return Remake(a, func(child Runner, childOut *Output[O1], out *Output[O2]) Runner {
		return funcRunner(func(s *state.Store, sc *Cancellation) Status {
			switch st := child.Step(s, sc); st {
			case Completed:
				v, _ := childOut.Take()
				out.Set(f(v))
				return Completed
			default:
				return st
			}
		})
	})
}

// Overwrite replaces the action's output with a fixed value.
func Overwrite[I, O1, O2 any](a Action[I, O1], v O2) Action[I, O2] {
	return Map(a, func(O1) O2 { return v })
}

// MapSeed is Map for an unbound seed.
func MapSeed[I, O1, O2 any](s Seed[I, O1], f func(O1) O2) Seed[I, O2] {
	return Define(func(in I) Action[I, O2] {
		return Map(s.With(in), f)
	})
}
