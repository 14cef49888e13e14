package action

import "github.com/aretw0/treadle/pkg/state"

// Omit erases both type parameters, hiding the action's input and output.
// Useful for storing heterogeneous actions in one slice.
func Omit[I, O any](a Action[I, O]) Action[Unit, Unit] {
	return OmitOutput(OmitInput(a))
}

// OmitInput hides the bound input type. The input value stays bound; only
// the signature changes.
func OmitInput[I, O any](a Action[I, O]) Action[Unit, O] {
	return NewSeed(func(_ Unit, out *Output[O]) Runner {
		return a.CreateRunner(out)
	}).With(Unit{})
}

// OmitOutput discards the action's output, keeping its input type.
func OmitOutput[I, O any](a Action[I, O]) Action[I, Unit] {
	return Remake(a, func(child Runner, childOut *Output[O], out *Output[Unit]) Runner {
		return funcRunner(func(s *state.Store, sc *Cancellation) Status {
			switch st := child.Step(s, sc); st {
			case Completed:
				childOut.Take()
				out.Set(Unit{})
				return Completed
			default:
				return st
			}
		})
	})
}
