package action

import "github.com/aretw0/treadle/pkg/state"

// TurnOn turns the switch on and completes on the same tick.
func TurnOn(sw state.Switch) Action[Unit, Unit] {
	return Run(func(s *state.Store) Unit {
		sw.On(s)
		return Unit{}
	})
}

// TurnOff turns the switch off and completes on the same tick.
func TurnOff(sw state.Switch) Action[Unit, Unit] {
	return Run(func(s *state.Store) Unit {
		sw.Off(s)
		return Unit{}
	})
}

// WaitOn completes on the first tick the switch turns on as seen by a
// fresh observer. A switch already on when the action starts counts if no
// prior observer of this action has consumed the edge, which for a fresh
// observer is always.
func WaitOn(sw state.Switch) Action[Unit, Unit] {
	obs := sw.Observer()
	return Until(func(s *state.Store) bool {
		return obs.JustTurnedOn(s)
	})
}

// WaitOff completes on the first tick the switch turns off as seen by a
// fresh observer.
func WaitOff(sw state.Switch) Action[Unit, Unit] {
	obs := sw.Observer()
	return Until(func(s *state.Store) bool {
		return obs.JustTurnedOff(s)
	})
}
