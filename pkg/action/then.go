package action

// Then sequences two actions: first runs to completion, its output is
// discarded, then second runs; the overall output is second's.
//
// Chains built with Then are flat, not nested: chaining N actions yields a
// single runner over N stages, so a chain of eagerly-completing steps
// resolves within one tick with constant stack depth regardless of N.
func Then[I, O1, I2, O2 any](first Action[I, O1], second Action[I2, O2]) Action[I, O2] {
	secondPrefix, secondLast := second.lastStage()
	firstStages := first.stages()

	prefix := make([]func() Runner, 0, len(firstStages)+len(secondPrefix))
	prefix = append(prefix, firstStages...)
	prefix = append(prefix, secondPrefix...)

	return Action[I, O2]{
		input:  first.input,
		prefix: prefix,
		last:   secondLast,
	}
}

// Sequence chains actions left to right, discarding every output but the
// last. Sequence() completes immediately.
func Sequence(actions ...Action[Unit, Unit]) Action[Unit, Unit] {
	if len(actions) == 0 {
		return NoOp()
	}
	chain := actions[0]
	for _, a := range actions[1:] {
		chain = Then(chain, a)
	}
	return chain
}
