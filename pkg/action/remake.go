package action

// Remake rebuilds an action around its existing runner: f receives the
// child runner, the child's output slot, and the new output slot, and
// returns the runner that will drive the child. It is the low-level hook
// behind Map, Omit and Tap.
func Remake[I, O1, O2 any](a Action[I, O1], f func(child Runner, childOut *Output[O1], out *Output[O2]) Runner) Action[I, O2] {
	in := a.Input()
	return NewSeed(func(_ I, out *Output[O2]) Runner {
		childOut := &Output[O1]{}
		child := a.CreateRunner(childOut)
		return f(child, childOut, out)
	}).With(in)
}

// RemakeSeed is Remake for an unbound seed.
func RemakeSeed[I, O1, O2 any](s Seed[I, O1], f func(child Runner, childOut *Output[O1], out *Output[O2]) Runner) Seed[I, O2] {
	return Define(func(in I) Action[I, O2] {
		return Remake(s.With(in), f)
	})
}
