package action

import "github.com/aretw0/treadle/pkg/state"

// Pipe feeds the first action's output into the seed as its input; the
// overall output is the second action's. The second runner is constructed
// only once the first completes, on the same tick.
func Pipe[I, O1, O2 any](first Action[I, O1], next Seed[O1, O2]) Action[I, O2] {
	a := first
	return NewSeed(func(_ I, out *Output[O2]) Runner {
		o1 := &Output[O1]{}
		return &pipeRunner[O1, O2]{
			first: a.CreateRunner(o1),
			o1:    o1,
			next:  next,
			out:   out,
		}
	}).With(first.input)
}

type pipeRunner[O1, O2 any] struct {
	first     Runner
	o1        *Output[O1]
	next      Seed[O1, O2]
	out       *Output[O2]
	second    Runner
	firstDone bool
}

func (r *pipeRunner[O1, O2]) Step(s *state.Store, sc *Cancellation) Status {
	if !r.firstDone {
		switch st := r.first.Step(s, sc); st {
		case Completed:
			r.firstDone = true
			v, _ := r.o1.Take()
			r.second = r.next.With(v).CreateRunner(r.out)
		default:
			return st
		}
	}
	return r.second.Step(s, sc)
}

// Through runs the inner action after the first completes, discards the
// inner output, and yields the first action's output. It is the way to
// insert a delay or side effect between a producer and its consumer.
func Through[I, O1, I2, O2 any](first Action[I, O1], inner Action[I2, O2]) Action[I, O1] {
	return Pipe(first, throughSeed[O1](inner))
}

func throughSeed[V, I2, O2 any](inner Action[I2, O2]) Seed[V, V] {
	return NewSeed(func(v V, out *Output[V]) Runner {
		var sink Output[O2]
		r := inner.CreateRunner(&sink)
		return funcRunner(func(s *state.Store, sc *Cancellation) Status {
			switch st := r.Step(s, sc); st {
			case Completed:
				out.Set(v)
				return Completed
			default:
				return st
			}
		})
	})
}
