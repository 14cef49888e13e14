// Package effect bridges blocking or asynchronous work into the tick
// loop.
//
// Spawn runs a function on its own goroutine and exposes it as an action:
// the task suspends, the tick loop keeps running, and the task resumes on
// the first tick after the function returns. The function receives a
// context; with AbortOnCancel the context is cancelled when the task is,
// so well-behaved work stops instead of leaking.
package effect

import (
	"context"

	"github.com/aretw0/treadle/pkg/action"
	"github.com/aretw0/treadle/pkg/state"
)

// Policy controls what happens to in-flight work when the owning task is
// cancelled.
type Policy int

const (
	// AbortOnCancel cancels the work's context when the task's
	// cancellation handlers fire. The result, if any, is dropped.
	AbortOnCancel Policy = iota

	// Detached lets the work run to completion on its own; only the
	// result is dropped when the task is gone.
	Detached
)

// Spawn turns f into a seed. Each bound action starts one goroutine on
// its first poll and completes on the first tick after f returns. f must
// not touch the store; it hands results back through its return value.
func Spawn[I, O any](f func(ctx context.Context, in I) O, policy Policy) action.Seed[I, O] {
	return action.NewSeed(func(in I, out *action.Output[O]) action.Runner {
		return &spawnRunner[I, O]{f: f, in: in, out: out, policy: policy}
	})
}

type spawnRunner[I, O any] struct {
	f      func(ctx context.Context, in I) O
	in     I
	out    *action.Output[O]
	policy Policy

	started bool
	cancel  context.CancelFunc
	handler action.HandlerID
	result  chan O
}

func (r *spawnRunner[I, O]) Step(s *state.Store, sc *action.Cancellation) action.Status {
	if !r.started {
		r.started = true
		r.result = make(chan O, 1)
		ctx := context.Background()
		if r.policy == AbortOnCancel {
			ctx, r.cancel = context.WithCancel(ctx)
			cancel := r.cancel
			r.handler = sc.Register(func(*state.Store) { cancel() })
		}
		go func(in I) {
			r.result <- r.f(ctx, in)
		}(r.in)
	}
	select {
	case v := <-r.result:
		if r.policy == AbortOnCancel {
			sc.Unregister(r.handler)
			r.cancel()
		}
		r.out.Set(v)
		return action.Completed
	default:
		return action.Pending
	}
}
