package record

import (
	"github.com/aretw0/treadle/pkg/action"
	"github.com/aretw0/treadle/pkg/state"
)

// Push appends a track to the undo stack and discards the redo stack.
// It completes on the tick it runs and returns ErrInProgress, without
// touching either stack, when an undo or redo is in flight.
func Push[Act any](rec *Record[Act], t Track[Act]) action.Action[action.Unit, error] {
	return action.Run(func(*state.Store) error {
		if rec.progressing {
			return ErrInProgress
		}
		rec.push(t)
		return nil
	})
}

// UndoOnce undoes the most recent track. The track's undo action runs to
// completion, over several ticks if it needs them, before the track moves
// to the redo stack. Undoing an empty record completes with nil.
func UndoOnce[Act any](rec *Record[Act]) action.Action[action.Unit, error] {
	return rollbackAction(rec, 1, false)
}

// UndoAll undoes every track on the undo stack, most recent first.
func UndoAll[Act any](rec *Record[Act]) action.Action[action.Unit, error] {
	return rollbackAction(rec, -1, false)
}

// RedoOnce replays the most recently undone track and restores it to the
// undo stack. Tracks recorded with Undo (no replay action) are restored
// without running anything.
func RedoOnce[Act any](rec *Record[Act]) action.Action[action.Unit, error] {
	return rollbackAction(rec, 1, true)
}

// RedoAll replays the entire redo stack.
func RedoAll[Act any](rec *Record[Act]) action.Action[action.Unit, error] {
	return rollbackAction(rec, -1, true)
}

// AllClear drops both stacks. Like Push it conflicts with a running undo
// or redo.
func AllClear[Act any](rec *Record[Act]) action.Action[action.Unit, error] {
	return action.Run(func(*state.Store) error {
		if rec.progressing {
			return ErrInProgress
		}
		rec.tracks = nil
		rec.redo = nil
		return nil
	})
}

func rollbackAction[Act any](rec *Record[Act], limit int, redo bool) action.Action[action.Unit, error] {
	return action.NewSeed(func(_ action.Unit, out *action.Output[error]) action.Runner {
		return &rollbackRunner[Act]{rec: rec, out: out, limit: limit, redo: redo}
	}).With(action.Unit{})
}

// rollbackRunner drives up to limit rollback actions to completion, one
// after another. limit < 0 means the whole stack. The record stays locked
// for the duration; cancellation mid-rollback unlocks it and leaves the
// current track where it was.
type rollbackRunner[Act any] struct {
	rec   *Record[Act]
	out   *action.Output[error]
	limit int
	redo  bool

	started bool
	handler action.HandlerID
	inner   action.Runner
	track   Track[Act]
	done    int
}

func (r *rollbackRunner[Act]) Step(s *state.Store, sc *action.Cancellation) action.Status {
	if !r.started {
		r.started = true
		if r.rec.progressing {
			r.out.Set(ErrInProgress)
			return action.Completed
		}
		r.rec.progressing = true
		r.handler = sc.Register(func(*state.Store) {
			r.rec.progressing = false
		})
	}
	for {
		if r.inner == nil {
			if !r.next() {
				return r.finish(sc)
			}
		}
		switch st := r.inner.Step(s, sc); st {
		case action.Pending:
			return action.Pending
		case action.Completed:
			r.settle()
			r.done++
			if r.limit >= 0 && r.done >= r.limit {
				return r.finish(sc)
			}
		default:
			return st
		}
	}
}

// next stages the next track's rollback action. It reports false when the
// relevant stack is exhausted. The track is only popped once its rollback
// completes, so a cancelled rollback leaves the history intact.
func (r *rollbackRunner[Act]) next() bool {
	var t Track[Act]
	if r.redo {
		if len(r.rec.redo) == 0 {
			return false
		}
		t = r.rec.redo[len(r.rec.redo)-1]
	} else {
		if len(r.rec.tracks) == 0 {
			return false
		}
		t = r.rec.tracks[len(r.rec.tracks)-1]
	}
	r.track = t

	var a action.Action[action.Unit, action.Unit]
	if r.redo {
		if t.Rollback.redo == nil {
			r.inner = noopRunner{}
			return true
		}
		a = t.Rollback.redo(t.Act)
	} else {
		a = t.Rollback.undo(t.Act)
	}
	var sink action.Output[action.Unit]
	r.inner = a.CreateRunner(&sink)
	return true
}

// settle moves the finished track to the opposite stack.
func (r *rollbackRunner[Act]) settle() {
	r.inner = nil
	if r.redo {
		r.rec.popRedo()
		r.rec.tracks = append(r.rec.tracks, r.track)
	} else {
		r.rec.popUndo()
		r.rec.redo = append(r.rec.redo, r.track)
	}
}

func (r *rollbackRunner[Act]) finish(sc *action.Cancellation) action.Status {
	r.rec.progressing = false
	sc.Unregister(r.handler)
	r.out.Set(nil)
	return action.Completed
}

type noopRunner struct{}

func (noopRunner) Step(*state.Store, *action.Cancellation) action.Status {
	return action.Completed
}
