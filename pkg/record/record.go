// Package record is an undo/redo history layered on the action algebra.
//
// A Record keeps two stacks of Tracks. Undoing runs the track's rollback
// action to completion over as many ticks as it needs, then moves the
// track to the redo stack; pushing a new track discards the redo stack.
// Only one undo or redo may be in flight at a time; conflicting requests
// complete immediately with ErrInProgress and touch nothing.
package record

import (
	"errors"

	"github.com/aretw0/treadle/pkg/action"
)

// ErrInProgress is returned when undo or redo is requested while another
// undo or redo is still running.
var ErrInProgress = errors.New("record: undo or redo already in progress")

// Record holds the undo and redo history for one operation type.
// It is not safe for concurrent use; drive it from the engine goroutine.
type Record[Act any] struct {
	tracks      []Track[Act]
	redo        []Track[Act]
	progressing bool
}

// New creates an empty record.
func New[Act any]() *Record[Act] {
	return &Record[Act]{}
}

// Track pairs an operation with the rollback that reverses it.
type Track[Act any] struct {
	Act      Act
	Rollback Rollback[Act]
}

// Rollback describes how to reverse and replay a tracked operation.
type Rollback[Act any] struct {
	undo func(Act) action.Action[action.Unit, action.Unit]
	redo func(Act) action.Action[action.Unit, action.Unit]
}

// Undo builds a rollback that cannot be replayed: redoing past it just
// restores the track to the undo stack.
func Undo[Act any](undo func(Act) action.Action[action.Unit, action.Unit]) Rollback[Act] {
	return Rollback[Act]{undo: undo}
}

// UndoRedo builds a rollback with an explicit replay action.
func UndoRedo[Act any](undo, redo func(Act) action.Action[action.Unit, action.Unit]) Rollback[Act] {
	return Rollback[Act]{undo: undo, redo: redo}
}

// CanUndo reports whether the undo stack is non-empty.
func (r *Record[Act]) CanUndo() bool { return len(r.tracks) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (r *Record[Act]) CanRedo() bool { return len(r.redo) > 0 }

// UndoLen returns the undo stack depth.
func (r *Record[Act]) UndoLen() int { return len(r.tracks) }

// RedoLen returns the redo stack depth.
func (r *Record[Act]) RedoLen() int { return len(r.redo) }

// InProgress reports whether an undo or redo is currently running.
func (r *Record[Act]) InProgress() bool { return r.progressing }

func (r *Record[Act]) push(t Track[Act]) {
	r.tracks = append(r.tracks, t)
	r.redo = nil
}

func (r *Record[Act]) popUndo() (Track[Act], bool) {
	if len(r.tracks) == 0 {
		return Track[Act]{}, false
	}
	t := r.tracks[len(r.tracks)-1]
	r.tracks = r.tracks[:len(r.tracks)-1]
	return t, true
}

func (r *Record[Act]) popRedo() (Track[Act], bool) {
	if len(r.redo) == 0 {
		return Track[Act]{}, false
	}
	t := r.redo[len(r.redo)-1]
	r.redo = r.redo[:len(r.redo)-1]
	return t, true
}
