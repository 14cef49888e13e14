// Package runtime drives task bodies against the tick loop.
//
// A task body is ordinary Go code that suspends on Do. Under the hood the
// body runs as a pulled iterator (iter.Pull): each Do yields a Runner to
// the driver, the driver polls it once per tick, and resumes the body on
// the tick the runner completes. Everything happens on the caller's
// goroutine; the store is never touched concurrently.
package runtime

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/aretw0/treadle/pkg/action"
	"github.com/aretw0/treadle/pkg/state"
)

// TaskState is the lifecycle phase of a task.
type TaskState int

const (
	// TaskNotStarted means the body has not run yet; it starts on the
	// task's first tick.
	TaskNotStarted TaskState = iota
	// TaskRunning means the body is suspended on an action.
	TaskRunning
	// TaskCompleted means the body returned normally.
	TaskCompleted
	// TaskCancelled means the task was cancelled or its body panicked.
	TaskCancelled
)

func (s TaskState) String() string {
	switch s {
	case TaskNotStarted:
		return "not_started"
	case TaskRunning:
		return "running"
	case TaskCompleted:
		return "completed"
	case TaskCancelled:
		return "cancelled"
	}
	return fmt.Sprintf("TaskState(%d)", int(s))
}

// cancelUnwind is panicked inside a task body to unwind it when the task
// is cancelled. Do panics it when its yield returns false; the iterator
// wrapper recovers it so user defers run but nothing escapes.
type cancelUnwind struct{}

// Routine is the handle a task body uses to suspend on actions and to read
// the store between suspensions. It is only valid inside the body it was
// handed to.
type Routine struct {
	store *state.Store
	yield func(action.Runner) bool
}

// Store returns the engine store. Body code between suspensions runs
// inside a tick, so reads and writes here are safe.
func (rt *Routine) Store() *state.Store { return rt.store }

// Do suspends the body on the action and returns its output once it
// completes. If the task is cancelled while suspended, Do never returns:
// it unwinds the body, running any deferred cleanup on the way out.
func Do[I, O any](rt *Routine, a action.Action[I, O]) O {
	out := &action.Output[O]{}
	r := a.CreateRunner(out)
	if !rt.yield(r) {
		panic(cancelUnwind{})
	}
	v, ok := out.Take()
	if !ok {
		panic(cancelUnwind{})
	}
	return v
}

// Task is one running body plus its driver state.
type Task struct {
	id       string
	st       TaskState
	rt       *Routine
	next     func() (action.Runner, bool)
	stop     func()
	current  action.Runner
	scope    *action.Cancellation
	detached bool
	notified bool
	logger   *slog.Logger
}

// NewTask wraps a body without starting it. The body first runs on the
// task's first tick.
func NewTask(id string, body func(*Routine), logger *slog.Logger) *Task {
	t := &Task{
		id:     id,
		scope:  &action.Cancellation{},
		logger: logger,
	}
	t.rt = &Routine{}
	seq := func(yield func(action.Runner) bool) {
		defer func() {
			if p := recover(); p != nil {
				if _, ok := p.(cancelUnwind); ok {
					return
				}
				panic(p)
			}
		}()
		t.rt.yield = yield
		body(t.rt)
	}
	t.next, t.stop = iter.Pull(iter.Seq[action.Runner](seq))
	return t
}

// ID returns the task's identifier.
func (t *Task) ID() string { return t.id }

// State returns the task's lifecycle phase.
func (t *Task) State() TaskState { return t.st }

// Done reports whether the task will never tick again.
func (t *Task) Done() bool {
	return t.st == TaskCompleted || t.st == TaskCancelled
}

// Detached marks the task as surviving engine shutdown.
func (t *Task) Detach() { t.detached = true }

// IsDetached reports whether Detach was called.
func (t *Task) IsDetached() bool { return t.detached }

// Scope returns the task's root cancellation registry.
func (t *Task) Scope() *action.Cancellation { return t.scope }

// Tick advances the task once: it polls the suspended runner and, on
// completion, resumes the body until it suspends again. A chain of
// eagerly-completing actions therefore resolves within one tick.
func (t *Task) Tick(s *state.Store) {
	if t.Done() {
		return
	}
	t.rt.store = s
	defer func() { t.rt.store = nil }()

	if t.st == TaskNotStarted {
		t.st = TaskRunning
		if !t.resume(s) {
			return
		}
	}
	for {
		switch st := t.current.Step(s, t.scope); st {
		case action.Pending:
			return
		case action.Completed:
			t.current = nil
			if !t.resume(s) {
				return
			}
		case action.Cancelled:
			t.cancelLocked(s)
			return
		}
	}
}

// resume runs the body until its next suspension. It returns false when
// the task is finished (body returned, or panicked).
func (t *Task) resume(s *state.Store) bool {
	var (
		r        action.Runner
		ok       bool
		panicked bool
	)
	func() {
		defer func() {
			if p := recover(); p != nil {
				panicked = true
				t.logger.Error("task body panicked", "task", t.id, "panic", p)
			}
		}()
		r, ok = t.next()
	}()
	if panicked {
		t.st = TaskCancelled
		t.scope.Cancel(s)
		t.current = nil
		return false
	}
	if !ok {
		t.st = TaskCompleted
		return false
	}
	t.current = r
	return true
}

// Cancel terminates the task: cancellation handlers fire in registration
// order, then the body is unwound synchronously so its defers run. The
// task is never polled again. Cancelling a finished task is a no-op.
func (t *Task) Cancel(s *state.Store) {
	if t.Done() {
		return
	}
	t.rt.store = s
	defer func() { t.rt.store = nil }()
	t.cancelLocked(s)
}

func (t *Task) cancelLocked(s *state.Store) {
	t.st = TaskCancelled
	t.scope.Cancel(s)
	// stop makes the pending yield inside Do return false, which unwinds
	// the body through its defers before stop returns.
	t.stop()
	t.current = nil
}
