package runtime

import (
	"log/slog"

	"github.com/aretw0/treadle/pkg/state"
)

// Scheduler owns the task list and advances every task once per tick.
//
// Tasks run in spawn order. A task spawned while a tick is in flight (or
// between ticks) first runs on the next tick; the tick that is already
// underway never sees it.
type Scheduler struct {
	store   *state.Store
	tasks   []*Task
	pending []*Task
	logger  *slog.Logger
	ticking bool

	// onDone is invoked once per task, on the tick it completes or is
	// cancelled.
	onDone func(*Task)
}

// NewScheduler creates a scheduler over the store.
func NewScheduler(store *state.Store, logger *slog.Logger, onDone func(*Task)) *Scheduler {
	return &Scheduler{store: store, logger: logger, onDone: onDone}
}

// Store returns the scheduler's store.
func (sc *Scheduler) Store() *state.Store { return sc.store }

// Spawn queues a task. It first runs on the next Tick.
func (sc *Scheduler) Spawn(id string, body func(*Routine)) *Task {
	t := NewTask(id, body, sc.logger)
	sc.pending = append(sc.pending, t)
	sc.logger.Debug("task spawned", "task", id)
	return t
}

// Tick admits pending tasks, advances every live task once in spawn
// order, then drops finished tasks from the list.
func (sc *Scheduler) Tick() {
	if len(sc.pending) > 0 {
		sc.tasks = append(sc.tasks, sc.pending...)
		sc.pending = nil
	}
	// Tasks spawned by a body mid-tick go to pending and must not run
	// this tick. Cancellations mid-tick mark tasks done but the list
	// itself only shrinks after the loop.
	sc.ticking = true
	for _, t := range sc.tasks {
		t.Tick(sc.store)
		if t.Done() {
			sc.finish(t)
		}
	}
	sc.ticking = false
	sc.compact()
}

// Cancel cancels the task with the given id. It returns false when no
// live task has that id.
func (sc *Scheduler) Cancel(id string) bool {
	for _, t := range sc.all() {
		if t.id == id && !t.Done() {
			t.Cancel(sc.store)
			sc.finish(t)
			sc.compact()
			return true
		}
	}
	return false
}

// CancelTask cancels a task by reference. Same semantics as Cancel.
func (sc *Scheduler) CancelTask(t *Task) bool {
	if t.Done() {
		return false
	}
	t.Cancel(sc.store)
	sc.finish(t)
	sc.compact()
	return true
}

// CancelAll cancels every live task except detached ones.
func (sc *Scheduler) CancelAll() {
	for _, t := range sc.all() {
		if !t.Done() && !t.IsDetached() {
			t.Cancel(sc.store)
			sc.finish(t)
		}
	}
	sc.compact()
}

// Live returns the number of tasks that can still tick, admitted or not.
func (sc *Scheduler) Live() int {
	n := 0
	for _, t := range sc.all() {
		if !t.Done() {
			n++
		}
	}
	return n
}

// Tasks returns a snapshot of every task known to the scheduler, spawn
// order preserved, pending tasks last.
func (sc *Scheduler) Tasks() []*Task {
	out := make([]*Task, 0, len(sc.tasks)+len(sc.pending))
	out = append(out, sc.tasks...)
	out = append(out, sc.pending...)
	return out
}

func (sc *Scheduler) all() []*Task {
	return sc.Tasks()
}

func (sc *Scheduler) finish(t *Task) {
	if t.notified {
		return
	}
	t.notified = true
	sc.logger.Debug("task finished", "task", t.id, "state", t.st.String())
	if sc.onDone != nil {
		sc.onDone(t)
	}
}

func (sc *Scheduler) compact() {
	// Compacting shares the backing array with the tick loop's range, so
	// cancellations arriving mid-tick wait for the end of the tick.
	if sc.ticking {
		return
	}
	alive := sc.tasks[:0]
	for _, t := range sc.tasks {
		if !t.Done() {
			alive = append(alive, t)
		}
	}
	clear(sc.tasks[len(alive):])
	sc.tasks = alive

	alivePending := sc.pending[:0]
	for _, t := range sc.pending {
		if !t.Done() {
			alivePending = append(alivePending, t)
		}
	}
	sc.pending = alivePending
}
