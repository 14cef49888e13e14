package treadle

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/treadle/internal/logging"
	"github.com/aretw0/treadle/internal/runtime"
	"github.com/aretw0/treadle/pkg/state"
)

// Routine is the handle a task body uses to suspend on actions. See Do.
type Routine = runtime.Routine

// TaskState is the lifecycle phase of a task.
type TaskState = runtime.TaskState

// Task lifecycle phases.
const (
	TaskNotStarted = runtime.TaskNotStarted
	TaskRunning    = runtime.TaskRunning
	TaskCompleted  = runtime.TaskCompleted
	TaskCancelled  = runtime.TaskCancelled
)

// Engine is the high-level entry point. It owns the store and the task
// list, and advances everything one step per Advance call. The Engine is
// single-threaded: Advance, Spawn and store access must come from one
// goroutine (or be externally serialized).
type Engine struct {
	store  *state.Store
	sched  *runtime.Scheduler
	logger *slog.Logger
	hooks  LifecycleHooks
	ticks  uint64
}

// New creates an engine with a fresh store.
func New(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.store == nil {
		e.store = state.NewStore()
	}
	e.sched = runtime.NewScheduler(e.store, e.logger, e.taskDone)
	return e
}

// Store returns the engine's store. Mutate it only from the engine's
// goroutine.
func (e *Engine) Store() *state.Store { return e.store }

// Ticks returns how many times Advance has run.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Spawn registers a task body. The body first runs on the next Advance;
// nothing happens at spawn time.
func (e *Engine) Spawn(body func(*Routine)) *Handle {
	id := uuid.NewString()
	t := e.sched.Spawn(id, body)
	e.emitSpawn(id)
	return &Handle{engine: e, task: t}
}

// Advance runs one tick: every live task is polled once, in spawn order.
// It reports whether any task is still live afterwards.
func (e *Engine) Advance() bool {
	start := time.Now()
	e.ticks++
	e.sched.Tick()
	live := e.sched.Live()
	if e.hooks.OnTick != nil {
		e.hooks.OnTick(&TickEvent{Tick: e.ticks, Live: live, Elapsed: time.Since(start)})
	}
	return live > 0
}

// AdvanceUntilIdle ticks until no live task remains or maxTicks is
// reached. It returns the number of ticks run.
func (e *Engine) AdvanceUntilIdle(maxTicks int) int {
	for i := 1; i <= maxTicks; i++ {
		if !e.Advance() {
			return i
		}
	}
	return maxTicks
}

// Live returns the number of tasks that can still run.
func (e *Engine) Live() int { return e.sched.Live() }

// Tasks returns a snapshot of the current tasks for introspection.
func (e *Engine) Tasks() []TaskInfo {
	ts := e.sched.Tasks()
	out := make([]TaskInfo, len(ts))
	for i, t := range ts {
		out[i] = TaskInfo{ID: t.ID(), State: t.State(), Detached: t.IsDetached()}
	}
	return out
}

// Close cancels every live task except detached ones. Cancellation
// handlers fire and bodies unwind before Close returns. The engine can
// keep ticking afterwards; Close only clears the current task list.
func (e *Engine) Close() {
	e.sched.CancelAll()
}

func (e *Engine) taskDone(t *runtime.Task) {
	switch t.State() {
	case runtime.TaskCompleted:
		if e.hooks.OnComplete != nil {
			e.hooks.OnComplete(&TaskEvent{ID: t.ID(), State: t.State()})
		}
	case runtime.TaskCancelled:
		if e.hooks.OnCancel != nil {
			e.hooks.OnCancel(&TaskEvent{ID: t.ID(), State: t.State()})
		}
	}
}

func (e *Engine) emitSpawn(id string) {
	if e.hooks.OnSpawn != nil {
		e.hooks.OnSpawn(&TaskEvent{ID: id, State: runtime.TaskNotStarted})
	}
}

// TaskInfo is a read-only view of one task.
type TaskInfo struct {
	ID       string    `json:"id"`
	State    TaskState `json:"state"`
	Detached bool      `json:"detached,omitempty"`
}

// Handle refers to a spawned task.
type Handle struct {
	engine *Engine
	task   *runtime.Task
}

// ID returns the task's identifier.
func (h *Handle) ID() string { return h.task.ID() }

// State returns the task's lifecycle phase.
func (h *Handle) State() TaskState { return h.task.State() }

// Done reports whether the task finished, by completion or cancellation.
func (h *Handle) Done() bool { return h.task.Done() }

// Cancel terminates the task immediately: handlers fire, the body
// unwinds, and the task never runs again. Must not be called from inside
// the task's own body; a body ends itself by running a cancelling action.
func (h *Handle) Cancel() bool {
	return h.engine.sched.CancelTask(h.task)
}

// Detach excludes the task from Engine.Close. It keeps running until it
// finishes on its own or is cancelled explicitly.
func (h *Handle) Detach() { h.task.Detach() }

// Do suspends the calling task body on the action and returns its output
// once the action completes. It must only be called from inside a task
// body, with that body's own Routine. If the task is cancelled while
// suspended, Do unwinds the body (running deferred cleanup) and never
// returns.
func Do[I, O any](rt *Routine, a Action[I, O]) O {
	return runtime.Do(rt, a)
}
