package treadle

import (
	"log/slog"
	"time"

	"github.com/aretw0/treadle/pkg/state"
)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a structured logger for the engine. The default
// discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStore starts the engine on an existing store, for example one
// restored from a snapshot.
func WithStore(s *state.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// LifecycleHooks defines callbacks for engine observability. Nil fields
// are skipped. Hooks run synchronously on the engine goroutine and must
// not call back into the engine.
type LifecycleHooks struct {
	OnSpawn    func(*TaskEvent)
	OnComplete func(*TaskEvent)
	OnCancel   func(*TaskEvent)
	OnTick     func(*TickEvent)
}

// TaskEvent describes a task lifecycle transition.
type TaskEvent struct {
	ID    string
	State TaskState
}

// TickEvent describes one completed Advance.
type TickEvent struct {
	Tick    uint64
	Live    int
	Elapsed time.Duration
}
