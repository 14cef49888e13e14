package http

import (
	"sync"

	"github.com/aretw0/treadle"
	"github.com/aretw0/treadle/pkg/ports"
)

// EngineView mirrors an engine for concurrent readers.
//
// The engine itself is single-goroutine; HTTP handlers are not. The host
// calls Update from the engine goroutine (typically right after each
// Advance) and the handlers read the last published copy.
type EngineView struct {
	mu    sync.RWMutex
	tasks []ports.TaskSummary
	ticks uint64
	live  int
}

var _ ports.Inspector = (*EngineView)(nil)

// NewEngineView creates an empty view.
func NewEngineView() *EngineView {
	return &EngineView{}
}

// Update publishes the engine's current state. Call it from the engine
// goroutine only.
func (v *EngineView) Update(e *treadle.Engine) {
	infos := e.Tasks()
	tasks := make([]ports.TaskSummary, len(infos))
	for i, ti := range infos {
		tasks[i] = ports.TaskSummary{
			ID:       ti.ID,
			State:    ti.State.String(),
			Detached: ti.Detached,
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.tasks = tasks
	v.ticks = e.Ticks()
	v.live = e.Live()
}

// Tasks returns the last published task list.
func (v *EngineView) Tasks() []ports.TaskSummary {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.tasks
}

// Ticks returns the last published tick count.
func (v *EngineView) Ticks() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.ticks
}

// Live returns the last published live-task count.
func (v *EngineView) Live() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.live
}
