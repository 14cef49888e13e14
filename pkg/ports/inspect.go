package ports

// TaskSummary is a transport-neutral view of one task.
type TaskSummary struct {
	ID       string `json:"id"`
	State    string `json:"state"`
	Detached bool   `json:"detached,omitempty"`
}

// Inspector is a read-only view of a running engine, implemented by
// whoever owns the engine and consumed by introspection surfaces such as
// the HTTP adapter. Implementations must be safe to call from other
// goroutines than the engine's.
type Inspector interface {
	Tasks() []TaskSummary
	Ticks() uint64
	Live() int
}
