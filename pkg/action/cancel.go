package action

import (
	"sync/atomic"

	"github.com/aretw0/treadle/pkg/state"
)

// HandlerID identifies a registered cancellation handler so it can be
// unregistered when the runner that owns it completes normally.
type HandlerID uint64

var handlerIDs atomic.Uint64

// Cancellation is the ordered registry of cleanup callbacks for one runner
// chain. The engine creates one per task; parallel combinators create one
// per child so abandoned children can be cancelled independently.
//
// Handlers fire in registration order, exactly once, and only on
// cancellation, never on normal completion. After Cancel fires, no runner
// in the chain is polled again.
type Cancellation struct {
	handlers []cancelEntry
	fired    bool
}

type cancelEntry struct {
	id HandlerID
	fn func(*state.Store)
}

// Register adds a handler and returns its id. No runner is polled after its
// registry fires, so registration on a fired registry cannot happen through
// the engine; it is ignored if forced.
func (c *Cancellation) Register(fn func(*state.Store)) HandlerID {
	id := HandlerID(handlerIDs.Add(1))
	if c.fired {
		return id
	}
	c.handlers = append(c.handlers, cancelEntry{id: id, fn: fn})
	return id
}

// Unregister removes a handler. Runners call this when they complete
// normally so their cleanup never fires.
func (c *Cancellation) Unregister(id HandlerID) {
	for i, e := range c.handlers {
		if e.id == id {
			c.handlers = append(c.handlers[:i], c.handlers[i+1:]...)
			return
		}
	}
}

// Cancel fires every registered handler in registration order and clears
// the registry. Calling Cancel again is a no-op.
func (c *Cancellation) Cancel(s *state.Store) {
	if c.fired {
		return
	}
	c.fired = true
	handlers := c.handlers
	c.handlers = nil
	for _, e := range handlers {
		e.fn(s)
	}
}

// Fired reports whether Cancel has run.
func (c *Cancellation) Fired() bool { return c.fired }

// Len returns the number of registered handlers.
func (c *Cancellation) Len() int { return len(c.handlers) }
