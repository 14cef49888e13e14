// Package middleware wraps snapshot stores with cross-cutting behavior:
// encryption at rest and PII masking. Middlewares compose; the engine and
// its adapters never know they are there.
package middleware

import "github.com/aretw0/treadle/pkg/ports"

// Middleware allows wrapping a SnapshotStore to add behavior.
type Middleware func(ports.SnapshotStore) ports.SnapshotStore

// Chain applies middlewares outermost-first: Chain(store, a, b) means a
// sees every call first and b sits closest to the store.
func Chain(store ports.SnapshotStore, mws ...Middleware) ports.SnapshotStore {
	for i := len(mws) - 1; i >= 0; i-- {
		store = mws[i](store)
	}
	return store
}
