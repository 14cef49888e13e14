// Package state provides the shared, synchronously-mutable store that actions
// read and write while they run.
//
// The store is deliberately not safe for concurrent use: the engine guarantees
// that every access happens on the scheduler's tick, one runner at a time.
// Background goroutines must hand their results back through an action (see
// pkg/effect) instead of touching the store directly.
package state

// Store is a keyed value store shared by every task the engine drives.
//
// Values are opaque to the engine. Keys are plain strings; packages that keep
// internal bookkeeping in the store (switches, records) namespace their keys.
type Store struct {
	values   map[string]any
	switches map[string]*switchCell
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		values:   make(map[string]any),
		switches: make(map[string]*switchCell),
	}
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores a value under key, replacing any previous value.
func (s *Store) Set(key string, value any) {
	s.values[key] = value
}

// Delete removes the value stored under key.
func (s *Store) Delete(key string) {
	delete(s.values, key)
}

// Len returns the number of stored values, not counting switches.
func (s *Store) Len() int {
	return len(s.values)
}

// Value is a typed read. It returns the zero value and false when the key is
// absent or holds a value of a different type.
func Value[T any](s *Store, key string) (T, bool) {
	v, ok := s.values[key]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Update reads the value under key, applies f, and stores the result.
// Absent keys are passed to f as the zero value.
func Update[T any](s *Store, key string, f func(T) T) T {
	cur, _ := Value[T](s, key)
	next := f(cur)
	s.values[key] = next
	return next
}
