/*
Package ports defines the driven ports (interfaces) for the treadle engine.

These interfaces decouple the core from external implementations, so the
same engine can persist snapshots to memory, Redis, or anything else, and
can be observed over any transport.

# Key Interfaces

  - SnapshotStore: persists and restores store snapshots ("stop and resume").
  - Inspector: read-only view of a running engine for introspection surfaces.
*/
package ports
