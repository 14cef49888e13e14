package state

// SwitchState is the serializable form of one switch.
type SwitchState struct {
	On  bool   `json:"on"`
	Gen uint64 `json:"gen"`
}

// Snapshot is a serializable copy of a Store, used by snapshot stores
// (pkg/ports) to stop and later resume an engine.
//
// Only the top level of Values is copied; stored values are expected to be
// plain data when snapshots are in use.
type Snapshot struct {
	Values   map[string]any         `json:"values"`
	Switches map[string]SwitchState `json:"switches,omitempty"`
}

// Export copies the store's contents into a Snapshot.
func (s *Store) Export() *Snapshot {
	snap := &Snapshot{
		Values:   make(map[string]any, len(s.values)),
		Switches: make(map[string]SwitchState, len(s.switches)),
	}
	for k, v := range s.values {
		snap.Values[k] = v
	}
	for k, c := range s.switches {
		snap.Switches[k] = SwitchState{On: c.on, Gen: c.gen}
	}
	return snap
}

// Import replaces the store's contents with the snapshot's.
// Observers held from before an Import keep their generation marks; a
// restored switch with a lower generation reads as already seen.
func (s *Store) Import(snap *Snapshot) {
	s.values = make(map[string]any, len(snap.Values))
	for k, v := range snap.Values {
		s.values[k] = v
	}
	s.switches = make(map[string]*switchCell, len(snap.Switches))
	for k, c := range snap.Switches {
		s.switches[k] = &switchCell{on: c.On, gen: c.Gen}
	}
}
