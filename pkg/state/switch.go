package state

// switchCell is the stored side of a Switch: the level plus a generation
// counter that increments on every transition. Edge queries compare the
// generation against a per-observer high-water mark, so any number of
// observers can each see a transition exactly once. A single shared
// "already reported" bit would go stale as soon as a second observer polls.
type switchCell struct {
	on  bool
	gen uint64
}

// Switch is a named boolean coordination flag kept in the Store.
//
// Switches exist so that code outside a task (host systems, other tasks) can
// signal into wait predicates without sharing an Output slot: an Output is
// consumed once, a Switch can be observed by any number of readers.
//
// The zero generation means the switch has never transitioned.
type Switch struct {
	name string
}

// NewSwitch returns a handle for the switch stored under name.
// Handles are cheap and freely copyable; the state lives in the Store.
func NewSwitch(name string) Switch {
	return Switch{name: name}
}

// Name returns the switch's key.
func (w Switch) Name() string { return w.name }

func (w Switch) cell(s *Store) *switchCell {
	c, ok := s.switches[w.name]
	if !ok {
		c = &switchCell{}
		s.switches[w.name] = c
	}
	return c
}

// On turns the switch on. Turning an already-on switch on is a no-op and
// does not count as a transition.
func (w Switch) On(s *Store) {
	c := w.cell(s)
	if !c.on {
		c.on = true
		c.gen++
	}
}

// Off turns the switch off. A no-op when already off.
func (w Switch) Off(s *Store) {
	c := w.cell(s)
	if c.on {
		c.on = false
		c.gen++
	}
}

// Toggle flips the switch.
func (w Switch) Toggle(s *Store) {
	if w.IsOn(s) {
		w.Off(s)
	} else {
		w.On(s)
	}
}

// IsOn reports the current level. A switch that was never touched is off.
func (w Switch) IsOn(s *Store) bool {
	c, ok := s.switches[w.name]
	return ok && c.on
}

// IsOff reports the inverse level.
func (w Switch) IsOff(s *Store) bool {
	return !w.IsOn(s)
}

// Observer returns an independent edge observer for the switch.
// Each observer sees each transition exactly once, regardless of how many
// other observers exist or in which order they poll.
func (w Switch) Observer() *Observer {
	return &Observer{sw: w}
}

// Observer detects switch edges. Not shareable: every interested party
// must hold its own.
type Observer struct {
	sw      Switch
	seenOn  uint64
	seenOff uint64
}

// JustTurnedOn reports true exactly once for each off-to-on transition this
// observer has not yet seen.
func (o *Observer) JustTurnedOn(s *Store) bool {
	c, ok := s.switches[o.sw.name]
	if !ok || !c.on {
		return false
	}
	if o.seenOn == c.gen {
		return false
	}
	o.seenOn = c.gen
	return true
}

// JustTurnedOff reports true exactly once for each on-to-off transition this
// observer has not yet seen. A switch that was never turned on never reports.
func (o *Observer) JustTurnedOff(s *Store) bool {
	c, ok := s.switches[o.sw.name]
	if !ok || c.on || c.gen == 0 {
		return false
	}
	if o.seenOff == c.gen {
		return false
	}
	o.seenOff = c.gen
	return true
}
