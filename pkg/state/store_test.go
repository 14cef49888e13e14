package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/treadle/pkg/state"
)

func TestStore_SetGetDelete(t *testing.T) {
	s := state.NewStore()
	s.Set("k", 1)
	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, s.Len())

	s.Delete("k")
	_, ok = s.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestValue_TypeMismatchIsMiss(t *testing.T) {
	s := state.NewStore()
	s.Set("k", "text")
	_, ok := state.Value[int](s, "k")
	assert.False(t, ok)
	v, ok := state.Value[string](s, "k")
	assert.True(t, ok)
	assert.Equal(t, "text", v)
}

func TestUpdate_MissingKeyStartsFromZero(t *testing.T) {
	s := state.NewStore()
	got := state.Update(s, "count", func(n int) int { return n + 5 })
	assert.Equal(t, 5, got)
	got = state.Update(s, "count", func(n int) int { return n + 5 })
	assert.Equal(t, 10, got)
}

func TestSwitch_EdgeSeenOncePerObserver(t *testing.T) {
	s := state.NewStore()
	sw := state.NewSwitch("door")
	a := sw.Observer()
	b := sw.Observer()

	assert.False(t, a.JustTurnedOn(s))

	sw.On(s)
	assert.True(t, a.JustTurnedOn(s))
	assert.False(t, a.JustTurnedOn(s), "same observer sees the edge once")
	assert.True(t, b.JustTurnedOn(s), "late observer still sees it")
	assert.False(t, b.JustTurnedOn(s))
}

func TestSwitch_RepeatedOnIsNotATransition(t *testing.T) {
	s := state.NewStore()
	sw := state.NewSwitch("door")
	obs := sw.Observer()

	sw.On(s)
	assert.True(t, obs.JustTurnedOn(s))
	sw.On(s)
	assert.False(t, obs.JustTurnedOn(s))

	sw.Off(s)
	sw.On(s)
	assert.True(t, obs.JustTurnedOn(s), "a full off/on cycle is a new edge")
}

func TestSwitch_OffEdges(t *testing.T) {
	s := state.NewStore()
	sw := state.NewSwitch("door")
	obs := sw.Observer()

	assert.False(t, obs.JustTurnedOff(s), "never-on switch reports no off edge")
	sw.On(s)
	sw.Off(s)
	assert.True(t, obs.JustTurnedOff(s))
	assert.False(t, obs.JustTurnedOff(s))
}

func TestSwitch_Toggle(t *testing.T) {
	s := state.NewStore()
	sw := state.NewSwitch("door")
	sw.Toggle(s)
	assert.True(t, sw.IsOn(s))
	sw.Toggle(s)
	assert.True(t, sw.IsOff(s))
}

func TestSnapshot_RoundTrip(t *testing.T) {
	s := state.NewStore()
	s.Set("greeting", "hello")
	sw := state.NewSwitch("ready")
	sw.On(s)

	snap := s.Export()

	restored := state.NewStore()
	restored.Import(snap)
	v, ok := restored.Get("greeting")
	require.True(t, ok)
	assert.Equal(t, "hello", v)
	assert.True(t, state.NewSwitch("ready").IsOn(restored))
}

func TestSnapshot_PreservesObserverSemantics(t *testing.T) {
	s := state.NewStore()
	sw := state.NewSwitch("ready")
	sw.On(s)

	restored := state.NewStore()
	restored.Import(s.Export())

	obs := state.NewSwitch("ready").Observer()
	assert.True(t, obs.JustTurnedOn(restored), "generation survives the round trip")
}
