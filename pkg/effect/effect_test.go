package effect_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/treadle"
	"github.com/aretw0/treadle/pkg/effect"
	"github.com/aretw0/treadle/pkg/state"
)

// advanceUntil ticks the engine with a small real-time pause until the
// predicate holds or the deadline passes. Effects finish on goroutines,
// so these tests need wall-clock room.
func advanceUntil(t *testing.T, eng *treadle.Engine, pred func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		eng.Advance()
		if pred() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestSpawn_ResultArrivesOnLaterTick(t *testing.T) {
	eng := treadle.New()
	var got int
	h := eng.Spawn(func(rt *treadle.Routine) {
		got = treadle.Do(rt, effect.Spawn(func(ctx context.Context, in int) int {
			time.Sleep(10 * time.Millisecond)
			return in * 2
		}, effect.AbortOnCancel).With(21))
		rt.Store().Set("result", got)
	})

	advanceUntil(t, eng, h.Done)
	assert.Equal(t, 42, got)
	v, _ := eng.Store().Get("result")
	assert.Equal(t, 42, v)
}

func TestSpawn_AbortOnCancelCancelsContext(t *testing.T) {
	eng := treadle.New()
	started := make(chan struct{})
	stopped := make(chan struct{})

	h := eng.Spawn(func(rt *treadle.Routine) {
		treadle.Do(rt, effect.Spawn(func(ctx context.Context, _ treadle.Unit) treadle.Unit {
			close(started)
			<-ctx.Done()
			close(stopped)
			return treadle.Unit{}
		}, effect.AbortOnCancel).With(treadle.Unit{}))
	})

	eng.Advance()
	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("effect never started")
	}

	require.True(t, h.Cancel())
	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("context was not cancelled")
	}
}

func TestSpawn_DetachedSurvivesCancel(t *testing.T) {
	eng := treadle.New()
	done := make(chan struct{})

	h := eng.Spawn(func(rt *treadle.Routine) {
		treadle.Do(rt, effect.Spawn(func(ctx context.Context, _ treadle.Unit) treadle.Unit {
			select {
			case <-ctx.Done():
				t.Error("detached context must not be cancelled")
			case <-time.After(20 * time.Millisecond):
			}
			close(done)
			return treadle.Unit{}
		}, effect.Detached).With(treadle.Unit{}))
	})

	eng.Advance()
	h.Cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("detached work did not run to completion")
	}
}

func TestSpawn_StoreUntouchedWhilePending(t *testing.T) {
	eng := treadle.New()
	eng.Store().Set("ticks", 0)
	h := eng.Spawn(func(rt *treadle.Routine) {
		treadle.Do(rt, effect.Spawn(func(ctx context.Context, _ treadle.Unit) treadle.Unit {
			time.Sleep(5 * time.Millisecond)
			return treadle.Unit{}
		}, effect.AbortOnCancel).With(treadle.Unit{}))
	})

	advanceUntil(t, eng, func() bool {
		state.Update(eng.Store(), "ticks", func(n int) int { return n + 1 })
		return h.Done()
	})
	n, _ := state.Value[int](eng.Store(), "ticks")
	assert.Greater(t, n, 0, "the loop kept ticking while the effect ran")
}
