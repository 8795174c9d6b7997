package toplevel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncer struct {
	pending []func()
	err     error
}

func (f *fakeSyncer) Sync(done func()) error {
	if f.err != nil {
		return f.err
	}
	f.pending = append(f.pending, done)
	return nil
}

// ack answers the oldest outstanding round trip.
func (f *fakeSyncer) ack(t *testing.T) {
	t.Helper()
	require.NotEmpty(t, f.pending, "no round trip in flight")
	done := f.pending[0]
	f.pending = f.pending[1:]
	done()
}

func TestBarrierTwoPhases(t *testing.T) {
	syncer := &fakeSyncer{}
	var discovered, settled int
	b := NewBarrier(syncer,
		func() error { discovered++; return nil },
		func() { settled++ },
	)
	assert.Equal(t, PhaseIdle, b.Phase())

	require.NoError(t, b.Start())
	assert.Equal(t, PhaseAwaitingDiscovery, b.Phase())
	assert.Len(t, syncer.pending, 1)

	syncer.ack(t)
	assert.Equal(t, PhaseAwaitingEvents, b.Phase())
	assert.Equal(t, 1, discovered)
	assert.Zero(t, settled)
	assert.Len(t, syncer.pending, 1, "second round trip issued")
	assert.False(t, b.Done())

	syncer.ack(t)
	assert.Equal(t, PhaseComplete, b.Phase())
	assert.Equal(t, 1, settled)
	assert.True(t, b.Done())
	assert.NoError(t, b.Err())
}

func TestBarrierDiscoveryFailure(t *testing.T) {
	syncer := &fakeSyncer{}
	var settled bool
	b := NewBarrier(syncer,
		func() error { return ErrNoToplevelManager },
		func() { settled = true },
	)
	require.NoError(t, b.Start())
	syncer.ack(t)

	assert.Equal(t, PhaseFailed, b.Phase())
	assert.ErrorIs(t, b.Err(), ErrNoToplevelManager)
	assert.Empty(t, syncer.pending, "no second round trip")
	assert.False(t, settled)
}

func TestBarrierSyncFailure(t *testing.T) {
	boom := errors.New("boom")
	b := NewBarrier(&fakeSyncer{err: boom}, nil, nil)

	assert.ErrorIs(t, b.Start(), boom)
	assert.Equal(t, PhaseFailed, b.Phase())
	assert.Error(t, b.Start(), "cannot restart")
}

func TestBarrierKeepsOutcome(t *testing.T) {
	syncer := &fakeSyncer{}
	b := NewBarrier(syncer, nil, nil)
	require.NoError(t, b.Start())
	syncer.ack(t)
	syncer.ack(t)
	require.Equal(t, PhaseComplete, b.Phase())

	b.Fail(errors.New("late hangup"))
	assert.Equal(t, PhaseComplete, b.Phase())
	assert.NoError(t, b.Err())
}

func TestBarrierFailBeforeAck(t *testing.T) {
	syncer := &fakeSyncer{}
	var discovered bool
	b := NewBarrier(syncer, func() error { discovered = true; return nil }, nil)
	require.NoError(t, b.Start())

	b.Fail(errors.New("hangup"))
	syncer.ack(t)
	assert.Equal(t, PhaseFailed, b.Phase())
	assert.False(t, discovered, "stale acknowledgement ignored")
}
