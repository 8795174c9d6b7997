package toplevel

import (
	"errors"
)

// Phase is the state of a sync barrier.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingDiscovery
	PhaseAwaitingEvents
	PhaseComplete
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingDiscovery:
		return "awaiting-discovery"
	case PhaseAwaitingEvents:
		return "awaiting-events"
	case PhaseComplete:
		return "complete"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Syncer issues a server round trip and calls done once the server has
// processed every request sent before it.
type Syncer interface {
	Sync(done func()) error
}

// Barrier decides when a snapshot is complete. The first round trip flushes
// global discovery; the discovered hook then binds a manager and the second
// round trip flushes the toplevel bursts that binding triggers.
type Barrier struct {
	syncer     Syncer
	discovered func() error
	settled    func()

	phase Phase
	err   error
}

// NewBarrier returns an idle barrier. discovered runs at the first
// checkpoint; an error from it fails the barrier. settled runs at the
// second.
func NewBarrier(s Syncer, discovered func() error, settled func()) *Barrier {
	return &Barrier{
		syncer:     s,
		discovered: discovered,
		settled:    settled,
	}
}

// Start issues the first round trip.
func (b *Barrier) Start() error {
	if b.phase != PhaseIdle {
		return errors.New("barrier already started")
	}
	b.phase = PhaseAwaitingDiscovery
	if err := b.syncer.Sync(b.acknowledge); err != nil {
		b.Fail(err)
		return err
	}
	return nil
}

func (b *Barrier) acknowledge() {
	switch b.phase {
	case PhaseAwaitingDiscovery:
		if b.discovered != nil {
			if err := b.discovered(); err != nil {
				b.Fail(err)
				return
			}
		}
		b.phase = PhaseAwaitingEvents
		if err := b.syncer.Sync(b.acknowledge); err != nil {
			b.Fail(err)
		}
	case PhaseAwaitingEvents:
		if b.settled != nil {
			b.settled()
		}
		b.phase = PhaseComplete
	}
}

// Fail moves the barrier to PhaseFailed. A finished barrier keeps its
// outcome.
func (b *Barrier) Fail(err error) {
	if b.Done() {
		return
	}
	b.phase = PhaseFailed
	b.err = err
}

// Phase returns the current phase.
func (b *Barrier) Phase() Phase {
	return b.phase
}

// Done reports whether the barrier has completed or failed.
func (b *Barrier) Done() bool {
	return b.phase == PhaseComplete || b.phase == PhaseFailed
}

// Err returns the failure cause.
func (b *Barrier) Err() error {
	return b.err
}
