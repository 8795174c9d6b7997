package toplevel

import (
	"fmt"

	"github.com/bryanchriswhite/lswt/internal/logger"
	"github.com/bryanchriswhite/lswt/internal/wayland"
	"github.com/rs/zerolog"
)

// Session collects one snapshot of toplevels over a connection.
type Session struct {
	conn       *wayland.Conn
	manager    *wayland.Proxy
	sync       *wayland.Callback
	negotiator *Negotiator
	barrier    *Barrier

	// announced holds records that have not seen done yet, keyed by
	// handle id.
	announced map[uint32]*Record
	toplevels Registry
	caps      CapabilitySet

	log *zerolog.Logger
}

// NewSession prepares a session on conn. The session owns conn and closes
// it in Close.
func NewSession(conn *wayland.Conn) *Session {
	s := &Session{
		conn:      conn,
		announced: make(map[uint32]*Record),
		log:       logger.WithComponent("toplevel"),
	}
	s.negotiator = NewNegotiator(s.bindManager)
	s.barrier = NewBarrier(connSyncer{s}, s.negotiator.Settle, s.settle)
	return s
}

// Collect runs the event loop until the snapshot is complete or the
// session fails.
func (s *Session) Collect() error {
	s.conn.OnGlobal(s.negotiator.Global)

	if err := s.barrier.Start(); err != nil {
		return fmt.Errorf("failed to start sync: %w", err)
	}
	for !s.barrier.Done() {
		if err := s.conn.Dispatch(); err != nil {
			s.barrier.Fail(err)
		}
	}
	if s.barrier.Phase() == PhaseFailed {
		return s.barrier.Err()
	}

	s.log.Debug().
		Str("dialect", s.negotiator.Active().String()).
		Int("toplevels", s.toplevels.Len()).
		Int("unfinished", len(s.announced)).
		Msg("Snapshot complete")
	return nil
}

// Phase returns the state of the session's barrier.
func (s *Session) Phase() Phase {
	return s.barrier.Phase()
}

// Dialect returns the bound toplevel dialect.
func (s *Session) Dialect() Dialect {
	return s.negotiator.Active()
}

// Capabilities returns the fields supported by the bound dialect. It is
// only meaningful after Collect succeeds.
func (s *Session) Capabilities() CapabilitySet {
	return s.caps
}

// Toplevels returns the finalized toplevels in order of their first done
// event.
func (s *Session) Toplevels() []Info {
	return s.toplevels.Infos()
}

// Close destroys every toplevel handle, the pending callback and the
// manager, then closes the connection along with its registry.
func (s *Session) Close() error {
	if err := s.toplevels.Destroy(); err != nil {
		s.log.Debug().Err(err).Msg("Failed to destroy toplevel")
	}
	for id, rec := range s.announced {
		if err := rec.Destroy(); err != nil {
			s.log.Debug().Err(err).Msg("Failed to destroy toplevel")
		}
		delete(s.announced, id)
	}
	if s.sync != nil {
		s.sync.Release()
		s.sync = nil
	}
	if s.manager != nil {
		switch s.negotiator.Active() {
		case DialectExt:
			if err := s.manager.Destroy(wayland.OpExtListDestroy); err != nil {
				s.log.Debug().Err(err).Msg("Failed to destroy toplevel list")
			}
		default:
			// zwlr_foreign_toplevel_manager_v1 has no destructor.
			s.manager.Release()
		}
		s.manager = nil
	}
	return s.conn.Close()
}

func (s *Session) settle() {
	s.caps = Resolve(s.negotiator.Active())
}

func (s *Session) bindManager(d Dialect, name, version uint32) error {
	var l wayland.Listener
	switch d {
	case DialectWlr:
		l = wayland.ListenerFunc(s.handleWlrManager)
	case DialectExt:
		l = wayland.ListenerFunc(s.handleExtList)
	default:
		return fmt.Errorf("cannot bind dialect %s", d)
	}
	manager, err := s.conn.Bind(name, d.Interface(), version, l)
	if err != nil {
		return err
	}
	s.manager = manager
	return nil
}

// announce registers the record for a new toplevel handle.
func (s *Session) announce(h Handle) *Record {
	rec := NewRecord(h)
	s.announced[h.ID()] = rec
	return rec
}

// finalize moves rec into the snapshot on its first done event.
func (s *Session) finalize(rec *Record) {
	if !s.toplevels.Finalize(rec) {
		return
	}
	delete(s.announced, rec.Handle().ID())
	s.log.Debug().
		Uint32("handle", rec.Handle().ID()).
		Int("index", s.toplevels.Len()-1).
		Msg("Toplevel finalized")
}

// connSyncer issues wl_display.sync round trips for the barrier.
type connSyncer struct {
	s *Session
}

func (c connSyncer) Sync(done func()) error {
	cb, err := c.s.conn.Sync(func() {
		c.s.sync = nil
		done()
	})
	if err != nil {
		return err
	}
	c.s.sync = cb
	return nil
}
