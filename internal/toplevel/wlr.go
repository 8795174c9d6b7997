package toplevel

import (
	"github.com/bnema/wlturbo/wl"
	"github.com/bryanchriswhite/lswt/internal/wayland"
)

func (s *Session) handleWlrManager(manager *wayland.Proxy, ev *wl.Event) {
	switch ev.Opcode {
	case wayland.EvWlrManagerToplevel:
		id, ok := wayland.NewID(ev)
		if !ok {
			s.log.Warn().Msg("Malformed toplevel announcement")
			return
		}
		p, err := s.conn.NewServerProxy(id, wayland.WlrHandleInterface, manager.Version())
		if err != nil {
			s.log.Warn().Err(err).Msg("Cannot track toplevel handle")
			return
		}
		rec := s.announce(wlrHandle{proxy: p})
		p.SetListener(&wlrListener{session: s, record: rec})
	case wayland.EvWlrManagerFinished:
		s.log.Debug().Msg("Toplevel manager finished")
	}
}

// wlrListener feeds zwlr_foreign_toplevel_handle_v1 events into a record.
type wlrListener struct {
	session *Session
	record  *Record
}

func (l *wlrListener) HandleEvent(p *wayland.Proxy, ev *wl.Event) {
	log := l.session.log
	switch ev.Opcode {
	case wayland.EvWlrHandleTitle:
		title, ok := wayland.String(ev)
		if !ok {
			log.Warn().Uint32("handle", p.ID()).Msg("Malformed title event")
			return
		}
		l.record.SetTitle(title)
	case wayland.EvWlrHandleAppID:
		appID, ok := wayland.String(ev)
		if !ok {
			log.Warn().Uint32("handle", p.ID()).Msg("Malformed app_id event")
			return
		}
		l.record.SetAppID(appID)
	case wayland.EvWlrHandleState:
		states, ok := wayland.Uint32s(ev)
		if !ok {
			log.Warn().Uint32("handle", p.ID()).Msg("Malformed state event")
			return
		}
		l.record.SetState(states)
	case wayland.EvWlrHandleDone:
		l.session.finalize(l.record)
	case wayland.EvWlrHandleClosed:
		log.Debug().Uint32("handle", p.ID()).Msg("Toplevel closed")
	}
}
