package toplevel

import (
	"errors"

	"github.com/bnema/wlturbo/wl"
	"github.com/bryanchriswhite/lswt/internal/wayland"
)

func (s *Session) handleExtList(list *wayland.Proxy, ev *wl.Event) {
	switch ev.Opcode {
	case wayland.EvExtListToplevel:
		id, ok := wayland.NewID(ev)
		if !ok {
			s.log.Warn().Msg("Malformed toplevel announcement")
			return
		}
		p, err := s.conn.NewServerProxy(id, wayland.ExtHandleInterface, list.Version())
		if err != nil {
			s.log.Warn().Err(err).Msg("Cannot track toplevel handle")
			return
		}
		rec := s.announce(extHandle{proxy: p})
		p.SetListener(&extListener{session: s, record: rec})
	case wayland.EvExtListFinished:
		s.log.Debug().Msg("Toplevel list finished")
	}
}

// extListener feeds ext_foreign_toplevel_handle_v1 events into a record.
type extListener struct {
	session *Session
	record  *Record
}

func (l *extListener) HandleEvent(p *wayland.Proxy, ev *wl.Event) {
	log := l.session.log
	switch ev.Opcode {
	case wayland.EvExtHandleTitle:
		title, ok := wayland.String(ev)
		if !ok {
			log.Warn().Uint32("handle", p.ID()).Msg("Malformed title event")
			return
		}
		l.record.SetTitle(title)
	case wayland.EvExtHandleAppID:
		appID, ok := wayland.String(ev)
		if !ok {
			log.Warn().Uint32("handle", p.ID()).Msg("Malformed app_id event")
			return
		}
		l.record.SetAppID(appID)
	case wayland.EvExtHandleIdentifier:
		identifier, ok := wayland.String(ev)
		if !ok {
			log.Warn().Uint32("handle", p.ID()).Msg("Malformed identifier event")
			return
		}
		if err := l.record.SetIdentifier(identifier); errors.Is(err, ErrIdentifierChanged) {
			log.Warn().Err(err).Uint32("handle", p.ID()).Msg("Protocol error: identifier of a toplevel changed")
		}
	case wayland.EvExtHandleDone:
		l.session.finalize(l.record)
	case wayland.EvExtHandleClosed:
		log.Debug().Uint32("handle", p.ID()).Msg("Toplevel closed")
	}
}
