package toplevel

import (
	"errors"

	"github.com/bryanchriswhite/lswt/internal/logger"
	"github.com/rs/zerolog"
)

// ErrNoToplevelManager is returned when the compositor advertises neither
// a usable wlr manager nor an ext list.
var ErrNoToplevelManager = errors.New("wayland server supports neither zwlr_foreign_toplevel_manager_v1 version 3 or higher nor ext_foreign_toplevel_list_v1")

// Binder binds the global name as the manager of dialect d.
type Binder func(d Dialect, name, version uint32) error

type candidate struct {
	name    uint32
	version uint32
}

// Negotiator picks the toplevel dialect from advertised globals. The wlr
// manager is bound as soon as it shows up. An ext list is only remembered
// and bound at Settle if no wlr manager was bound by then, so the wlr
// dialect wins whatever the advertisement order.
type Negotiator struct {
	bind   Binder
	active Dialect
	ext    *candidate
	log    *zerolog.Logger
}

// NewNegotiator returns a negotiator binding through bind.
func NewNegotiator(bind Binder) *Negotiator {
	return &Negotiator{
		bind: bind,
		log:  logger.WithComponent("negotiate"),
	}
}

// Active returns the bound dialect.
func (n *Negotiator) Active() Dialect {
	return n.active
}

// Global handles one registry global advertisement.
func (n *Negotiator) Global(name uint32, iface string, version uint32) {
	switch iface {
	case DialectWlr.Interface():
		if n.active != DialectNone {
			return
		}
		if version < wlrMinVersion {
			n.log.Debug().
				Uint32("name", name).
				Uint32("version", version).
				Msg("Ignoring wlr toplevel manager below minimum version")
			return
		}
		n.use(DialectWlr, name, wlrMinVersion)
	case DialectExt.Interface():
		if n.active != DialectNone || n.ext != nil || version < extMinVersion {
			return
		}
		n.ext = &candidate{name: name, version: extMinVersion}
	}
}

func (n *Negotiator) use(d Dialect, name, version uint32) bool {
	if err := n.bind(d, name, version); err != nil {
		n.log.Warn().Err(err).Str("dialect", d.String()).Msg("Failed to bind toplevel manager")
		return false
	}
	n.active = d
	n.log.Debug().Str("dialect", d.String()).Uint32("name", name).Msg("Using toplevel dialect")
	return true
}

// Settle runs once global discovery is complete. It binds the remembered
// ext list when no wlr manager was bound and fails when neither is usable.
func (n *Negotiator) Settle() error {
	if n.active == DialectNone && n.ext != nil {
		n.use(DialectExt, n.ext.name, n.ext.version)
	}
	if n.active == DialectNone {
		return ErrNoToplevelManager
	}
	return nil
}
