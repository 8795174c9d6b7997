// Package toplevel collects a snapshot of the compositor's toplevels. It
// negotiates one of the two foreign toplevel protocols, accumulates the
// per-toplevel event bursts into records and decides, through a two-phase
// sync barrier, when the snapshot is complete.
package toplevel

import (
	"github.com/bryanchriswhite/lswt/internal/wayland"
)

// Dialect identifies the toplevel protocol bound for a session.
type Dialect int

const (
	// DialectNone means no toplevel manager has been bound.
	DialectNone Dialect = iota
	// DialectWlr is zwlr_foreign_toplevel_management_unstable_v1: state
	// flags, no identifier.
	DialectWlr
	// DialectExt is ext_foreign_toplevel_list_v1: stable identifier, no
	// state flags.
	DialectExt
)

// Minimum and bound versions of each dialect's global.
const (
	wlrMinVersion uint32 = 3
	extMinVersion uint32 = 1
)

func (d Dialect) String() string {
	switch d {
	case DialectWlr:
		return "wlr-foreign-toplevel-management"
	case DialectExt:
		return "ext-foreign-toplevel-list"
	default:
		return "none"
	}
}

// Interface returns the wayland interface of the dialect's manager global.
func (d Dialect) Interface() string {
	switch d {
	case DialectWlr:
		return wayland.WlrManagerInterface
	case DialectExt:
		return wayland.ExtListInterface
	default:
		return ""
	}
}
