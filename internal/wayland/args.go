package wayland

import (
	"encoding/binary"

	"github.com/bnema/wlturbo/wl"
)

// The wl.Event readers return zero values on short payloads. These wrappers
// report whether the argument was actually present.

// NewID reads a new_id argument.
func NewID(ev *wl.Event) (uint32, bool) {
	start := ev.Offset()
	id := ev.Uint32()
	return id, ev.Offset() > start && id != 0
}

// String reads a non-nullable string argument.
func String(ev *wl.Event) (string, bool) {
	start := ev.Offset()
	s := ev.String()
	// A present string carries its length word plus at least the NUL.
	return s, ev.Offset() > start+4
}

// Uint32s reads an array argument holding uint32 values.
func Uint32s(ev *wl.Event) ([]uint32, bool) {
	start := ev.Offset()
	raw := ev.Array()
	if ev.Offset() < start+4 || len(raw)%4 != 0 {
		return nil, false
	}
	values := make([]uint32, 0, len(raw)/4)
	for i := 0; i < len(raw); i += 4 {
		values = append(values, binary.LittleEndian.Uint32(raw[i:]))
	}
	return values, true
}
