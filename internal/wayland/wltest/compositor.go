package wltest

import (
	"encoding/binary"
	"sync"
	"testing"

	"deedles.dev/wl/wire"
	"github.com/bryanchriswhite/lswt/internal/wayland"
)

// Global is a global advertised by the fake compositor.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// Toplevel scripts the initial burst of one toplevel. Empty strings are not
// sent. States is only sent to wlr clients and only when non-nil.
type Toplevel struct {
	Title      string
	AppID      string
	Identifier string
	States     []uint32
	// Dones is the number of done events sent; zero means one.
	Dones int
	// Closed sends a closed event after the burst.
	Closed bool
}

// EventKind is the kind of a scripted toplevel event.
type EventKind int

const (
	// Announce creates the next handle on the bound manager.
	Announce EventKind = iota
	Title
	AppID
	Identifier
	State
	Done
	Closed
)

// Event is one scripted toplevel event. Toplevel indexes handles in
// announcement order. Identifier events only reach ext clients and State
// events only wlr clients.
type Event struct {
	Kind     EventKind
	Toplevel int
	Text     string
	States   []uint32
}

// Burst expands tl into the events announcing it as handle i.
func (tl Toplevel) Burst(i int) []Event {
	events := []Event{{Kind: Announce, Toplevel: i}}
	if tl.Identifier != "" {
		events = append(events, Event{Kind: Identifier, Toplevel: i, Text: tl.Identifier})
	}
	if tl.Title != "" {
		events = append(events, Event{Kind: Title, Toplevel: i, Text: tl.Title})
	}
	if tl.AppID != "" {
		events = append(events, Event{Kind: AppID, Toplevel: i, Text: tl.AppID})
	}
	if tl.States != nil {
		events = append(events, Event{Kind: State, Toplevel: i, States: tl.States})
	}
	for range max(tl.Dones, 1) {
		events = append(events, Event{Kind: Done, Toplevel: i})
	}
	if tl.Closed {
		events = append(events, Event{Kind: Closed, Toplevel: i})
	}
	return events
}

// Bind records a bind request.
type Bind struct {
	Name      uint32
	Interface string
	Version   uint32
	ID        uint32
}

// Script describes what a fake compositor advertises and announces.
type Script struct {
	Globals []Global
	// Toplevels are announced burst by burst on whichever toplevel
	// manager gets bound.
	Toplevels []Toplevel
	// Events are played after Toplevels, in order. Handles announced by
	// Toplevels come first in the handle numbering.
	Events []Event
	// HangupOnSync closes the connection instead of answering the n-th sync
	// request (1-based). Zero disables it.
	HangupOnSync int
	// ErrorOnSync answers the n-th sync request (1-based) with
	// wl_display.error and keeps the connection open. Zero disables it.
	ErrorOnSync int
}

func (s Script) events() []Event {
	var events []Event
	for i, tl := range s.Toplevels {
		events = append(events, tl.Burst(i)...)
	}
	return append(events, s.Events...)
}

// Compositor is a fake compositor implementing the registry, sync and both
// foreign toplevel protocols.
type Compositor struct {
	*Server
	script Script

	mu       sync.Mutex
	registry uint32
	binds    []Bind
	syncs    int
	nextID   uint32
	serial   uint32
}

// NewCompositor starts a fake compositor playing script.
func NewCompositor(t testing.TB, script Script) *Compositor {
	t.Helper()
	c := &Compositor{
		script: script,
		nextID: wayland.ServerIDBase,
	}
	c.Server = NewServer(t, c.handle)
	return c
}

// Binds returns the bind requests received so far.
func (c *Compositor) Binds() []Bind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Bind(nil), c.binds...)
}

// Syncs returns the number of sync requests received.
func (c *Compositor) Syncs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.syncs
}

func (c *Compositor) allocate() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	return id
}

func (c *Compositor) handle(s *Server, msg *wire.MessageBuffer) {
	switch {
	case msg.Sender() == wayland.DisplayID && msg.Op() == wayland.OpDisplayGetRegistry:
		registry := msg.ReadUint()
		c.mu.Lock()
		c.registry = registry
		c.mu.Unlock()
		for _, g := range c.script.Globals {
			mb := Emit(registry, wayland.EvRegistryGlobal)
			mb.WriteUint(g.Name)
			mb.WriteString(g.Interface)
			mb.WriteUint(g.Version)
			s.Send(mb)
		}

	case msg.Sender() == wayland.DisplayID && msg.Op() == wayland.OpDisplaySync:
		cb := msg.ReadUint()
		c.mu.Lock()
		c.syncs++
		n := c.syncs
		c.serial++
		serial := c.serial
		c.mu.Unlock()
		switch n {
		case c.script.HangupOnSync:
			s.Hangup()
			return
		case c.script.ErrorOnSync:
			mb := Emit(wayland.DisplayID, wayland.EvDisplayError)
			mb.WriteUint(cb)
			mb.WriteUint(3)
			mb.WriteString("scripted failure")
			s.Send(mb)
			return
		}
		done := Emit(cb, wayland.EvCallbackDone)
		done.WriteUint(serial)
		s.Send(done)
		deleted := Emit(wayland.DisplayID, wayland.EvDisplayDeleteID)
		deleted.WriteUint(cb)
		s.Send(deleted)

	case msg.Sender() == c.registryID() && msg.Op() == wayland.OpRegistryBind:
		name := msg.ReadUint()
		id := msg.ReadNewID()
		if err := msg.Err(); err != nil {
			s.t.Errorf("wltest: malformed bind: %v", err)
			return
		}
		b := Bind{Name: name, Interface: id.Interface, Version: id.Version, ID: id.ID}
		c.mu.Lock()
		c.binds = append(c.binds, b)
		c.mu.Unlock()
		c.play(s, b.Interface, b.ID)
	}
}

func (c *Compositor) registryID() uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry
}

// play sends the scripted events on a freshly bound manager.
func (c *Compositor) play(s *Server, iface string, manager uint32) {
	var handles []uint32
	for _, ev := range c.script.events() {
		op, ok := opcode(iface, ev.Kind)
		if !ok {
			continue
		}
		if ev.Kind == Announce {
			h := c.allocate()
			handles = append(handles, h)
			mb := Emit(manager, op)
			mb.WriteUint(h)
			s.Send(mb)
			continue
		}
		if ev.Toplevel < 0 || ev.Toplevel >= len(handles) {
			s.t.Errorf("wltest: event for unannounced toplevel %d", ev.Toplevel)
			continue
		}
		mb := Emit(handles[ev.Toplevel], op)
		switch ev.Kind {
		case Title, AppID, Identifier:
			mb.WriteString(ev.Text)
		case State:
			mb.WriteArray(packUint32s(ev.States))
		}
		s.Send(mb)
	}
}

// opcode returns the event opcode of kind for the manager interface iface.
func opcode(iface string, kind EventKind) (uint16, bool) {
	switch iface {
	case wayland.WlrManagerInterface:
		switch kind {
		case Announce:
			return wayland.EvWlrManagerToplevel, true
		case Title:
			return wayland.EvWlrHandleTitle, true
		case AppID:
			return wayland.EvWlrHandleAppID, true
		case State:
			return wayland.EvWlrHandleState, true
		case Done:
			return wayland.EvWlrHandleDone, true
		case Closed:
			return wayland.EvWlrHandleClosed, true
		}
	case wayland.ExtListInterface:
		switch kind {
		case Announce:
			return wayland.EvExtListToplevel, true
		case Title:
			return wayland.EvExtHandleTitle, true
		case AppID:
			return wayland.EvExtHandleAppID, true
		case Identifier:
			return wayland.EvExtHandleIdentifier, true
		case Done:
			return wayland.EvExtHandleDone, true
		case Closed:
			return wayland.EvExtHandleClosed, true
		}
	}
	return 0, false
}

func packUint32s(values []uint32) []byte {
	b := make([]byte, 0, 4*len(values))
	for _, v := range values {
		b = binary.LittleEndian.AppendUint32(b, v)
	}
	return b
}
