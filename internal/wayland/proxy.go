package wayland

import (
	"github.com/bnema/wlturbo/wl"
	"github.com/pkg/errors"
)

// Listener receives the events of one proxy. Listeners run synchronously
// inside Conn.Dispatch, one event at a time.
type Listener interface {
	HandleEvent(p *Proxy, ev *wl.Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(p *Proxy, ev *wl.Event)

// HandleEvent calls f(p, ev).
func (f ListenerFunc) HandleEvent(p *Proxy, ev *wl.Event) {
	f(p, ev)
}

// Proxy is the client-side handle of a protocol object wlturbo has no type
// for. Events are routed to its listener.
type Proxy struct {
	wl.BaseProxy
	iface    string
	version  uint32
	listener Listener
	released bool
}

// Interface returns the wayland interface name
func (p *Proxy) Interface() string {
	return p.iface
}

// Version returns the interface version the object was created with.
func (p *Proxy) Version() uint32 {
	return p.version
}

// SetListener installs the listener that receives this object's events.
func (p *Proxy) SetListener(l Listener) {
	p.listener = l
}

// Released reports whether the proxy has been released or destroyed.
func (p *Proxy) Released() bool {
	return p.released
}

// Dispatch implements wl.Proxy
func (p *Proxy) Dispatch(ev *wl.Event) {
	if p.listener != nil {
		p.listener.HandleEvent(p, ev)
	}
}

// Request sends a request on this object.
func (p *Proxy) Request(opcode uint16, args ...interface{}) error {
	if p.released {
		return errors.Errorf("%s@%d: object has been released", p.iface, p.ID())
	}
	err := p.Context().SendRequest(p, uint32(opcode), args...)
	return errors.Wrapf(err, "%s@%d: request %d", p.iface, p.ID(), opcode)
}

// Destroy sends the interface's destructor request and releases the proxy.
func (p *Proxy) Destroy(opcode uint16) error {
	if p.released {
		return nil
	}
	err := p.Request(opcode)
	p.Release()
	return err
}

// Release forgets the proxy locally without telling the compositor, for
// interfaces that have no destructor request. Later events addressed to it
// are dropped.
func (p *Proxy) Release() {
	if p.released {
		return
	}
	p.released = true
	p.listener = nil
	p.Context().Unregister(p)
}
