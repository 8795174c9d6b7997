// Package wayland adapts the wlturbo client to what a one-shot query client
// needs: socket discovery, registry globals, sync round trips, binding and
// generic proxies for protocol extensions that wlturbo does not model.
package wayland

import (
	"io"
	"path/filepath"

	"github.com/bnema/wlturbo/wl"
	"github.com/bryanchriswhite/lswt/internal/logger"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ErrClosed is reported when the compositor hangs up.
var ErrClosed = errors.New("connection closed by compositor")

// ProtocolError is a fatal error reported by the compositor through
// wl_display.error.
type ProtocolError = wl.DisplayError

// Conn is a connection to a Wayland compositor. It is not safe for
// concurrent use; all listeners run on the goroutine calling Dispatch.
type Conn struct {
	display *wl.Display
	ctx     *wl.Context
	err     error
	log     *zerolog.Logger
}

// SocketPath resolves the compositor socket for a display name. Relative
// names live in the runtime directory.
func SocketPath(display, runtimeDir string) (string, error) {
	if display == "" {
		return "", errors.New("no wayland display name given")
	}
	if filepath.IsAbs(display) {
		return display, nil
	}
	if runtimeDir == "" {
		return "", errors.New("XDG_RUNTIME_DIR is not set in environment")
	}
	return filepath.Join(runtimeDir, display), nil
}

// Connect dials the compositor socket for display. The registry is
// requested right away; its globals arrive with the first Dispatch.
func Connect(display, runtimeDir string) (*Conn, error) {
	path, err := SocketPath(display, runtimeDir)
	if err != nil {
		return nil, err
	}
	d, err := wl.Connect(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to connect to wayland server at (%s)", path)
	}
	c := &Conn{
		display: d,
		ctx:     d.Context(),
		log:     logger.WithComponent("wayland"),
	}
	c.log.Debug().Str("socket", path).Msg("Connected")
	return c, nil
}

// Err returns the error that terminated the connection, if any.
func (c *Conn) Err() error {
	return c.err
}

func (c *Conn) fail(err error) error {
	if c.err != nil {
		return c.err
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = ErrClosed
	}
	c.err = err
	return err
}

// OnGlobal installs fn as the receiver of wl_registry.global events.
func (c *Conn) OnGlobal(fn GlobalFunc) {
	c.display.Registry().AddGlobalHandler(fn)
}

// GlobalFunc receives one advertised global.
type GlobalFunc func(name uint32, iface string, version uint32)

// HandleRegistryGlobal implements wl.RegistryGlobalHandler
func (f GlobalFunc) HandleRegistryGlobal(ev wl.RegistryGlobalEvent) {
	f(ev.Name, ev.Interface, ev.Version)
}

// Callback is a pending wl_display.sync round trip.
type Callback struct {
	id       uint32
	ctx      *wl.Context
	released bool
}

// ID returns the wayland object identifier
func (cb *Callback) ID() uint32 {
	return cb.id
}

// Release forgets the callback locally. wl_callback has no destructor.
func (cb *Callback) Release() {
	if cb.released {
		return
	}
	cb.released = true
	cb.ctx.UnregisterID(cb.id)
}

// Sync asks the compositor to fire done once every request sent before it
// has been handled. Events triggered by those requests are delivered first.
func (c *Conn) Sync(done func()) (*Callback, error) {
	if c.err != nil {
		return nil, errors.Wrap(c.err, "global wayland error")
	}
	obj, err := c.display.Sync()
	if err != nil {
		return nil, c.fail(errors.Wrap(err, "unable to send sync request"))
	}
	cb := &Callback{id: obj.ID(), ctx: c.ctx}
	c.display.AddListener(cb.id, EvCallbackDone, func([]byte) {
		if cb.released {
			return
		}
		cb.released = true
		if done != nil {
			done()
		}
	})
	return cb, nil
}

// Bind binds the global name to a new object implementing iface at version.
func (c *Conn) Bind(name uint32, iface string, version uint32, l Listener) (*Proxy, error) {
	if c.err != nil {
		return nil, errors.Wrap(c.err, "global wayland error")
	}
	p := c.newProxy(iface, version)
	p.SetListener(l)
	if err := c.display.Registry().Bind(name, iface, version, p); err != nil {
		p.released = true
		return nil, c.fail(errors.Wrapf(err, "unable to bind %s", iface))
	}
	c.log.Debug().
		Str("interface", iface).
		Uint32("name", name).
		Uint32("version", version).
		Uint32("id", p.ID()).
		Msg("Bound global")
	return p, nil
}

// NewServerProxy registers an object the compositor created through a
// new_id event argument. The caller must install its listener before the
// current event handler returns.
func (c *Conn) NewServerProxy(id uint32, iface string, version uint32) (*Proxy, error) {
	if id < ServerIDBase {
		return nil, errors.Errorf("new %s id %d is outside the server range", iface, id)
	}
	p := c.newProxy(iface, version)
	p.SetID(id)
	c.ctx.Register(p)
	return p, nil
}

func (c *Conn) newProxy(iface string, version uint32) *Proxy {
	p := &Proxy{iface: iface, version: version}
	p.SetContext(c.ctx)
	return p
}

// Dispatch blocks until the compositor sends a message and delivers it.
// Events for objects the client no longer tracks are dropped.
func (c *Conn) Dispatch() error {
	if c.err != nil {
		return c.err
	}
	err := c.display.Dispatch()
	if errors.Is(err, wl.ErrUnknownObject) {
		c.log.Debug().Err(err).Msg("Dropping event for unknown object")
		return nil
	}
	if err != nil {
		return c.fail(err)
	}
	return nil
}

// Close closes the socket. Requests sent earlier have already been written.
func (c *Conn) Close() error {
	return c.display.Close()
}
