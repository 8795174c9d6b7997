package toplevel

import (
	"errors"
	"fmt"

	"github.com/bryanchriswhite/lswt/internal/wayland"
)

// ErrIdentifierChanged is reported when a compositor sends a second
// identifier for the same toplevel.
var ErrIdentifierChanged = errors.New("toplevel identifier changed after it was set")

// Handle is the remote object behind a record. Exactly one implementation
// exists per dialect.
type Handle interface {
	Dialect() Dialect
	ID() uint32
	destroy() error
}

type wlrHandle struct {
	proxy *wayland.Proxy
}

func (h wlrHandle) Dialect() Dialect { return DialectWlr }
func (h wlrHandle) ID() uint32       { return h.proxy.ID() }
func (h wlrHandle) destroy() error   { return h.proxy.Destroy(wayland.OpWlrHandleDestroy) }

type extHandle struct {
	proxy *wayland.Proxy
}

func (h extHandle) Dialect() Dialect { return DialectExt }
func (h extHandle) ID() uint32       { return h.proxy.ID() }
func (h extHandle) destroy() error   { return h.proxy.Destroy(wayland.OpExtHandleDestroy) }

// Info is a read-only view of a record, as handed to renderers. Nil strings
// were never sent by the compositor.
type Info struct {
	Title      *string
	AppID      *string
	Identifier *string
	Fullscreen bool
	Activated  bool
	Minimized  bool
	Maximized  bool
}

// Record accumulates the attributes of one toplevel until its first done
// event.
type Record struct {
	handle Handle

	title      *string
	appID      *string
	identifier *string

	fullscreen bool
	activated  bool
	minimized  bool
	maximized  bool

	finalized bool
	destroyed bool
}

// NewRecord creates an empty record owning h.
func NewRecord(h Handle) *Record {
	return &Record{handle: h}
}

// Handle returns the remote object the record owns.
func (r *Record) Handle() Handle {
	return r.handle
}

// Finalized reports whether the record has seen its first done event.
func (r *Record) Finalized() bool {
	return r.finalized
}

// SetTitle replaces the title.
func (r *Record) SetTitle(title string) {
	r.title = &title
}

// SetAppID replaces the app id.
func (r *Record) SetAppID(appID string) {
	r.appID = &appID
}

// SetIdentifier sets the identifier. The identifier is immutable per
// protocol; a second call still stores the new value but reports
// ErrIdentifierChanged.
func (r *Record) SetIdentifier(identifier string) error {
	prev := r.identifier
	r.identifier = &identifier
	if prev != nil {
		return fmt.Errorf("%w: %q -> %q", ErrIdentifierChanged, *prev, identifier)
	}
	return nil
}

// SetState replaces all four state flags with the given snapshot of wlr
// state tokens. Unknown tokens are ignored.
func (r *Record) SetState(states []uint32) {
	r.fullscreen, r.activated, r.minimized, r.maximized = false, false, false, false
	for _, s := range states {
		switch s {
		case wayland.WlrStateMaximized:
			r.maximized = true
		case wayland.WlrStateMinimized:
			r.minimized = true
		case wayland.WlrStateActivated:
			r.activated = true
		case wayland.WlrStateFullscreen:
			r.fullscreen = true
		}
	}
}

// Info returns a copy of the record's attributes.
func (r *Record) Info() Info {
	return Info{
		Title:      copyString(r.title),
		AppID:      copyString(r.appID),
		Identifier: copyString(r.identifier),
		Fullscreen: r.fullscreen,
		Activated:  r.activated,
		Minimized:  r.minimized,
		Maximized:  r.maximized,
	}
}

// Destroy releases the remote handle and drops the owned strings. It is
// safe to call more than once.
func (r *Record) Destroy() error {
	if r.destroyed {
		return nil
	}
	r.destroyed = true
	r.title, r.appID, r.identifier = nil, nil, nil
	return r.handle.destroy()
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
