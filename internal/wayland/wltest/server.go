// Package wltest provides a scriptable fake Wayland compositor listening on
// a real unix socket, for tests of code built on package wayland.
package wltest

import (
	"errors"
	"io"
	"net"
	"path/filepath"
	"sync"
	"testing"

	"deedles.dev/wl/wire"
)

// Request is one request received from the client.
type Request struct {
	Sender uint32
	Opcode uint16
}

// Handler is called, on the server goroutine, for every request in order.
// Arguments are read from msg.
type Handler func(s *Server, msg *wire.MessageBuffer)

// Server accepts a single client and feeds its requests to a Handler.
type Server struct {
	t          testing.TB
	RuntimeDir string
	Display    string

	ln      *net.UnixListener
	handler Handler
	done    chan struct{}

	mu       sync.Mutex
	conn     *wire.Conn
	closed   bool
	requests []Request
}

// NewServer starts listening on a fresh socket in a temporary runtime
// directory. The server is closed when the test ends.
func NewServer(t testing.TB, h Handler) *Server {
	t.Helper()

	dir := t.TempDir()
	s := &Server{
		t:          t,
		RuntimeDir: dir,
		Display:    "wayland-test",
		handler:    h,
		done:       make(chan struct{}),
	}
	ln, err := wire.ListenPath(s.SocketPath())
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s.ln = ln

	go s.serve()
	t.Cleanup(s.Close)
	return s
}

// SocketPath returns the absolute path of the listening socket.
func (s *Server) SocketPath() string {
	return filepath.Join(s.RuntimeDir, s.Display)
}

func (s *Server) serve() {
	defer close(s.done)

	uc, err := s.ln.AcceptUnix()
	if err != nil {
		return
	}
	conn := wire.NewConn(uc)
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.conn = conn
	s.mu.Unlock()

	for {
		msg, err := wire.ReadMessage(conn)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				s.t.Logf("wltest: read: %v", err)
			}
			return
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{Sender: msg.Sender(), Opcode: msg.Op()})
		s.mu.Unlock()

		if s.handler != nil {
			s.handler(s, msg)
		}
	}
}

// Object names a protocol object by id when building events.
type Object uint32

func (o Object) ID() uint32                       { return uint32(o) }
func (Object) SetID(uint32)                       {}
func (Object) Dispatch(*wire.MessageBuffer) error { return nil }
func (Object) Delete()                            {}

// Emit starts an event sent by the object id.
func Emit(id uint32, opcode uint16) *wire.MessageBuilder {
	return wire.NewMessage(Object(id), opcode)
}

// Send writes one event to the client.
func (s *Server) Send(mb *wire.MessageBuilder) {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		s.t.Errorf("wltest: send before client connected")
		return
	}
	if err := mb.Build(conn); err != nil {
		s.t.Logf("wltest: write: %v", err)
	}
}

// Hangup closes the client connection.
func (s *Server) Hangup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		s.conn.Close()
	}
}

// Wait blocks until the client has disconnected.
func (s *Server) Wait() {
	<-s.done
}

// Requests returns every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// Close stops the listener, drops the client and waits for the server
// goroutine to exit.
func (s *Server) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.ln.Close()
	s.Hangup()
	<-s.done
}
