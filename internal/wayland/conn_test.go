package wayland_test

import (
	"testing"

	"deedles.dev/wl/wire"
	"github.com/bnema/wlturbo/wl"
	"github.com/bryanchriswhite/lswt/internal/wayland"
	"github.com/bryanchriswhite/lswt/internal/wayland/wltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type global struct {
	name    uint32
	iface   string
	version uint32
}

func TestSocketPath(t *testing.T) {
	path, err := wayland.SocketPath("wayland-1", "/run/user/1000")
	require.NoError(t, err)
	assert.Equal(t, "/run/user/1000/wayland-1", path)

	path, err = wayland.SocketPath("/tmp/wl.sock", "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/wl.sock", path)

	_, err = wayland.SocketPath("wayland-1", "")
	assert.ErrorContains(t, err, "XDG_RUNTIME_DIR")
	_, err = wayland.SocketPath("", "/run/user/1000")
	assert.Error(t, err)
}

// syncNow sends a sync request and dispatches until it completes.
func syncNow(t *testing.T, conn *wayland.Conn) {
	t.Helper()
	done := false
	_, err := conn.Sync(func() { done = true })
	require.NoError(t, err)
	for !done {
		require.NoError(t, conn.Dispatch())
	}
}

func TestGlobalsArriveBeforeSyncDone(t *testing.T) {
	fake := wltest.NewCompositor(t, wltest.Script{
		Globals: []wltest.Global{
			{Name: 1, Interface: "wl_compositor", Version: 6},
			{Name: 9, Interface: wayland.ExtListInterface, Version: 1},
		},
	})

	conn, err := wayland.Connect(fake.Display, fake.RuntimeDir)
	require.NoError(t, err)
	defer conn.Close()

	var globals []global
	conn.OnGlobal(func(name uint32, iface string, version uint32) {
		globals = append(globals, global{name, iface, version})
	})

	done := false
	var seenAtDone int
	cb, err := conn.Sync(func() {
		done = true
		seenAtDone = len(globals)
	})
	require.NoError(t, err)
	for !done {
		require.NoError(t, conn.Dispatch())
	}

	assert.NotZero(t, cb.ID())
	assert.Equal(t, 2, seenAtDone)
	assert.Equal(t, []global{
		{1, "wl_compositor", 6},
		{9, wayland.ExtListInterface, 1},
	}, globals)
}

func TestBindSendsInterfaceAndVersion(t *testing.T) {
	fake := wltest.NewCompositor(t, wltest.Script{
		Globals: []wltest.Global{{Name: 4, Interface: wayland.WlrManagerInterface, Version: 3}},
	})

	conn, err := wayland.Connect(fake.SocketPath(), "")
	require.NoError(t, err)

	manager, err := conn.Bind(4, wayland.WlrManagerInterface, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, wayland.WlrManagerInterface, manager.Interface())
	assert.Equal(t, uint32(3), manager.Version())

	require.NoError(t, conn.Close())
	fake.Wait()

	binds := fake.Binds()
	require.Len(t, binds, 1)
	assert.Equal(t, wltest.Bind{Name: 4, Interface: wayland.WlrManagerInterface, Version: 3, ID: manager.ID()}, binds[0])
}

func TestDispatchReportsHangup(t *testing.T) {
	fake := wltest.NewCompositor(t, wltest.Script{HangupOnSync: 1})

	conn, err := wayland.Connect(fake.Display, fake.RuntimeDir)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Sync(func() { t.Fatal("sync must not complete") })
	require.NoError(t, err)

	for err == nil {
		err = conn.Dispatch()
	}
	assert.ErrorIs(t, err, wayland.ErrClosed)
	assert.ErrorIs(t, conn.Err(), wayland.ErrClosed)

	_, err = conn.Sync(nil)
	assert.Error(t, err, "requests fail once the connection is dead")
}

func TestDisplayErrorIsFatal(t *testing.T) {
	fake := wltest.NewCompositor(t, wltest.Script{ErrorOnSync: 1})

	conn, err := wayland.Connect(fake.Display, fake.RuntimeDir)
	require.NoError(t, err)
	defer conn.Close()

	cb, err := conn.Sync(nil)
	require.NoError(t, err)

	for err == nil {
		err = conn.Dispatch()
	}
	var perr *wayland.ProtocolError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, cb.ID(), perr.ObjectID)
	assert.Equal(t, uint32(3), perr.Code)
	assert.Equal(t, "scripted failure", perr.Message)
	assert.ErrorIs(t, conn.Dispatch(), wl.ErrDisplayError, "the error sticks")
}

func TestServerObjectsReceiveEvents(t *testing.T) {
	srv := wltest.NewServer(t, func(s *wltest.Server, msg *wire.MessageBuffer) {
		if msg.Sender() != wayland.DisplayID || msg.Op() != wayland.OpDisplaySync {
			return
		}
		cb := msg.ReadUint()
		// An event for an object the client has never heard of is dropped.
		ignored := wltest.Emit(wayland.ServerIDBase+7, 0)
		ignored.WriteString("ignored")
		s.Send(ignored)
		title := wltest.Emit(wayland.ServerIDBase, wayland.EvExtHandleTitle)
		title.WriteString("Term")
		s.Send(title)
		done := wltest.Emit(cb, wayland.EvCallbackDone)
		done.WriteUint(1)
		s.Send(done)
	})

	conn, err := wayland.Connect(srv.Display, srv.RuntimeDir)
	require.NoError(t, err)
	defer conn.Close()

	handle, err := conn.NewServerProxy(wayland.ServerIDBase, wayland.ExtHandleInterface, 1)
	require.NoError(t, err)
	var title string
	handle.SetListener(wayland.ListenerFunc(func(_ *wayland.Proxy, ev *wl.Event) {
		title, _ = wayland.String(ev)
	}))

	_, err = conn.NewServerProxy(5, wayland.ExtHandleInterface, 1)
	assert.Error(t, err, "client range")

	syncNow(t, conn)
	assert.Equal(t, "Term", title)
}

func TestEventArguments(t *testing.T) {
	srv := wltest.NewServer(t, func(s *wltest.Server, msg *wire.MessageBuffer) {
		if msg.Sender() != wayland.DisplayID || msg.Op() != wayland.OpDisplaySync {
			return
		}
		cb := msg.ReadUint()
		h := wayland.ServerIDBase

		str := wltest.Emit(h, 0)
		str.WriteString("")
		s.Send(str)
		null := wltest.Emit(h, 1)
		null.WriteUint(0)
		s.Send(null)
		s.Send(wltest.Emit(h, 2))
		states := wltest.Emit(h, 3)
		states.WriteArray([]byte{2, 0, 0, 0, 3, 0, 0, 0})
		s.Send(states)
		ragged := wltest.Emit(h, 4)
		ragged.WriteArray([]byte{1, 2, 3})
		s.Send(ragged)
		empty := wltest.Emit(h, 5)
		empty.WriteArray(nil)
		s.Send(empty)

		done := wltest.Emit(cb, wayland.EvCallbackDone)
		done.WriteUint(1)
		s.Send(done)
	})

	conn, err := wayland.Connect(srv.Display, srv.RuntimeDir)
	require.NoError(t, err)
	defer conn.Close()

	type result struct {
		value any
		ok    bool
	}
	results := make(map[uint16]result)
	handle, err := conn.NewServerProxy(wayland.ServerIDBase, "test_handle", 1)
	require.NoError(t, err)
	handle.SetListener(wayland.ListenerFunc(func(_ *wayland.Proxy, ev *wl.Event) {
		switch ev.Opcode {
		case 0, 1, 2:
			s, ok := wayland.String(ev)
			results[ev.Opcode] = result{s, ok}
		default:
			v, ok := wayland.Uint32s(ev)
			results[ev.Opcode] = result{v, ok}
		}
	}))

	syncNow(t, conn)
	assert.Equal(t, map[uint16]result{
		0: {"", true},
		1: {"", false},
		2: {"", false},
		3: {[]uint32{2, 3}, true},
		4: {[]uint32(nil), false},
		5: {[]uint32{}, true},
	}, results)
}

func TestDestroyedProxyRejectsRequests(t *testing.T) {
	srv := wltest.NewServer(t, nil)
	conn, err := wayland.Connect(srv.Display, srv.RuntimeDir)
	require.NoError(t, err)

	handle, err := conn.NewServerProxy(wayland.ServerIDBase, wayland.ExtHandleInterface, 1)
	require.NoError(t, err)
	require.NoError(t, handle.Destroy(wayland.OpExtHandleDestroy))
	assert.True(t, handle.Released())
	assert.NoError(t, handle.Destroy(wayland.OpExtHandleDestroy), "second destroy is a no-op")
	assert.Error(t, handle.Request(wayland.OpExtHandleDestroy))

	require.NoError(t, conn.Close())
	srv.Wait()

	var destroys []wltest.Request
	for _, req := range srv.Requests() {
		if req.Sender == wayland.ServerIDBase {
			destroys = append(destroys, req)
		}
	}
	assert.Equal(t, []wltest.Request{{Sender: wayland.ServerIDBase, Opcode: wayland.OpExtHandleDestroy}}, destroys)
}
