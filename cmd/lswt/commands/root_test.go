package commands

import (
	"bytes"
	"testing"

	"github.com/bryanchriswhite/lswt/internal/render"
	"github.com/bryanchriswhite/lswt/internal/wayland"
	"github.com/bryanchriswhite/lswt/internal/wayland/wltest"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps the user's config and session out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("LSWT_LOG_LEVEL", "")
	t.Setenv("LSWT_APP_ID_WIDTH", "")
}

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestMissingDisplay(t *testing.T) {
	isolate(t)
	t.Setenv("WAYLAND_DISPLAY", "")

	code, stdout, stderr := execute(t)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "WAYLAND_DISPLAY is not set")
}

func TestUnreachableDisplay(t *testing.T) {
	isolate(t)
	t.Setenv("WAYLAND_DISPLAY", "wayland-nonexistent")
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())

	code, _, stderr := execute(t)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "can not connect to wayland display")
}

func TestUsageErrors(t *testing.T) {
	isolate(t)
	tests := map[string][]string{
		"repeated format":   {"-j", "-j"},
		"two formats":       {"--json", "--tsv"},
		"json and custom":   {"-j", "-c", "|ta"},
		"bad custom format": {"-c", "|x"},
		"short custom":      {"-c", "|"},
		"positional":        {"extra"},
		"unknown flag":      {"--nope"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			code, stdout, stderr := execute(t, args...)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, "Error: ")
			assert.Contains(t, stderr, "Usage:")
		})
	}
}

func TestVersion(t *testing.T) {
	code, stdout, stderr := execute(t, "--version")
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "lswt version "+Version+"\n", stderr)
}

func TestHelp(t *testing.T) {
	code, stdout, stderr := execute(t, "-h")
	assert.Equal(t, 0, code)
	assert.Empty(t, stdout, "stdout is reserved for the listing")
	assert.Contains(t, stderr, "--custom")
	assert.Contains(t, stderr, "--json")
}

func TestFormatSelection(t *testing.T) {
	var sel formatSelection
	flags := pflag.NewFlagSet("lswt", pflag.ContinueOnError)
	addFormatFlags(flags, &sel)

	require.NoError(t, flags.Parse([]string{"--tsv=false"}))
	assert.Empty(t, sel.flag, "disabling a format does not select it")

	require.NoError(t, flags.Parse([]string{"-c", ",ai"}))
	assert.Equal(t, render.FormatCustom, sel.format)
	assert.Equal(t, render.Custom{Delimiter: ",", Fields: []render.Field{render.FieldAppID, render.FieldIdentifier}}, sel.custom)

	assert.Error(t, flags.Parse([]string{"-t"}))
}

func TestListEndToEnd(t *testing.T) {
	isolate(t)
	fake := wltest.NewCompositor(t, wltest.Script{
		Globals: []wltest.Global{{Name: 7, Interface: wayland.WlrManagerInterface, Version: 3}},
		Toplevels: []wltest.Toplevel{
			{Title: "Term", AppID: "foo", States: []uint32{wayland.WlrStateMaximized}},
		},
	})
	t.Setenv("WAYLAND_DISPLAY", fake.Display)
	t.Setenv("XDG_RUNTIME_DIR", fake.RuntimeDir)

	code, stdout, stderr := execute(t, "-c", "|taM")
	assert.Equal(t, 0, code, stderr)
	assert.Equal(t, "Term|foo|true\n", stdout)
}

func TestListWithoutToplevelManager(t *testing.T) {
	isolate(t)
	fake := wltest.NewCompositor(t, wltest.Script{
		Globals: []wltest.Global{{Name: 1, Interface: "wl_seat", Version: 9}},
	})
	t.Setenv("WAYLAND_DISPLAY", fake.SocketPath())
	t.Setenv("XDG_RUNTIME_DIR", "")

	code, stdout, stderr := execute(t, "--json")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "ext_foreign_toplevel_list_v1")
}

func TestListFailureRendersNothing(t *testing.T) {
	isolate(t)
	fake := wltest.NewCompositor(t, wltest.Script{
		Globals:     []wltest.Global{{Name: 7, Interface: wayland.WlrManagerInterface, Version: 3}},
		Toplevels:   []wltest.Toplevel{{Title: "Term", AppID: "foo"}},
		ErrorOnSync: 2,
	})
	t.Setenv("WAYLAND_DISPLAY", fake.Display)
	t.Setenv("XDG_RUNTIME_DIR", fake.RuntimeDir)

	code, stdout, stderr := execute(t, "--json")
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "scripted failure")
}
