// Package crash reports unexpected panics before the process exits.
package crash

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/lipgloss"
)

// ExitCode is the status the process exits with after a crash.
const ExitCode = 2

var bannerStyle = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	Padding(1, 4).
	Align(lipgloss.Center)

// Banner returns the boxed crash notice.
func Banner() string {
	return bannerStyle.Render(
		"lswt has crashed.\n\n" +
			"This is likely a bug, so please\n" +
			"report it together with the trace below.",
	)
}

// Report writes the banner, the panic value and the stack trace to w.
func Report(w io.Writer, v any, stack []byte) {
	fmt.Fprintf(w, "\n%s\n\n", Banner())
	fmt.Fprintf(w, "panic: %v\n\n", v)
	fmt.Fprintf(w, "%s\n", stack)
}

// Guard must be deferred at the top of main. It recovers a panic, reports
// it on stderr and exits with ExitCode.
func Guard() {
	if r := recover(); r != nil {
		handle(os.Stderr, os.Exit, r, debug.Stack())
	}
}

func handle(w io.Writer, exit func(int), v any, stack []byte) {
	Report(w, v, stack)
	exit(ExitCode)
}
