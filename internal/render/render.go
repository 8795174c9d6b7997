// Package render formats a toplevel snapshot for stdout.
package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/bryanchriswhite/lswt/internal/toplevel"
)

// Format selects an output format.
type Format int

const (
	FormatNormal Format = iota
	FormatJSON
	FormatTSV
	FormatCustom
)

func (f Format) String() string {
	switch f {
	case FormatNormal:
		return "normal"
	case FormatJSON:
		return "json"
	case FormatTSV:
		return "tsv"
	case FormatCustom:
		return "custom"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// DefaultAppIDWidth caps the app-id column of the normal format.
const DefaultAppIDWidth = 40

// Options configures Render.
type Options struct {
	Format Format
	// Custom is the parsed custom format, used with FormatCustom.
	Custom Custom
	// AppIDWidth caps the app-id column of the normal format. Zero means
	// DefaultAppIDWidth.
	AppIDWidth int
}

// Render writes toplevels to w in the selected format.
func Render(w io.Writer, toplevels []toplevel.Info, caps toplevel.CapabilitySet, opts Options) error {
	bw := bufio.NewWriter(w)
	var err error
	switch opts.Format {
	case FormatNormal:
		width := opts.AppIDWidth
		if width <= 0 {
			width = DefaultAppIDWidth
		}
		err = writeNormal(bw, toplevels, width)
	case FormatJSON:
		err = writeJSON(bw, toplevels, caps)
	case FormatTSV:
		err = writeTSV(bw, toplevels, caps)
	case FormatCustom:
		err = writeCustom(bw, toplevels, caps, opts.Custom)
	default:
		err = fmt.Errorf("unknown output format %s", opts.Format)
	}
	if err != nil {
		return err
	}
	return bw.Flush()
}

// quote wraps s in double quotes, escaping quotes, backslashes, tabs and
// newlines. Other bytes are copied as is, including invalid UTF-8.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// needsQuote reports whether s contains whitespace, quotes or non-ASCII
// bytes.
func needsQuote(s string) bool {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == ' ', c >= '\t' && c <= '\r', c == '"', c == '\'', c >= 0x80:
			return true
		}
	}
	return false
}
