package render

import (
	"io"
	"strings"

	"github.com/bryanchriswhite/lswt/internal/toplevel"
	"golang.org/x/text/width"
)

const (
	nullValue    = "<NULL>"
	appIDHeader  = "app-id:"
	titleHeader  = "title:"
	columnGutter = "   "
)

// display renders a value for humans: absent values as <NULL>, values that
// would be ambiguous unquoted in quotes.
func display(s *string) string {
	switch {
	case s == nil:
		return nullValue
	case needsQuote(*s):
		return quote(*s)
	default:
		return *s
	}
}

// cells returns the terminal width of s. East Asian wide and fullwidth
// runes take two cells.
func cells(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func pad(s string, to int) string {
	if n := to - cells(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func writeNormal(w io.Writer, toplevels []toplevel.Info, maxWidth int) error {
	appIDs := make([]string, len(toplevels))
	column := len(appIDHeader)
	for i, tl := range toplevels {
		appIDs[i] = display(tl.AppID)
		column = max(column, cells(appIDs[i]))
	}
	column = min(column, max(maxWidth, len(appIDHeader)))

	if _, err := io.WriteString(w, pad(appIDHeader, column)+columnGutter+titleHeader+"\n"); err != nil {
		return err
	}
	for i, tl := range toplevels {
		line := pad(appIDs[i], column) + columnGutter + display(tl.Title) + "\n"
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}
