package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/bryanchriswhite/lswt/internal/toplevel"
)

const unsupported = "unsupported"

func quoteOrEmpty(s *string) string {
	if s == nil {
		return `""`
	}
	return quote(*s)
}

func flag(supported, v bool) string {
	if !supported {
		return unsupported
	}
	return strconv.FormatBool(v)
}

func writeTSV(w io.Writer, toplevels []toplevel.Info, caps toplevel.CapabilitySet) error {
	for _, tl := range toplevels {
		identifier := unsupported
		if caps.Identifier {
			identifier = quoteOrEmpty(tl.Identifier)
		}
		fields := []string{
			quoteOrEmpty(tl.Title),
			quoteOrEmpty(tl.AppID),
			identifier,
			flag(caps.Fullscreen, tl.Fullscreen),
			flag(caps.Activated, tl.Activated),
			flag(caps.Minimized, tl.Minimized),
			flag(caps.Maximized, tl.Maximized),
		}
		if _, err := io.WriteString(w, strings.Join(fields, "\t")+"\n"); err != nil {
			return err
		}
	}
	return nil
}
