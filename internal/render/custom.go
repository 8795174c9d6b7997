package render

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/bryanchriswhite/lswt/internal/toplevel"
)

// Field is a one-letter code of the custom format.
type Field rune

const (
	FieldTitle      Field = 't'
	FieldAppID      Field = 'a'
	FieldIdentifier Field = 'i'
	FieldActivated  Field = 'A'
	FieldFullscreen Field = 'f'
	FieldMinimized  Field = 'm'
	FieldMaximized  Field = 'M'
)

var ErrCustomFormat = errors.New("invalid custom format")

// Custom is a parsed custom format: a delimiter followed by field codes.
type Custom struct {
	Delimiter string
	Fields    []Field
}

// ParseCustom parses "<delimiter><codes>", e.g. "|taM". The delimiter is
// the first character and at least one code must follow.
func ParseCustom(s string) (Custom, error) {
	if s == "" {
		return Custom{}, fmt.Errorf("%w: empty", ErrCustomFormat)
	}
	delim, size := utf8.DecodeRuneInString(s)
	if delim == utf8.RuneError && size <= 1 {
		return Custom{}, fmt.Errorf("%w: delimiter is not valid UTF-8", ErrCustomFormat)
	}
	codes := s[size:]
	if codes == "" {
		return Custom{}, fmt.Errorf("%w: %q has no field codes", ErrCustomFormat, s)
	}

	c := Custom{Delimiter: string(delim)}
	for _, r := range codes {
		switch f := Field(r); f {
		case FieldTitle, FieldAppID, FieldIdentifier, FieldActivated,
			FieldFullscreen, FieldMinimized, FieldMaximized:
			c.Fields = append(c.Fields, f)
		default:
			return Custom{}, fmt.Errorf("%w: unknown field code %q", ErrCustomFormat, r)
		}
	}
	return c, nil
}

func orEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (c Custom) value(f Field, tl toplevel.Info, caps toplevel.CapabilitySet) string {
	switch f {
	case FieldTitle:
		return orEmpty(tl.Title)
	case FieldAppID:
		return orEmpty(tl.AppID)
	case FieldIdentifier:
		if !caps.Identifier {
			return unsupported
		}
		return orEmpty(tl.Identifier)
	case FieldActivated:
		return flag(caps.Activated, tl.Activated)
	case FieldFullscreen:
		return flag(caps.Fullscreen, tl.Fullscreen)
	case FieldMinimized:
		return flag(caps.Minimized, tl.Minimized)
	case FieldMaximized:
		return flag(caps.Maximized, tl.Maximized)
	default:
		return ""
	}
}

func writeCustom(w io.Writer, toplevels []toplevel.Info, caps toplevel.CapabilitySet, c Custom) error {
	if len(c.Fields) == 0 {
		return fmt.Errorf("%w: no field codes", ErrCustomFormat)
	}
	values := make([]string, len(c.Fields))
	for _, tl := range toplevels {
		for i, f := range c.Fields {
			values[i] = c.value(f, tl, caps)
		}
		if _, err := io.WriteString(w, strings.Join(values, c.Delimiter)+"\n"); err != nil {
			return err
		}
	}
	return nil
}
