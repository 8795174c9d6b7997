package render

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/bryanchriswhite/lswt/internal/toplevel"
)

// member is one key of an object that keeps its keys in insertion order.
type member struct {
	key   string
	value any
}

type object []member

func (o object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshal(m.key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := marshal(m.value)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshal encodes v without HTML escaping.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func toplevelObject(tl toplevel.Info, caps toplevel.CapabilitySet) object {
	o := object{
		{"title", tl.Title},
		{"app-id", tl.AppID},
	}
	if caps.Identifier {
		o = append(o, member{"identifier", tl.Identifier})
	}
	if caps.Fullscreen {
		o = append(o, member{"fullscreen", tl.Fullscreen})
	}
	if caps.Activated {
		o = append(o, member{"activated", tl.Activated})
	}
	if caps.Minimized {
		o = append(o, member{"minimized", tl.Minimized})
	}
	if caps.Maximized {
		o = append(o, member{"maximized", tl.Maximized})
	}
	return o
}

func writeJSON(w io.Writer, toplevels []toplevel.Info, caps toplevel.CapabilitySet) error {
	list := make([]object, 0, len(toplevels))
	for _, tl := range toplevels {
		list = append(list, toplevelObject(tl, caps))
	}
	doc := object{
		{"supported-data", object{
			{"identifier", caps.Identifier},
			{"fullscreen", caps.Fullscreen},
			{"activated", caps.Activated},
			{"minimized", caps.Minimized},
			{"maximized", caps.Maximized},
		}},
		{"toplevels", list},
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	return enc.Encode(doc)
}
