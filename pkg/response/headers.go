package response

import (
	"bytes"
	"strings"
)

// Pseudo-header names given to the first line of a header block.
const (
	RequestLine = "Request-Line"
	StatusLine  = "Status-Line"
)

// Headers is a parsed header block. Names keep the case and order in which
// they were first seen; every occurrence of a repeated name is kept.
type Headers struct {
	names  []string
	values map[string][]string
}

// ParseHeaders parses raw header lines. The first line (request line or
// status line) is stored under the pseudo-header first. Lines beginning
// with a space or tab continue the previous header: they are trimmed and
// appended to its most recent value after a "\n". Other lines are split
// on the first ":"; lines without one are ignored.
//
// A nil or empty lines slice yields nil.
func ParseHeaders(lines []string, first string) *Headers {
	if len(lines) == 0 {
		return nil
	}

	h := &Headers{values: make(map[string][]string)}
	h.add(first, strings.TrimSpace(lines[0]))

	current := ""
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		if line[0] == ' ' || line[0] == '\t' {
			vs := h.values[current]
			if current == "" || len(vs) == 0 {
				// continuation with nothing to continue
				continue
			}
			vs[len(vs)-1] += "\n" + strings.TrimSpace(line)
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		current = strings.TrimSpace(name)
		h.add(current, strings.TrimSpace(value))
	}
	return h
}

func (h *Headers) add(name, value string) {
	if _, ok := h.values[name]; !ok {
		h.names = append(h.names, name)
	}
	h.values[name] = append(h.values[name], value)
}

// Get returns the value of name. For a repeated header it returns the last
// occurrence; use Values for all of them.
func (h *Headers) Get(name string) string {
	if h == nil {
		return ""
	}
	vs := h.values[name]
	if len(vs) == 0 {
		return ""
	}
	return vs[len(vs)-1]
}

// Values returns every occurrence of name in order.
func (h *Headers) Values(name string) []string {
	if h == nil {
		return nil
	}
	vs := h.values[name]
	if vs == nil {
		return nil
	}
	out := make([]string, len(vs))
	copy(out, vs)
	return out
}

// IsMulti reports whether name occurred more than once.
func (h *Headers) IsMulti(name string) bool {
	return h != nil && len(h.values[name]) > 1
}

// Has reports whether name occurred at all.
func (h *Headers) Has(name string) bool {
	if h == nil {
		return false
	}
	_, ok := h.values[name]
	return ok
}

// Names returns header names in first-seen order, pseudo-header first.
func (h *Headers) Names() []string {
	if h == nil {
		return nil
	}
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Map renders the headers as name → string for single headers and
// name → []string for repeated ones.
func (h *Headers) Map() map[string]any {
	if h == nil {
		return nil
	}
	out := make(map[string]any, len(h.names))
	for _, name := range h.names {
		if vs := h.values[name]; len(vs) > 1 {
			out[name] = h.Values(name)
		} else {
			out[name] = vs[0]
		}
	}
	return out
}

// SplitHeaderBlock splits a wire-format header block (as produced by
// httputil.DumpRequestOut or DumpResponse without body) into lines,
// dropping the blank terminator.
func SplitHeaderBlock(block []byte) []string {
	block = bytes.TrimRight(block, "\r\n")
	if len(block) == 0 {
		return nil
	}
	raw := strings.Split(string(block), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		lines = append(lines, strings.TrimSuffix(l, "\r"))
	}
	return lines
}
