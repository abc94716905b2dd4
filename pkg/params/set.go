package params

import (
	"strings"
)

// ReservedPrefix is the parameter-name prefix owned by the signing step.
const ReservedPrefix = "oauth_"

// ValueKind discriminates Value variants.
type ValueKind int

const (
	// KindInline is an ordinary string value.
	KindInline ValueKind = iota
	// KindFile is a file whose contents are uploaded as the field body.
	KindFile
)

// Value is a single parameter value: either an inline string or a file
// upload reference. File values never take part in signing or query
// strings; the dispatcher resolves them into multipart parts.
type Value struct {
	kind ValueKind
	text string
}

// Inline returns an inline string value.
func Inline(s string) Value {
	return Value{kind: KindInline, text: s}
}

// File returns a file-upload value for path.
func File(path string) Value {
	return Value{kind: KindFile, text: path}
}

// ParseLegacy maps the "@/path/to/file" convention onto File and anything
// else onto Inline.
func ParseLegacy(s string) Value {
	if len(s) > 1 && s[0] == '@' {
		return File(s[1:])
	}
	return Inline(s)
}

// Kind returns the variant.
func (v Value) Kind() ValueKind { return v.kind }

// IsFile reports whether v is a file upload.
func (v Value) IsFile() bool { return v.kind == KindFile }

// String returns the inline text, or the path for a file value.
func (v Value) String() string { return v.text }

// Path returns the file path and true for file values.
func (v Value) Path() (string, bool) {
	if v.kind != KindFile {
		return "", false
	}
	return v.text, true
}

type entry struct {
	name   string
	values []Value
}

// Set is an insertion-ordered mapping from parameter name to one or more
// values. Duplicate names are legal in OAuth 1.0a and are kept.
//
// The zero value is an empty set ready to use. A Set is not safe for
// concurrent mutation.
type Set struct {
	entries []entry
	index   map[string]int
}

// New returns an empty Set.
func New() *Set {
	return &Set{}
}

// FromMap builds a Set from a map of inline values. Map iteration order is
// random, so names are inserted in sorted order to keep the result
// deterministic.
func FromMap(m map[string]string) *Set {
	s := New()
	for _, name := range sortedKeys(m) {
		s.Add(name, m[name])
	}
	return s
}

// Add appends an inline value for name.
func (s *Set) Add(name, value string) *Set {
	return s.AddValue(name, Inline(value))
}

// AddFile appends a file-upload value for name.
func (s *Set) AddFile(name, path string) *Set {
	return s.AddValue(name, File(path))
}

// AddValue appends v for name.
func (s *Set) AddValue(name string, v Value) *Set {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[name]; ok {
		s.entries[i].values = append(s.entries[i].values, v)
		return s
	}
	s.index[name] = len(s.entries)
	s.entries = append(s.entries, entry{name: name, values: []Value{v}})
	return s
}

// Set replaces every value of name with a single inline value, keeping the
// name's original position.
func (s *Set) Set(name, value string) *Set {
	if i, ok := s.lookup(name); ok {
		s.entries[i].values = []Value{Inline(value)}
		return s
	}
	return s.Add(name, value)
}

// Del removes name.
func (s *Set) Del(name string) {
	i, ok := s.lookup(name)
	if !ok {
		return
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	delete(s.index, name)
	for j := i; j < len(s.entries); j++ {
		s.index[s.entries[j].name] = j
	}
}

// Get returns the first value of name as a string.
func (s *Set) Get(name string) string {
	if i, ok := s.lookup(name); ok {
		return s.entries[i].values[0].String()
	}
	return ""
}

// Has reports whether name is present.
func (s *Set) Has(name string) bool {
	_, ok := s.lookup(name)
	return ok
}

// Values returns every value of name in insertion order.
func (s *Set) Values(name string) []Value {
	if i, ok := s.lookup(name); ok {
		out := make([]Value, len(s.entries[i].values))
		copy(out, s.entries[i].values)
		return out
	}
	return nil
}

// Names returns parameter names in first-insertion order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.entries))
	for i, e := range s.entries {
		names[i] = e.name
	}
	return names
}

// Len returns the number of distinct names.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// HasFiles reports whether any value is a file upload.
func (s *Set) HasFiles() bool {
	if s == nil {
		return false
	}
	for _, e := range s.entries {
		for _, v := range e.values {
			if v.IsFile() {
				return true
			}
		}
	}
	return false
}

// Each calls fn for every (name, value) pair in insertion order.
func (s *Set) Each(fn func(name string, v Value)) {
	if s == nil {
		return
	}
	for _, e := range s.entries {
		for _, v := range e.values {
			fn(e.name, v)
		}
	}
}

// Clone returns a deep copy. Cloning a nil Set yields an empty Set.
func (s *Set) Clone() *Set {
	out := New()
	s.Each(func(name string, v Value) {
		out.AddValue(name, v)
	})
	return out
}

// Merge appends every pair of other to s.
func (s *Set) Merge(other *Set) *Set {
	other.Each(func(name string, v Value) {
		s.AddValue(name, v)
	})
	return s
}

// Filter returns a new Set holding the pairs for which keep returns true.
func (s *Set) Filter(keep func(name string, v Value) bool) *Set {
	out := New()
	s.Each(func(name string, v Value) {
		if keep(name, v) {
			out.AddValue(name, v)
		}
	})
	return out
}

// ReservedNames returns the names that start with ReservedPrefix.
func (s *Set) ReservedNames() []string {
	var out []string
	for _, name := range s.Names() {
		if strings.HasPrefix(name, ReservedPrefix) {
			out = append(out, name)
		}
	}
	return out
}

func (s *Set) lookup(name string) (int, bool) {
	if s == nil || s.index == nil {
		return 0, false
	}
	i, ok := s.index[name]
	return i, ok
}
