package params

import (
	"fmt"
	"sort"
	"strings"
)

// Pair is a percent-encoded name/value pair.
type Pair struct {
	Name  string
	Value string
}

// SortedPairs flattens s into encoded pairs, skipping file values, sorted
// by encoded name and then encoded value. The sort is stable so identical
// pairs keep their relative order.
func SortedPairs(s *Set) []Pair {
	var pairs []Pair
	s.Each(func(name string, v Value) {
		if v.IsFile() {
			return
		}
		pairs = append(pairs, Pair{Name: Encode(name), Value: Encode(v.String())})
	})
	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].Name != pairs[j].Name {
			return pairs[i].Name < pairs[j].Name
		}
		return pairs[i].Value < pairs[j].Value
	})
	return pairs
}

func joinPairs(pairs []Pair) string {
	if len(pairs) == 0 {
		return ""
	}

	size := len(pairs) - 1
	for _, p := range pairs {
		size += len(p.Name) + len(p.Value) + 1
	}

	var sb strings.Builder
	sb.Grow(size)
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(p.Name)
		sb.WriteByte('=')
		sb.WriteString(p.Value)
	}
	return sb.String()
}

// Normalize returns the normalized parameter string of RFC 5849 Section
// 3.4.1.3.2: every (name, value) pair is encoded, pairs are sorted by
// encoded name then encoded value, and joined as name=value with "&".
//
// File values are excluded. The caller is responsible for removing
// oauth_signature before normalizing.
//
// Example:
//
//	s := params.New().Add("b", "2").Add("a", "x y").Add("a", "1")
//	params.Normalize(s) // "a=1&a=x%20y&b=2"
func Normalize(s *Set) string {
	return joinPairs(SortedPairs(s))
}

// BuildQuery renders s as a query string or form body with the same
// encoding and ordering as Normalize. It is never used for signing.
func BuildQuery(s *Set) string {
	return joinPairs(SortedPairs(s))
}

// ParseQuery parses an encoded query string into a Set, keeping order and
// duplicates. A leading "?" is ignored. A name without "=" gets an empty
// value.
func ParseQuery(raw string) (*Set, error) {
	s := New()
	raw = strings.TrimPrefix(raw, "?")
	if raw == "" {
		return s, nil
	}
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		name, value, _ := strings.Cut(part, "=")
		n, err := Decode(name)
		if err != nil {
			return nil, fmt.Errorf("invalid parameter name %q: %w", name, err)
		}
		v, err := Decode(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for parameter %q: %w", n, err)
		}
		s.Add(n, v)
	}
	return s, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
