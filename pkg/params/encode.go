// Package params implements the OAuth 1.0a parameter codec: RFC 3986
// percent-encoding, an ordered multi-value parameter set, and the
// normalized parameter string used in signature base strings.
//
// The encoding is deliberately not net/url's: url.QueryEscape turns a space
// into "+" and url.PathEscape leaves sub-delims such as "!" and "*" alone,
// either of which produces signatures a server will reject.
package params

import (
	"fmt"
	"strings"
)

const upperhex = "0123456789ABCDEF"

// Encode percent-encodes s per RFC 5849 Section 3.6. Every octet outside
// the unreserved set (ALPHA, DIGIT, "-", ".", "_", "~") is written as %XX
// with uppercase hex digits. Multibyte UTF-8 sequences are encoded octet
// by octet.
func Encode(s string) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if shouldEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if shouldEscape(c) {
			sb.WriteByte('%')
			sb.WriteByte(upperhex[c>>4])
			sb.WriteByte(upperhex[c&0x0F])
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// Decode reverses Encode. Unlike url.QueryUnescape, "+" is kept as a
// literal plus sign. Hex digits are accepted in either case.
func Decode(s string) (string, error) {
	if !strings.Contains(s, "%") {
		return s, nil
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			sb.WriteByte(s[i])
			continue
		}
		if i+2 >= len(s) {
			return "", fmt.Errorf("truncated escape at offset %d in %q", i, s)
		}
		hi, ok1 := unhex(s[i+1])
		lo, ok2 := unhex(s[i+2])
		if !ok1 || !ok2 {
			return "", fmt.Errorf("invalid escape %q at offset %d", s[i:i+3], i)
		}
		sb.WriteByte(hi<<4 | lo)
		i += 2
	}
	return sb.String(), nil
}

// shouldEscape reports whether c is outside the RFC 3986 unreserved set.
func shouldEscape(c byte) bool {
	if 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z' || '0' <= c && c <= '9' {
		return false
	}
	switch c {
	case '-', '.', '_', '~':
		return false
	}
	return true
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
