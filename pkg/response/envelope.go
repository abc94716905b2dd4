// Package response wraps raw HTTP responses in an Envelope that classifies
// them, decodes JSON bodies and parses captured header blocks.
//
// Construction never fails: a response the API rejected, or one whose body
// does not decode, is represented on the Envelope rather than returned as
// an error.
package response

import (
	"encoding/json"
	"math/big"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/forcebit/contextio-go/pkg/apierr"
)

// JSONContentType is the only content type treated as a successful body.
const JSONContentType = "application/json"

// Raw is what the transport observed.
type Raw struct {
	StatusCode  int
	ContentType string
	Body        []byte
	// Header lines are nil unless header capture was enabled.
	RequestHeaderLines  []string
	ResponseHeaderLines []string
}

// Envelope is a classified response. It is read-only after New.
type Envelope struct {
	raw          Raw
	hasError     bool
	decodeFailed bool
	result       gjson.Result
	data         any
	reqHeaders   *Headers
	respHeaders  *Headers
}

// New classifies raw and, when it is not an error, decodes the body.
//
// The response is an error when the status is outside [200, 400) or the
// content type is not exactly "application/json". A successful response
// whose body is not valid JSON has nil Data and DecodeFailed reports
// true; the decode error itself is intentionally not surfaced.
func New(raw Raw) *Envelope {
	e := &Envelope{
		raw:         raw,
		reqHeaders:  ParseHeaders(raw.RequestHeaderLines, RequestLine),
		respHeaders: ParseHeaders(raw.ResponseHeaderLines, StatusLine),
	}

	if raw.StatusCode < 200 || raw.StatusCode >= 400 || raw.ContentType != JSONContentType {
		e.hasError = true
		return e
	}

	if !gjson.ValidBytes(raw.Body) {
		e.decodeFailed = true
		return e
	}
	e.result = gjson.ParseBytes(raw.Body)
	e.data = decodeValue(e.result)
	return e
}

// decodeValue converts r to plain Go values like Result.Value, except that
// integral numbers become int64, or *big.Int beyond the int64 range, so
// ids above 2^53 keep every digit. Other numbers are float64.
func decodeValue(r gjson.Result) any {
	switch {
	case r.IsObject():
		m := make(map[string]any)
		r.ForEach(func(key, value gjson.Result) bool {
			m[key.String()] = decodeValue(value)
			return true
		})
		return m
	case r.IsArray():
		items := r.Array()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = decodeValue(item)
		}
		return out
	case r.Type == gjson.Number:
		return decodeNumber(r)
	default:
		return r.Value()
	}
}

func decodeNumber(r gjson.Result) any {
	raw := r.Raw
	if strings.ContainsAny(raw, ".eE") {
		return r.Num
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if n, ok := new(big.Int).SetString(raw, 10); ok {
		return n
	}
	return r.Num
}

// HasError reports whether the response was classified as a failure.
func (e *Envelope) HasError() bool { return e.hasError }

// DecodeFailed reports whether a successful response carried a body that
// was not valid JSON.
func (e *Envelope) DecodeFailed() bool { return e.decodeFailed }

// StatusCode returns the HTTP status of the response.
func (e *Envelope) StatusCode() int { return e.raw.StatusCode }

// ContentType returns the media type the server declared.
func (e *Envelope) ContentType() string { return e.raw.ContentType }

// Body returns the raw body bytes. The slice must not be modified.
func (e *Envelope) Body() []byte { return e.raw.Body }

// Raw returns the underlying response.
func (e *Envelope) Raw() Raw { return e.raw }

// Data returns the decoded body: map[string]any, []any, string, float64,
// bool or nil. It is nil for error responses and undecodable bodies.
func (e *Envelope) Data() any { return e.data }

// RequestHeaders returns the parsed outgoing header block, or nil when
// headers were not captured.
func (e *Envelope) RequestHeaders() *Headers { return e.reqHeaders }

// ResponseHeaders returns the parsed incoming header block, or nil when
// headers were not captured.
func (e *Envelope) ResponseHeaders() *Headers { return e.respHeaders }

// DataProperty walks the decoded body along a dotted path such as
// "addresses.to.0.email". A segment that is a canonical integer indexes
// an array; any other segment, or an integer applied to an object, is
// an object key. It returns nil as soon as a segment does not resolve
// and never panics.
func (e *Envelope) DataProperty(path string) any {
	if !e.result.Exists() {
		return nil
	}
	cur := e.result
	for _, seg := range strings.Split(path, ".") {
		next, ok := step(cur, seg)
		if !ok {
			return nil
		}
		cur = next
	}
	return decodeValue(cur)
}

func step(cur gjson.Result, seg string) (gjson.Result, bool) {
	switch {
	case cur.IsArray():
		i, err := strconv.Atoi(seg)
		if err != nil || strconv.Itoa(i) != seg || i < 0 {
			return gjson.Result{}, false
		}
		items := cur.Array()
		if i >= len(items) {
			return gjson.Result{}, false
		}
		return items[i], true
	case cur.IsObject():
		var found gjson.Result
		var ok bool
		cur.ForEach(func(key, value gjson.Result) bool {
			if key.String() == seg {
				found, ok = value, true
				return false
			}
			return true
		})
		return found, ok
	default:
		return gjson.Result{}, false
	}
}

// Lookup evaluates a gjson path against the body, e.g. "messages.#.subject".
// The result does not exist for error responses.
func (e *Envelope) Lookup(path string) gjson.Result {
	if !e.result.Exists() {
		return gjson.Result{}
	}
	return e.result.Get(path)
}

// Unmarshal decodes the body into v. Error responses yield a ProtocolError.
func (e *Envelope) Unmarshal(v any) error {
	if e.hasError {
		return e.Err("decode")
	}
	if e.decodeFailed {
		return apierr.Invalid("decode", "response body is not valid JSON")
	}
	return json.Unmarshal(e.raw.Body, v)
}

// Err returns a ProtocolError describing an error response, or nil.
func (e *Envelope) Err(op string) error {
	if !e.hasError {
		return nil
	}
	err := apierr.Protocol(op, e.raw.StatusCode, e.raw.ContentType)
	if msg := e.errorMessage(); msg != "" {
		err.Message += ": " + msg
	}
	return err
}

// errorMessage extracts a human readable message from a JSON error body.
// The body is not decoded into Data for error responses, so it is read
// directly here.
func (e *Envelope) errorMessage() string {
	if !gjson.ValidBytes(e.raw.Body) {
		return ""
	}
	for _, path := range []string{"value", "message", "error", "type"} {
		if r := gjson.GetBytes(e.raw.Body, path); r.Type == gjson.String && r.Str != "" {
			return r.Str
		}
	}
	return ""
}
