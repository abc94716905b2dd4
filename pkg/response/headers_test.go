package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaders_Folding(t *testing.T) {
	h := ParseHeaders([]string{"HTTP/1.1 200 OK", "X-Foo: bar", " continued", "X-Foo: baz"}, StatusLine)
	require.NotNil(t, h)

	assert.Equal(t, "HTTP/1.1 200 OK", h.Get(StatusLine))
	assert.Equal(t, []string{"bar\ncontinued", "baz"}, h.Values("X-Foo"))
	assert.True(t, h.IsMulti("X-Foo"))
	assert.Equal(t, []string{StatusLine, "X-Foo"}, h.Names())
}

func TestParseHeaders_FoldOntoLastOccurrence(t *testing.T) {
	h := ParseHeaders([]string{
		"HTTP/1.1 200 OK",
		"Set-Cookie: a=1",
		"Set-Cookie: b=2",
		"\tpath=/",
		"  secure",
	}, StatusLine)

	assert.Equal(t, []string{"a=1", "b=2\npath=/\nsecure"}, h.Values("Set-Cookie"))
	assert.Equal(t, "b=2\npath=/\nsecure", h.Get("Set-Cookie"))
}

func TestParseHeaders_Lines(t *testing.T) {
	h := ParseHeaders([]string{
		"  GET /2.0/accounts HTTP/1.1  ",
		"Host: api.context.io",
		"Authorization:  OAuth oauth_consumer_key=\"ck\"  ",
		"X-Time: 12:30:00",
		"garbage without colon",
		"",
		"x-case: lower",
		"X-Case: upper",
	}, RequestLine)

	assert.Equal(t, "GET /2.0/accounts HTTP/1.1", h.Get(RequestLine))
	assert.Equal(t, `OAuth oauth_consumer_key="ck"`, h.Get("Authorization"))
	assert.Equal(t, "12:30:00", h.Get("X-Time"), "split on the first colon only")
	assert.False(t, h.Has("garbage without colon"))
	assert.Equal(t, "lower", h.Get("x-case"), "names are case-sensitive")
	assert.Equal(t, "upper", h.Get("X-Case"))
	assert.False(t, h.IsMulti("X-Case"))
}

func TestParseHeaders_LeadingContinuationIgnored(t *testing.T) {
	h := ParseHeaders([]string{"HTTP/1.1 204 No Content", " orphan", "A: b"}, StatusLine)
	assert.Equal(t, []string{StatusLine, "A"}, h.Names())
	assert.Equal(t, "HTTP/1.1 204 No Content", h.Get(StatusLine))
}

func TestParseHeaders_Empty(t *testing.T) {
	assert.Nil(t, ParseHeaders(nil, StatusLine))
	assert.Nil(t, ParseHeaders([]string{}, StatusLine))

	var h *Headers
	assert.Nil(t, h.Values("a"))
	assert.Nil(t, h.Names())
	assert.Nil(t, h.Map())
	assert.False(t, h.IsMulti("a"))
}

func TestHeaders_Map(t *testing.T) {
	h := ParseHeaders([]string{"HTTP/1.1 200 OK", "A: 1", "B: 2", "B: 3"}, StatusLine)
	assert.Equal(t, map[string]any{
		StatusLine: "HTTP/1.1 200 OK",
		"A":        "1",
		"B":        []string{"2", "3"},
	}, h.Map())
}

func TestHeaders_ValuesIsCopy(t *testing.T) {
	h := ParseHeaders([]string{"HTTP/1.1 200 OK", "A: 1"}, StatusLine)
	vs := h.Values("A")
	vs[0] = "changed"
	assert.Equal(t, "1", h.Get("A"))
}

func TestSplitHeaderBlock(t *testing.T) {
	block := []byte("HTTP/1.1 200 OK\r\nContent-Type: application/json\r\nX-Foo: bar\r\n\r\n")
	assert.Equal(t, []string{"HTTP/1.1 200 OK", "Content-Type: application/json", "X-Foo: bar"}, SplitHeaderBlock(block))
	assert.Nil(t, SplitHeaderBlock([]byte("\r\n")))
	assert.Nil(t, SplitHeaderBlock(nil))
}
