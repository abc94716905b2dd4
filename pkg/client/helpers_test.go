package client

import (
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/forcebit/contextio-go/pkg/oauth"
)

const (
	testKey    = "ck"
	testSecret = "cs"
)

// recorded is what the test API saw for one request.
type recorded struct {
	Method    string
	Path      string
	Query     url.Values
	Header    http.Header
	Body      []byte
	Multipart *multipart.Form
	Verified  oauth.VerifyResult
	VerifyErr error
}

type apiServer struct {
	*httptest.Server

	mu    sync.Mutex
	calls []recorded
}

func (s *apiServer) requests() []recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]recorded(nil), s.calls...)
}

func (s *apiServer) last(t *testing.T) recorded {
	t.Helper()
	calls := s.requests()
	require.NotEmpty(t, calls, "server received no request")
	return calls[len(calls)-1]
}

func (s *apiServer) endpoint() string {
	u, _ := url.Parse(s.URL)
	return u.Host
}

// newAPIServer starts a server that verifies every request against creds
// before handing it to respond. A nil respond answers 200 with {"ok":true}.
func newAPIServer(t *testing.T, creds oauth.Credentials, respond http.HandlerFunc) *apiServer {
	t.Helper()
	return startServer(t, false, creds, respond)
}

func newTLSAPIServer(t *testing.T, creds oauth.Credentials, respond http.HandlerFunc) *apiServer {
	t.Helper()
	return startServer(t, true, creds, respond)
}

func startServer(t *testing.T, tls bool, creds oauth.Credentials, respond http.HandlerFunc) *apiServer {
	s := &apiServer{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		}
		rec.Verified, rec.VerifyErr = oauth.VerifyRequest(r, oauth.VerifyOptions{Credentials: creds})
		rec.Multipart = r.MultipartForm
		if rec.Multipart == nil {
			rec.Body, _ = io.ReadAll(r.Body)
		}

		s.mu.Lock()
		s.calls = append(s.calls, rec)
		s.mu.Unlock()

		if respond != nil {
			respond(w, r)
			return
		}
		writeJSON(w, http.StatusOK, `{"ok":true}`)
	})
	if tls {
		s.Server = httptest.NewTLSServer(handler)
	} else {
		s.Server = httptest.NewServer(handler)
	}
	t.Cleanup(s.Close)
	return s
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func testCreds() oauth.Credentials {
	return oauth.Credentials{ConsumerKey: testKey, ConsumerSecret: testSecret}
}

func fixedNow() time.Time { return time.Unix(1700000000, 0) }

// newTestClient returns a plain-HTTP client pointed at srv.
func newTestClient(t *testing.T, srv *apiServer, opts ...Option) *Client {
	t.Helper()
	cfg := Config{
		AccessKey: testKey,
		SecretKey: testSecret,
		UseSSL:    false,
		Endpoint:  srv.endpoint(),
	}
	c, err := New(cfg, append([]Option{WithClock(fixedNow)}, opts...)...)
	require.NoError(t, err)
	return c
}

func authParams(t *testing.T, h http.Header) map[string]string {
	t.Helper()
	set, _, err := oauth.ParseAuthorizationHeader(h.Get("Authorization"))
	require.NoError(t, err)
	out := make(map[string]string)
	for _, name := range set.Names() {
		out[name] = set.Get(name)
	}
	return out
}

func hasOAuthParam(q url.Values) bool {
	for name := range q {
		if strings.HasPrefix(name, "oauth_") {
			return true
		}
	}
	return false
}
