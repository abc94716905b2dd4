package client

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/forcebit/contextio-go/pkg/oauth"
)

type options struct {
	httpClient  *http.Client
	log         zerolog.Logger
	authHeaders bool
	insecure    bool
	saveHeaders bool
	userAgent   string
	methodName  string
	token       *oauth.Token
	now         func() time.Time
	noncer      oauth.Noncer
	timeout     time.Duration
}

// Option configures a Client.
type Option func(*options)

// WithHTTPClient replaces the HTTP client. WithInsecureSkipVerify and
// WithTimeout do not apply to a supplied client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithAuthorizationHeaders selects header (true, the default) or query
// authentication.
func WithAuthorizationHeaders(on bool) Option {
	return func(o *options) { o.authHeaders = on }
}

// WithInsecureSkipVerify disables TLS certificate verification.
func WithInsecureSkipVerify(on bool) Option {
	return func(o *options) { o.insecure = on }
}

// WithSaveHeaders enables header capture from the first call.
func WithSaveHeaders(on bool) Option {
	return func(o *options) { o.saveHeaders = on }
}

// WithUserAgent replaces the User-Agent header. An empty string keeps the
// default.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithSignatureMethod selects the OAuth signature method by name.
func WithSignatureMethod(name string) Option {
	return func(o *options) { o.methodName = name }
}

// WithToken switches to three-legged OAuth with the given access token.
func WithToken(t oauth.Token) Option {
	return func(o *options) { o.token = &t }
}

// WithClock overrides the clock used for oauth_timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithNoncer overrides the nonce source.
func WithNoncer(n oauth.Noncer) Option {
	return func(o *options) { o.noncer = n }
}

// WithTimeout sets the overall request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}
