package oauth

import (
	"errors"
	"net/url"
	"strings"

	"github.com/forcebit/contextio-go/pkg/apierr"
	"github.com/forcebit/contextio-go/pkg/params"
)

// Version is the value sent as oauth_version.
const Version = "1.0"

// Protocol parameter names.
const (
	ParamConsumerKey     = "oauth_consumer_key"
	ParamToken           = "oauth_token"
	ParamSignatureMethod = "oauth_signature_method"
	ParamTimestamp       = "oauth_timestamp"
	ParamNonce           = "oauth_nonce"
	ParamVersion         = "oauth_version"
	ParamSignature       = "oauth_signature"
)

var (
	// ErrAlreadySigned is returned when Sign is called on a signed request.
	// Re-signing needs a fresh Request so the nonce and timestamp are new.
	ErrAlreadySigned = errors.New("oauth: request already signed")

	// ErrNotSigned is returned by the renderers before Sign succeeds.
	ErrNotSigned = errors.New("oauth: request not signed")
)

// Token is an access token and its secret.
type Token struct {
	Key    string
	Secret string
}

// Credentials identify the consumer and, for three-legged OAuth, the user
// token. A nil Token means two-legged OAuth: oauth_token is omitted and
// the token secret is empty.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	Token          *Token
}

func (c Credentials) tokenSecret() string {
	if c.Token == nil {
		return ""
	}
	return c.Token.Secret
}

// Request is a single-use OAuth 1.0a request. It moves from unsigned to
// signed once, through Sign, and is read-only afterwards.
//
// A Request is not safe for concurrent use.
type Request struct {
	method  string
	baseURL string
	caller  *params.Set
	oauth   *params.Set
	creds   Credentials
	realm   string
	signed  bool
}

// NewRequest builds an unsigned request.
//
// rawURL must be an absolute http or https URL. Its query parameters are
// lifted into the parameter set ahead of set's own parameters and take
// part in the signature. set may be nil and is not modified.
//
// Error Conditions:
//   - method is empty (InvalidArgument)
//   - rawURL is malformed, relative, or not http/https (InvalidArgument)
//   - set or the URL query uses a name starting with "oauth_" (InvalidArgument)
//   - creds.ConsumerKey is empty (ConfigurationError)
func NewRequest(method, rawURL string, set *params.Set, creds Credentials) (*Request, error) {
	const op = "oauth"

	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return nil, apierr.Invalid(op, "HTTP method is required")
	}
	if creds.ConsumerKey == "" {
		return nil, apierr.Config(op, "consumer key is required")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &apierr.Error{Kind: apierr.InvalidArgument, Op: op, Message: "invalid URL", Cause: err}
	}
	baseURL, err := normalizeURL(u)
	if err != nil {
		return nil, err
	}

	caller, err := params.ParseQuery(u.RawQuery)
	if err != nil {
		return nil, &apierr.Error{Kind: apierr.InvalidArgument, Op: op, Message: "invalid URL query", Cause: err}
	}
	caller.Merge(set)

	if reserved := caller.ReservedNames(); len(reserved) > 0 {
		return nil, apierr.Invalid(op, "parameter %q uses the reserved oauth_ prefix", reserved[0])
	}

	return &Request{
		method:  method,
		baseURL: baseURL,
		caller:  caller,
		oauth:   params.New(),
		creds:   creds,
	}, nil
}

// normalizeURL renders the base string URI of RFC 5849 Section 3.4.1.2:
// scheme and host lowercased, default port dropped, query and fragment
// removed. An empty path becomes "/".
func normalizeURL(u *url.URL) (string, error) {
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", apierr.Invalid("oauth", "URL must be absolute http or https, got %q", u.String())
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", apierr.Invalid("oauth", "URL has no host: %q", u.String())
	}

	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}

	var sb strings.Builder
	sb.Grow(len(scheme) + len(host) + len(port) + len(path) + 5)
	sb.WriteString(scheme)
	sb.WriteString("://")
	if strings.Contains(host, ":") {
		// IPv6 literal
		sb.WriteByte('[')
		sb.WriteString(host)
		sb.WriteByte(']')
	} else {
		sb.WriteString(host)
	}
	if port != "" {
		sb.WriteByte(':')
		sb.WriteString(port)
	}
	sb.WriteString(path)
	return sb.String(), nil
}

// Method returns the uppercased HTTP method.
func (r *Request) Method() string {
	return r.method
}

// BaseURL returns the normalized URL without query or fragment.
func (r *Request) BaseURL() string {
	return r.baseURL
}

// Signed reports whether Sign has completed.
func (r *Request) Signed() bool {
	return r.signed
}

// Realm returns the realm set at signing time.
func (r *Request) Realm() string {
	return r.realm
}

// Parameters returns a copy of every parameter: caller parameters first,
// then the protocol parameters.
func (r *Request) Parameters() *params.Set {
	return r.caller.Clone().Merge(r.oauth)
}

// CallerParameters returns a copy of the URL query and caller parameters.
func (r *Request) CallerParameters() *params.Set {
	return r.caller.Clone()
}

// OAuthParameters returns a copy of the injected oauth_* parameters. It is
// empty before signing.
func (r *Request) OAuthParameters() *params.Set {
	return r.oauth.Clone()
}

// BaseString returns the signature base string of RFC 5849 Section 3.4.1:
//
//	METHOD & Encode(BaseURL) & Encode(Normalize(parameters))
//
// oauth_signature and file values never take part. Before signing it
// covers only the caller parameters.
func (r *Request) BaseString() string {
	return baseString(r.method, r.baseURL, r.caller, r.oauth)
}

func baseString(method, baseURL string, sets ...*params.Set) string {
	all := params.New()
	for _, s := range sets {
		all.Merge(s)
	}
	all.Del(ParamSignature)

	normalized := params.Normalize(all)
	encURL := params.Encode(baseURL)
	encParams := params.Encode(normalized)

	var sb strings.Builder
	sb.Grow(len(method) + len(encURL) + len(encParams) + 2)
	sb.WriteString(method)
	sb.WriteByte('&')
	sb.WriteString(encURL)
	sb.WriteByte('&')
	sb.WriteString(encParams)
	return sb.String()
}
