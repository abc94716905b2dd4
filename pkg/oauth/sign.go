package oauth

import (
	"strconv"
	"time"

	"github.com/forcebit/contextio-go/pkg/apierr"
	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/signing"
)

type signConfig struct {
	now    func() time.Time
	nonce  string
	noncer Noncer
	realm  string
}

// SignOption configures a single Sign call.
type SignOption func(*signConfig)

// WithClock overrides the clock used for oauth_timestamp.
func WithClock(now func() time.Time) SignOption {
	return func(c *signConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithNonce fixes oauth_nonce. Only tests and replays of recorded
// requests should need it.
func WithNonce(nonce string) SignOption {
	return func(c *signConfig) {
		c.nonce = nonce
	}
}

// WithNoncer sets the nonce source.
func WithNoncer(n Noncer) SignOption {
	return func(c *signConfig) {
		if n != nil {
			c.noncer = n
		}
	}
}

// WithRealm adds a realm to the Authorization header. The realm is never
// part of the signature base string.
func WithRealm(realm string) SignOption {
	return func(c *signConfig) {
		c.realm = realm
	}
}

// Sign injects the protocol parameters, computes the signature with m and
// moves the request to the signed state.
//
// Injected parameters: oauth_consumer_key, oauth_token (when a token is
// present), oauth_signature_method, oauth_timestamp, oauth_nonce,
// oauth_version and finally oauth_signature.
//
// If m fails the request stays unsigned and unchanged.
func (r *Request) Sign(m signing.Method, opts ...SignOption) error {
	if r.signed {
		return ErrAlreadySigned
	}
	if m == nil {
		return apierr.Config("oauth", "signature method is required")
	}

	cfg := signConfig{now: time.Now, noncer: DefaultNoncer}
	for _, opt := range opts {
		opt(&cfg)
	}

	nonce := cfg.nonce
	if nonce == "" {
		nonce = cfg.noncer.Nonce()
	}

	proto := params.New().
		Add(ParamConsumerKey, r.creds.ConsumerKey).
		Add(ParamNonce, nonce).
		Add(ParamSignatureMethod, m.Name()).
		Add(ParamTimestamp, strconv.FormatInt(cfg.now().Unix(), 10))
	if r.creds.Token != nil {
		proto.Add(ParamToken, r.creds.Token.Key)
	}
	proto.Add(ParamVersion, Version)

	base := baseString(r.method, r.baseURL, r.caller, proto)
	sig, err := m.Sign(base, r.creds.ConsumerSecret, r.creds.tokenSecret())
	if err != nil {
		return err
	}
	proto.Add(ParamSignature, sig)

	r.oauth = proto
	r.realm = cfg.realm
	r.signed = true
	return nil
}
