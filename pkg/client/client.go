// Package client dispatches OAuth 1.0a signed calls to the Context.IO REST
// API and wraps every HTTP response in a response.Envelope.
//
// A Client is safe for concurrent use. The runtime setters (SetSSL,
// SetAPIVersion, UseAuthorizationHeaders, SaveHeaders) take a write lock;
// each call snapshots the settings once, so a change never affects a call
// that is already in flight.
package client

import (
	"crypto/tls"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	contextiogo "github.com/forcebit/contextio-go"
	"github.com/forcebit/contextio-go/pkg/apierr"
	"github.com/forcebit/contextio-go/pkg/oauth"
	"github.com/forcebit/contextio-go/pkg/signing"
)

const (
	DefaultEndpoint   = "api.context.io"
	DefaultAPIVersion = "2.0"
	DefaultTimeout    = 60 * time.Second
)

// SupportedAPIVersions lists the API versions SetAPIVersion accepts.
var SupportedAPIVersions = []string{"2.0"}

// Config is the connection surface of a Client.
type Config struct {
	// AccessKey and SecretKey are the OAuth consumer key and secret. For
	// RSA-SHA1, SecretKey holds the PEM-encoded private key.
	AccessKey string
	SecretKey string

	UseSSL     bool
	Endpoint   string
	APIVersion string
}

// DefaultConfig returns a Config for the public API over HTTPS.
func DefaultConfig(accessKey, secretKey string) Config {
	return Config{
		AccessKey:  accessKey,
		SecretKey:  secretKey,
		UseSSL:     true,
		Endpoint:   DefaultEndpoint,
		APIVersion: DefaultAPIVersion,
	}
}

// Client is a Context.IO API client.
type Client struct {
	httpClient *http.Client
	log        zerolog.Logger
	creds      oauth.Credentials
	endpoint   string
	userAgent  string
	method     signing.Method
	now        func() time.Time
	noncer     oauth.Noncer

	mu       sync.RWMutex
	settings settings
}

// settings is the mutable part of a Client. Calls work on a copy.
type settings struct {
	useSSL      bool
	apiVersion  string
	authHeaders bool
	saveHeaders bool
}

func (s settings) baseURL(endpoint string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return scheme + "://" + endpoint + "/" + s.apiVersion + "/"
}

// New creates a Client.
//
// Error Conditions:
//   - AccessKey or SecretKey is empty (ConfigurationError)
//   - APIVersion is not supported (ConfigurationError)
//   - the signature method named by WithSignatureMethod is unknown (ConfigurationError)
func New(cfg Config, opts ...Option) (*Client, error) {
	const op = "client"

	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, apierr.Config(op, "access key and secret key are required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if !supportedVersion(cfg.APIVersion) {
		return nil, apierr.Config(op, "unsupported API version %q", cfg.APIVersion)
	}

	o := options{
		log:         zerolog.Nop(),
		authHeaders: true,
		userAgent:   contextiogo.UserAgent,
		methodName:  signing.HMACSHA1,
		timeout:     DefaultTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}

	method, err := signing.Get(o.methodName)
	if err != nil {
		return nil, err
	}

	creds := oauth.Credentials{ConsumerKey: cfg.AccessKey, ConsumerSecret: cfg.SecretKey}
	if o.token != nil {
		tok := *o.token
		creds.Token = &tok
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = buildHTTPClient(o.insecure, o.timeout)
	} else if o.insecure {
		o.log.Warn().Msg("insecure TLS option ignored: a custom HTTP client was supplied")
	}
	if o.insecure {
		o.log.Warn().Msg("TLS certificate verification is disabled")
	}

	return &Client{
		httpClient: httpClient,
		log:        o.log,
		creds:      creds,
		endpoint:   cfg.Endpoint,
		userAgent:  o.userAgent,
		method:     method,
		now:        o.now,
		noncer:     o.noncer,
		settings: settings{
			useSSL:      cfg.UseSSL,
			apiVersion:  cfg.APIVersion,
			authHeaders: o.authHeaders,
			saveHeaders: o.saveHeaders,
		},
	}, nil
}

func buildHTTPClient(insecure bool, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if insecure {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, //nolint:gosec // explicit opt-in
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

func supportedVersion(v string) bool {
	for _, s := range SupportedAPIVersions {
		if s == v {
			return true
		}
	}
	return false
}

// SetSSL switches between https and http for subsequent calls.
func (c *Client) SetSSL(on bool) {
	c.mu.Lock()
	c.settings.useSSL = on
	c.mu.Unlock()
}

// SetAPIVersion changes the API version for subsequent calls. Unsupported
// versions are rejected and the current version is kept.
func (c *Client) SetAPIVersion(v string) error {
	if !supportedVersion(v) {
		return apierr.Config("client", "unsupported API version %q", v)
	}
	c.mu.Lock()
	c.settings.apiVersion = v
	c.mu.Unlock()
	return nil
}

// UseAuthorizationHeaders selects header authentication (true) or query
// authentication (false) for subsequent calls.
func (c *Client) UseAuthorizationHeaders(on bool) {
	c.mu.Lock()
	c.settings.authHeaders = on
	c.mu.Unlock()
}

// SaveHeaders enables capture of request and response header blocks on
// the envelopes of subsequent calls.
func (c *Client) SaveHeaders(on bool) {
	c.mu.Lock()
	c.settings.saveHeaders = on
	c.mu.Unlock()
}

// BaseURL returns the current API root, e.g. "https://api.context.io/2.0/".
func (c *Client) BaseURL() string {
	return c.snapshot().baseURL(c.endpoint)
}

// SignatureMethod returns the name of the configured signature method.
func (c *Client) SignatureMethod() string {
	return c.method.Name()
}

func (c *Client) snapshot() settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.settings
}
