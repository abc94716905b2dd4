package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/forcebit/contextio-go/pkg/apierr"
	"github.com/forcebit/contextio-go/pkg/oauth"
	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/response"
)

// Call is one API call.
type Call struct {
	// Method is GET, POST, PUT or DELETE.
	Method string
	// Account scopes the call to accounts/{Account}/. Empty means unscoped.
	Account string
	// Path is relative to the API root or the account, e.g. "messages".
	// It may carry a query string, which is signed.
	Path string
	// Params may be nil. File values are only allowed on POST.
	Params *params.Set
}

// Get performs a GET call.
func (c *Client) Get(ctx context.Context, account, path string, set *params.Set) (*response.Envelope, error) {
	return c.Execute(ctx, Call{Method: http.MethodGet, Account: account, Path: path, Params: set})
}

// Post performs a POST call with set as the form body.
func (c *Client) Post(ctx context.Context, account, path string, set *params.Set) (*response.Envelope, error) {
	return c.Execute(ctx, Call{Method: http.MethodPost, Account: account, Path: path, Params: set})
}

// Put performs a PUT call with set appended to the path as a query.
func (c *Client) Put(ctx context.Context, account, path string, set *params.Set) (*response.Envelope, error) {
	return c.Execute(ctx, Call{Method: http.MethodPut, Account: account, Path: path, Params: set})
}

// Delete performs a DELETE call.
func (c *Client) Delete(ctx context.Context, account, path string, set *params.Set) (*response.Envelope, error) {
	return c.Execute(ctx, Call{Method: http.MethodDelete, Account: account, Path: path, Params: set})
}

// Execute signs and sends call.
//
// Every HTTP response yields an envelope and a nil error, including
// responses the API rejected: branch on env.HasError() or use
// ExpectSuccess. A non-nil error means no response was obtained:
//   - InvalidArgument: bad call shape or unreadable upload, nothing was sent
//   - ConfigurationError: signing failed
//   - TransportError: network, TLS or body read failure
func (c *Client) Execute(ctx context.Context, call Call) (*response.Envelope, error) {
	s := c.snapshot()

	httpReq, err := c.build(ctx, call, s)
	if err != nil {
		return nil, err
	}
	return c.send(httpReq, s)
}

// ExpectSuccess converts an error envelope into a ProtocolError.
func ExpectSuccess(env *response.Envelope, err error) (*response.Envelope, error) {
	if err != nil {
		return nil, err
	}
	if env.HasError() {
		return env, env.Err("request")
	}
	return env, nil
}

// ComposePath returns the path of a call relative to the API root. An
// account scope becomes "accounts/{account}/{path}" with one trailing
// slash removed.
func ComposePath(account, path string) string {
	if account == "" {
		return path
	}
	p := "accounts/" + account + "/" + path
	return strings.TrimSuffix(p, "/")
}

func (c *Client) build(ctx context.Context, call Call, s settings) (*http.Request, error) {
	const op = "client"

	method := strings.ToUpper(call.Method)
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, apierr.Invalid(op, "unsupported HTTP method %q", call.Method)
	}
	if strings.HasPrefix(call.Path, "/") {
		return nil, apierr.Invalid(op, "path %q must be relative", call.Path)
	}

	var uploads []upload
	if call.Params.HasFiles() {
		if method != http.MethodPost {
			return nil, apierr.Invalid(op, "file parameters are only allowed on POST")
		}
		var err error
		if uploads, err = loadUploads(call.Params); err != nil {
			return nil, err
		}
	}
	inline := call.Params.Filter(func(_ string, v params.Value) bool { return !v.IsFile() })

	rawURL := s.baseURL(c.endpoint) + ComposePath(call.Account, call.Path)
	signSet := inline
	if method == http.MethodPut && inline.Len() > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		rawURL += sep + params.BuildQuery(inline)
		signSet = nil
	}

	req, err := oauth.NewRequest(method, rawURL, signSet, c.creds)
	if err != nil {
		return nil, err
	}
	if err := req.Sign(c.method, c.signOptions()...); err != nil {
		return nil, err
	}

	var (
		target      string
		body        io.Reader
		contentType string
	)
	switch {
	case method != http.MethodPost && s.authHeaders:
		target = req.ResourceURL()
	case method != http.MethodPost:
		target, _ = req.URL()
	default:
		// POST: caller parameters travel in the body, so only a query carried
		// by the path and, in query mode, the protocol parameters go on the URL.
		var query []string
		if _, q, ok := strings.Cut(rawURL, "?"); ok && q != "" {
			query = append(query, q)
		}
		if !s.authHeaders {
			query = append(query, params.BuildQuery(req.OAuthParameters()))
		}
		target = req.BaseURL()
		if len(query) > 0 {
			target += "?" + strings.Join(query, "&")
		}
		if len(uploads) > 0 {
			body, contentType, err = multipartBody(inline, uploads)
			if err != nil {
				return nil, err
			}
		} else if inline.Len() > 0 {
			body = strings.NewReader(params.BuildQuery(inline))
			contentType = "application/x-www-form-urlencoded"
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &apierr.Error{Kind: apierr.InvalidArgument, Op: op, Message: "failed to build request", Cause: err}
	}
	if s.authHeaders {
		header, _ := req.AuthorizationHeader()
		httpReq.Header.Set("Authorization", header)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", response.JSONContentType)
	return httpReq, nil
}

func (c *Client) signOptions() []oauth.SignOption {
	var opts []oauth.SignOption
	if c.now != nil {
		opts = append(opts, oauth.WithClock(c.now))
	}
	if c.noncer != nil {
		opts = append(opts, oauth.WithNoncer(c.noncer))
	}
	return opts
}

// do sends httpReq, capturing the outgoing header block when enabled. The
// caller owns the response body.
func (c *Client) do(httpReq *http.Request, s settings) (*http.Response, []string, error) {
	var reqLines []string
	if s.saveHeaders {
		dump, err := httputil.DumpRequestOut(httpReq, false)
		if err == nil {
			reqLines = response.SplitHeaderBlock(dump)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = redactURL(httpReq)
		}
		c.log.Warn().
			Err(err).
			Str("method", httpReq.Method).
			Str("url", redactURL(httpReq)).
			Msg("request failed")
		return nil, nil, apierr.Transport(httpReq.Method+" "+redactURL(httpReq), err)
	}

	c.log.Debug().
		Str("method", httpReq.Method).
		Str("url", redactURL(httpReq)).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("request completed")
	return resp, reqLines, nil
}

func (c *Client) send(httpReq *http.Request, s settings) (*response.Envelope, error) {
	resp, reqLines, err := c.do(httpReq, s)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierr.Transport(httpReq.Method+" "+redactURL(httpReq), err)
	}
	return response.New(rawResponse(resp, body, reqLines, s)), nil
}

func rawResponse(resp *http.Response, body []byte, reqLines []string, s settings) response.Raw {
	raw := response.Raw{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}
	if s.saveHeaders {
		raw.RequestHeaderLines = reqLines
		if dump, err := httputil.DumpResponse(resp, false); err == nil {
			raw.ResponseHeaderLines = response.SplitHeaderBlock(dump)
		}
	}
	return raw
}

// redactURL drops the query, which carries the signature in query mode.
func redactURL(r *http.Request) string {
	u := *r.URL
	u.RawQuery = ""
	u.User = nil
	return u.String()
}

// IsTransport reports whether err is a TransportError.
func IsTransport(err error) bool {
	return errors.Is(err, apierr.ErrTransportError)
}
