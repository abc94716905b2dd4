package oauth

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/signing"
)

// ErrSignatureInvalid is returned when a signature does not verify.
var ErrSignatureInvalid = errors.New("oauth: signature verification failed")

const maxFormMemory = 32 << 20

// VerifyOptions configures VerifyRequest.
type VerifyOptions struct {
	// Credentials the request must have been signed with. For RSA-SHA1 the
	// ConsumerSecret holds the consumer's public key or certificate.
	Credentials Credentials

	// BaseURL overrides the URL rebuilt from the request. Set it when the
	// server sits behind a proxy that rewrites scheme or host.
	BaseURL string

	// AllowedMethods restricts oauth_signature_method. Empty allows all
	// registered methods.
	AllowedMethods []string

	// MaxSkew rejects timestamps further than this from Now. Zero disables
	// the check.
	MaxSkew time.Duration
	Now     func() time.Time
}

// VerifyResult describes a verified request.
type VerifyResult struct {
	Method     string
	Realm      string
	BaseString string
	// Parameters holds everything that was signed.
	Parameters *params.Set
}

// ParseAuthorizationHeader parses an "OAuth ..." Authorization header value
// into its decoded parameters and realm.
func ParseAuthorizationHeader(value string) (*params.Set, string, error) {
	scheme, rest, _ := strings.Cut(strings.TrimSpace(value), " ")
	if !strings.EqualFold(scheme, "OAuth") {
		return nil, "", fmt.Errorf("authorization scheme %q is not OAuth", scheme)
	}

	set := params.New()
	var realm string
	for _, part := range strings.Split(rest, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, quoted, ok := strings.Cut(part, "=")
		if !ok || len(quoted) < 2 || quoted[0] != '"' || quoted[len(quoted)-1] != '"' {
			return nil, "", fmt.Errorf("malformed authorization parameter %q", part)
		}
		name = strings.TrimSpace(name)
		v, err := params.Decode(quoted[1 : len(quoted)-1])
		if err != nil {
			return nil, "", fmt.Errorf("authorization parameter %q: %w", name, err)
		}
		if name == "realm" {
			realm = v
			continue
		}
		n, err := params.Decode(name)
		if err != nil {
			return nil, "", fmt.Errorf("authorization parameter name %q: %w", name, err)
		}
		set.Add(n, v)
	}
	return set, realm, nil
}

// VerifyRequest checks the OAuth 1.0a signature of an incoming request.
// Protocol parameters are read from the Authorization header, the URL
// query and a form-encoded or multipart body. A form body is restored so
// handlers can read it again.
func VerifyRequest(req *http.Request, opts VerifyOptions) (VerifyResult, error) {
	if req == nil {
		return VerifyResult{}, fmt.Errorf("request is required")
	}

	all, realm, err := collectParameters(req)
	if err != nil {
		return VerifyResult{}, err
	}

	signature := all.Get(ParamSignature)
	if signature == "" {
		return VerifyResult{}, fmt.Errorf("missing %s", ParamSignature)
	}

	methodName := all.Get(ParamSignatureMethod)
	if len(opts.AllowedMethods) > 0 && !contains(opts.AllowedMethods, methodName) {
		return VerifyResult{}, fmt.Errorf("signature method %q not allowed", methodName)
	}
	m, err := signing.Get(methodName)
	if err != nil {
		return VerifyResult{}, err
	}

	creds := opts.Credentials
	if got := all.Get(ParamConsumerKey); got != creds.ConsumerKey {
		return VerifyResult{}, fmt.Errorf("unknown consumer key %q", got)
	}
	if creds.Token != nil && all.Get(ParamToken) != creds.Token.Key {
		return VerifyResult{}, fmt.Errorf("token mismatch")
	}
	if v := all.Get(ParamVersion); all.Has(ParamVersion) && v != Version {
		return VerifyResult{}, fmt.Errorf("unsupported oauth_version %q", v)
	}
	if err := checkTimestamp(all.Get(ParamTimestamp), opts); err != nil {
		return VerifyResult{}, err
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL, err = requestBaseURL(req)
		if err != nil {
			return VerifyResult{}, err
		}
	}

	base := baseString(strings.ToUpper(req.Method), baseURL, all)
	if !m.Verify(base, signature, creds.ConsumerSecret, creds.tokenSecret()) {
		return VerifyResult{}, ErrSignatureInvalid
	}

	signed := all.Clone()
	signed.Del(ParamSignature)
	return VerifyResult{
		Method:     methodName,
		Realm:      realm,
		BaseString: base,
		Parameters: signed,
	}, nil
}

func collectParameters(req *http.Request) (*params.Set, string, error) {
	all := params.New()
	var realm string

	if h := req.Header.Get("Authorization"); h != "" {
		set, r, err := ParseAuthorizationHeader(h)
		if err != nil {
			return nil, "", err
		}
		all.Merge(set)
		realm = r
	}

	query, err := params.ParseQuery(req.URL.RawQuery)
	if err != nil {
		return nil, "", fmt.Errorf("invalid query: %w", err)
	}
	all.Merge(query)

	if req.Body == nil || req.Body == http.NoBody {
		return all, realm, nil
	}

	mediaType, _, _ := mime.ParseMediaType(req.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read body: %w", err)
		}
		req.Body = io.NopCloser(bytes.NewReader(body))
		// form encoding writes spaces as "+"; a literal plus is always %2B
		form, err := params.ParseQuery(strings.ReplaceAll(string(body), "+", "%20"))
		if err != nil {
			return nil, "", fmt.Errorf("invalid form body: %w", err)
		}
		all.Merge(form)
	case "multipart/form-data":
		if err := req.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, "", fmt.Errorf("invalid multipart body: %w", err)
		}
		names := make([]string, 0, len(req.MultipartForm.Value))
		for name := range req.MultipartForm.Value {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for _, v := range req.MultipartForm.Value[name] {
				all.Add(name, v)
			}
		}
	}
	return all, realm, nil
}

func requestBaseURL(req *http.Request) (string, error) {
	scheme := "http"
	if req.TLS != nil {
		scheme = "https"
	}
	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	return normalizeURL(&url.URL{
		Scheme:  scheme,
		Host:    host,
		Path:    req.URL.Path,
		RawPath: req.URL.RawPath,
	})
}

func checkTimestamp(raw string, opts VerifyOptions) error {
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q", ParamTimestamp, raw)
	}
	if opts.MaxSkew <= 0 {
		return nil
	}
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	skew := now().Sub(time.Unix(ts, 0))
	if skew < 0 {
		skew = -skew
	}
	if skew > opts.MaxSkew {
		return fmt.Errorf("timestamp outside allowed window of %s", opts.MaxSkew)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
