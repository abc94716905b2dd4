package oauth

import (
	"strings"

	"github.com/forcebit/contextio-go/pkg/params"
)

// AuthorizationHeader renders the oauth_* parameters as an Authorization
// header value per RFC 5849 Section 3.5.1:
//
//	OAuth realm="r",oauth_consumer_key="ck",oauth_nonce="...",...
//
// Names are sorted and values percent-encoded. Caller parameters never
// appear here; they travel in the URL or body.
func (r *Request) AuthorizationHeader() (string, error) {
	if !r.signed {
		return "", ErrNotSigned
	}

	pairs := params.SortedPairs(r.oauth)

	var sb strings.Builder
	sb.Grow(64 * (len(pairs) + 1))
	sb.WriteString("OAuth ")
	if r.realm != "" {
		writeHeaderParam(&sb, "realm", params.Encode(r.realm))
		sb.WriteByte(',')
	}
	for i, p := range pairs {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeHeaderParam(&sb, p.Name, p.Value)
	}
	return sb.String(), nil
}

func writeHeaderParam(sb *strings.Builder, name, value string) {
	sb.WriteString(name)
	sb.WriteString(`="`)
	sb.WriteString(value)
	sb.WriteByte('"')
}

// URL renders the base URL with every parameter, protocol parameters
// included, as the query string. It is the query-authentication form of
// RFC 5849 Section 3.5.3.
func (r *Request) URL() (string, error) {
	if !r.signed {
		return "", ErrNotSigned
	}
	return r.baseURL + "?" + params.BuildQuery(r.Parameters()), nil
}

// ResourceURL renders the base URL with only the caller parameters as the
// query string. It is the URL to send alongside AuthorizationHeader.
func (r *Request) ResourceURL() string {
	q := params.BuildQuery(r.caller)
	if q == "" {
		return r.baseURL
	}
	return r.baseURL + "?" + q
}
