// Package oauth builds and signs OAuth 1.0a requests (RFC 5849).
//
// A Request is created per call, signed exactly once, and then rendered as
// either an Authorization header value or a fully signed URL:
//
//	req, err := oauth.NewRequest("GET", "https://api.context.io/2.0/accounts",
//	    params.New().Add("limit", "10"), oauth.Credentials{ConsumerKey: ck, ConsumerSecret: cs})
//	if err != nil {
//	    return err
//	}
//	m, _ := signing.Get(signing.HMACSHA1)
//	if err := req.Sign(m); err != nil {
//	    return err
//	}
//	header, _ := req.AuthorizationHeader()
//
// VerifyRequest performs the server side of the exchange and is what the
// package's own tests use to check signatures produced by the client.
package oauth
