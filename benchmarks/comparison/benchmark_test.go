package comparison

import (
	"context"
	"net/http"
	"testing"

	"github.com/dghubble/oauth1"

	"github.com/forcebit/contextio-go/pkg/client"
	"github.com/forcebit/contextio-go/pkg/oauth"
	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/signing"
)

// Both libraries must produce the same HMAC-SHA1 signature for the same
// base string.
func TestHMACSHA1_Agrees(t *testing.T) {
	ours, err := signing.Get(signing.HMACSHA1)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ours.Sign(testBase, consumerSecret, tokenSecret)
	if err != nil {
		t.Fatal(err)
	}

	theirs := &oauth1.HMACSigner{ConsumerSecret: consumerSecret}
	want, err := theirs.Sign(tokenSecret, testBase)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("signature = %q, dghubble/oauth1 = %q", got, want)
	}
}

func TestPercentEncode_Agrees(t *testing.T) {
	for _, s := range []string{"Ladies + Gentlemen", "a@b.com", "-._~", "☃", "100%", "a/b?c=d&e"} {
		if got, want := params.Encode(s), oauth1.PercentEncode(s); got != want {
			t.Errorf("Encode(%q) = %q, dghubble/oauth1 = %q", s, got, want)
		}
	}
}

// =============================================================================
// HMAC-SHA1 over a fixed base string
// =============================================================================

func BenchmarkHMACSHA1_ContextIO(b *testing.B) {
	m, _ := signing.Get(signing.HMACSHA1)
	b.ReportAllocs()
	for b.Loop() {
		if _, err := m.Sign(testBase, consumerSecret, tokenSecret); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHMACSHA1_Dghubble(b *testing.B) {
	s := &oauth1.HMACSigner{ConsumerSecret: consumerSecret}
	b.ReportAllocs()
	for b.Loop() {
		if _, err := s.Sign(tokenSecret, testBase); err != nil {
			b.Fatal(err)
		}
	}
}

// =============================================================================
// Build, sign and render the Authorization header
// =============================================================================

func BenchmarkSignRequest_ContextIO(b *testing.B) {
	m, _ := signing.Get(signing.HMACSHA1)
	creds := oauth.Credentials{
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		Token:          &oauth.Token{Key: tokenKey, Secret: tokenSecret},
	}
	set := params.New().Add("limit", "25").Add("include_body", "1")

	b.ReportAllocs()
	for b.Loop() {
		r, err := oauth.NewRequest("GET", "https://api.context.io/2.0/accounts/4f0a/messages", set, creds)
		if err != nil {
			b.Fatal(err)
		}
		if err := r.Sign(m); err != nil {
			b.Fatal(err)
		}
		if _, err := r.AuthorizationHeader(); err != nil {
			b.Fatal(err)
		}
	}
}

// =============================================================================
// Full GET through an http.Client with a stub transport
// =============================================================================

func BenchmarkGet_ContextIO(b *testing.B) {
	c, err := client.New(client.Config{
		AccessKey: consumerKey,
		SecretKey: consumerSecret,
		UseSSL:    true,
		Endpoint:  "api.context.io",
	},
		client.WithHTTPClient(&http.Client{Transport: stubTransport{}}),
		client.WithToken(oauth.Token{Key: tokenKey, Secret: tokenSecret}),
	)
	if err != nil {
		b.Fatal(err)
	}
	set := params.New().Add("limit", "25").Add("include_body", "1")
	ctx := context.Background()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := c.Get(ctx, "4f0a", "messages", set); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGet_Dghubble(b *testing.B) {
	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, &http.Client{Transport: stubTransport{}})
	hc := oauth1.NewConfig(consumerKey, consumerSecret).Client(ctx, oauth1.NewToken(tokenKey, tokenSecret))

	b.ReportAllocs()
	for b.Loop() {
		resp, err := hc.Get("https://api.context.io/2.0/accounts/4f0a/messages?include_body=1&limit=25")
		if err != nil {
			b.Fatal(err)
		}
		_ = resp.Body.Close()
	}
}
