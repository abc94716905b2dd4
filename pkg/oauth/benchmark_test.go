package oauth

import (
	"fmt"
	"testing"

	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/signing"
)

func benchParams(n int) *params.Set {
	s := params.New()
	for i := 0; i < n; i++ {
		s.Add(fmt.Sprintf("param_%02d", i), fmt.Sprintf("value %d with spaces & symbols", i))
	}
	return s
}

func benchmarkSign(b *testing.B, n int) {
	set := benchParams(n)
	m, _ := signing.Get(signing.HMACSHA1)
	creds := Credentials{ConsumerKey: "ck", ConsumerSecret: "cs", Token: &Token{Key: "tk", Secret: "ts"}}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r, _ := NewRequest("GET", "https://api.context.io/2.0/accounts/abc/messages", set, creds)
		_ = r.Sign(m, WithNonce("nonce"))
		_, _ = r.AuthorizationHeader()
	}
}

func BenchmarkSign_HMACSHA1_0Params(b *testing.B)  { benchmarkSign(b, 0) }
func BenchmarkSign_HMACSHA1_5Params(b *testing.B)  { benchmarkSign(b, 5) }
func BenchmarkSign_HMACSHA1_50Params(b *testing.B) { benchmarkSign(b, 50) }

func BenchmarkParseAuthorizationHeader(b *testing.B) {
	r, _ := NewRequest("GET", "https://api.context.io/2.0/accounts", nil, Credentials{ConsumerKey: "ck", ConsumerSecret: "cs"})
	m, _ := signing.Get(signing.HMACSHA1)
	_ = r.Sign(m)
	h, _ := r.AuthorizationHeader()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = ParseAuthorizationHeader(h)
	}
}
