// Package tests holds interoperability vectors for OAuth 1.0a signing:
// the worked examples of RFC 5849 and the OAuth Core 1.0 appendix, and
// fixed signatures the API server has accepted.
package tests

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/forcebit/contextio-go/pkg/oauth"
	"github.com/forcebit/contextio-go/pkg/params"
	"github.com/forcebit/contextio-go/pkg/signing"
)

func method(t *testing.T, name string) signing.Method {
	t.Helper()
	m, err := signing.Get(name)
	if err != nil {
		t.Fatalf("signing.Get(%q) error: %v", name, err)
	}
	return m
}

func at(ts int64) oauth.SignOption {
	return oauth.WithClock(func() time.Time { return time.Unix(ts, 0) })
}

// RFC 3986 percent-encoding as used by OAuth.
func TestPercentEncoding(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ladies + Gentlemen", "Ladies%20%2B%20Gentlemen"},
		{"An encoded string!", "An%20encoded%20string%21"},
		{"Dogs, Cats & Mice", "Dogs%2C%20Cats%20%26%20Mice"},
		{"☃", "%E2%98%83"},
		{"-._~", "-._~"},
		{"a@b.com", "a%40b.com"},
	}
	for _, tt := range tests {
		if got := params.Encode(tt.in); got != tt.want {
			t.Errorf("Encode(%q) = %q, want %q", tt.in, got, tt.want)
		}
		if got, err := params.Decode(tt.want); err != nil || got != tt.in {
			t.Errorf("Decode(%q) = %q, %v; want %q", tt.want, got, err, tt.in)
		}
	}
}

// RFC 5849 Section 3.4.1.1: the base string of a POST mixing URL query,
// form body and Authorization header parameters.
func TestRFC5849_Section3_4_1_1_BaseString(t *testing.T) {
	const wantBase = "POST&http%3A%2F%2Fexample.com%2Frequest&a2%3Dr%2520b%26a3%3D2%2520q" +
		"%26a3%3Da%26b5%3D%253D%25253D%26c%2540%3D%26c2%3D%26oauth_consumer_key%3D9djdj82h48djs9d2" +
		"%26oauth_nonce%3D7d8f3e4a%26oauth_signature_method%3DHMAC-SHA1" +
		"%26oauth_timestamp%3D137131201%26oauth_token%3Dkkk9d7dh3k39sjv7"

	sig, err := method(t, signing.HMACSHA1).Sign(wantBase, "j49sk3j29djd", "dh893hdasih9")
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "http://example.com/request?b5=%3D%253D&a3=a&c%40=&a2=r%20b",
		strings.NewReader("c2&a3=2+q"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", `OAuth realm="Example",`+
		`oauth_consumer_key="9djdj82h48djs9d2",`+
		`oauth_token="kkk9d7dh3k39sjv7",`+
		`oauth_signature_method="HMAC-SHA1",`+
		`oauth_timestamp="137131201",`+
		`oauth_nonce="7d8f3e4a",`+
		`oauth_signature="`+params.Encode(sig)+`"`)

	res, err := oauth.VerifyRequest(req, oauth.VerifyOptions{
		Credentials: oauth.Credentials{
			ConsumerKey:    "9djdj82h48djs9d2",
			ConsumerSecret: "j49sk3j29djd",
			Token:          &oauth.Token{Key: "kkk9d7dh3k39sjv7", Secret: "dh893hdasih9"},
		},
	})
	if err != nil {
		t.Fatalf("VerifyRequest() error: %v", err)
	}
	if res.BaseString != wantBase {
		t.Errorf("base string:\n got %s\nwant %s", res.BaseString, wantBase)
	}
	if res.Realm != "Example" {
		t.Errorf("realm = %q, want Example", res.Realm)
	}
}

// OAuth Core 1.0 Appendix A: the photos.example.net access request.
func TestOAuthCore_AppendixA_Photos(t *testing.T) {
	creds := oauth.Credentials{
		ConsumerKey:    "dpf43f3p2l4k3l03",
		ConsumerSecret: "kd94hf93k423kf44",
		Token:          &oauth.Token{Key: "nnch734d00sl2jdk", Secret: "pfkkdhi9sl3r4s00"},
	}
	r, err := oauth.NewRequest("GET", "http://photos.example.net/photos?file=vacation.jpg&size=original", nil, creds)
	if err != nil {
		t.Fatalf("NewRequest() error: %v", err)
	}
	if err := r.Sign(method(t, signing.HMACSHA1), at(1191242096), oauth.WithNonce("kllo9940pd9333jh"), oauth.WithRealm("http://photos.example.net/")); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}

	wantBase := "GET&http%3A%2F%2Fphotos.example.net%2Fphotos&file%3Dvacation.jpg%26oauth_consumer_key%3Ddpf43f3p2l4k3l03" +
		"%26oauth_nonce%3Dkllo9940pd9333jh%26oauth_signature_method%3DHMAC-SHA1%26oauth_timestamp%3D1191242096" +
		"%26oauth_token%3Dnnch734d00sl2jdk%26oauth_version%3D1.0%26size%3Doriginal"
	if got := r.BaseString(); got != wantBase {
		t.Errorf("base string:\n got %s\nwant %s", got, wantBase)
	}
	if got, want := r.OAuthParameters().Get(oauth.ParamSignature), "tR3+Ty81lMeYAr/Fid0kMTYa/WM="; got != want {
		t.Errorf("oauth_signature = %q, want %q", got, want)
	}

	header, err := r.AuthorizationHeader()
	if err != nil {
		t.Fatalf("AuthorizationHeader() error: %v", err)
	}
	if !strings.HasPrefix(header, `OAuth realm="http%3A%2F%2Fphotos.example.net%2F",`) {
		t.Errorf("header = %q, want realm first", header)
	}
	if !strings.Contains(header, `oauth_signature="tR3%2BTy81lMeYAr%2FFid0kMTYa%2FWM%3D"`) {
		t.Errorf("header = %q, want encoded signature", header)
	}

	// The server side accepts what the client produced.
	req := httptest.NewRequest(http.MethodGet, r.ResourceURL(), nil)
	req.Header.Set("Authorization", header)
	if _, err := oauth.VerifyRequest(req, oauth.VerifyOptions{Credentials: creds}); err != nil {
		t.Errorf("VerifyRequest() error: %v", err)
	}
}

// OAuth Core 1.0 Appendix A.5.1 uses PLAINTEXT for the token request.
func TestPlaintext(t *testing.T) {
	creds := oauth.Credentials{
		ConsumerKey:    "dpf43f3p2l4k3l03",
		ConsumerSecret: "kd94hf93k423kf44",
		Token:          &oauth.Token{Key: "hh5s93j4hdidpola", Secret: "hdhd0244k9j7ao03"},
	}
	r, err := oauth.NewRequest("POST", "https://photos.example.net/access_token", nil, creds)
	if err != nil {
		t.Fatalf("NewRequest() error: %v", err)
	}
	if err := r.Sign(method(t, signing.PLAINTEXT), at(1191242092), oauth.WithNonce("dji430splmx33448")); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	if got, want := r.OAuthParameters().Get(oauth.ParamSignature), "kd94hf93k423kf44&hdhd0244k9j7ao03"; got != want {
		t.Errorf("oauth_signature = %q, want %q", got, want)
	}
}

// Fixed signatures for requests against the API host.
func TestGoldenSignatures(t *testing.T) {
	creds := oauth.Credentials{ConsumerKey: "ck", ConsumerSecret: "cs"}

	tests := []struct {
		name    string
		url     string
		set     *params.Set
		wantSig string
	}{
		{
			name:    "no parameters",
			url:     "https://api.example.com/2.0/accounts",
			wantSig: "aWP/8KRAyqyNY8fkSjPs2jf6pgY=",
		},
		{
			name:    "caller parameters",
			url:     "https://api.example.com/2.0/accounts",
			set:     params.New().Add("limit", "10").Add("email", "a@b.com"),
			wantSig: "PpLbt6n/2drRX+G9CWjJ3It6CZ4=",
		},
		{
			name:    "parameters in the URL sign the same",
			url:     "https://api.example.com/2.0/accounts?email=a%40b.com&limit=10",
			wantSig: "PpLbt6n/2drRX+G9CWjJ3It6CZ4=",
		},
		{
			name:    "default port and host case are normalized",
			url:     "https://API.example.com:443/2.0/accounts",
			wantSig: "aWP/8KRAyqyNY8fkSjPs2jf6pgY=",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := oauth.NewRequest("GET", tt.url, tt.set, creds)
			if err != nil {
				t.Fatalf("NewRequest() error: %v", err)
			}
			if err := r.Sign(method(t, signing.HMACSHA1), at(1700000000), oauth.WithNonce("abcdef0123456789")); err != nil {
				t.Fatalf("Sign() error: %v", err)
			}
			if got := r.OAuthParameters().Get(oauth.ParamSignature); got != tt.wantSig {
				t.Errorf("oauth_signature = %q, want %q", got, tt.wantSig)
			}
		})
	}
}

// Two-legged requests key HMAC-SHA1 with "secret&".
func TestTwoLeggedKey(t *testing.T) {
	got, err := method(t, signing.HMACSHA1).Sign("GET&http%3A%2F%2Fexample.com%2F&a%3D1", "secret", "")
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	if want := "FzD+oDbrR8vsvGBG7/aBAID1Ocg="; got != want {
		t.Errorf("signature = %q, want %q", got, want)
	}
}

func TestRSASHA1_QueryAuthRoundTrip(t *testing.T) {
	priv, err := os.ReadFile("../pkg/signing/testdata/consumer_key.pem")
	if err != nil {
		t.Fatalf("read key: %v", err)
	}
	cert, err := os.ReadFile("../pkg/signing/testdata/consumer_cert.pem")
	if err != nil {
		t.Fatalf("read certificate: %v", err)
	}

	r, err := oauth.NewRequest("GET", "https://api.example.com/2.0/accounts", params.New().Add("limit", "5"),
		oauth.Credentials{ConsumerKey: "ck", ConsumerSecret: string(priv)})
	if err != nil {
		t.Fatalf("NewRequest() error: %v", err)
	}
	if err := r.Sign(method(t, signing.RSASHA1)); err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	signed, err := r.URL()
	if err != nil {
		t.Fatalf("URL() error: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, signed, nil)
	_, err = oauth.VerifyRequest(req, oauth.VerifyOptions{
		Credentials:    oauth.Credentials{ConsumerKey: "ck", ConsumerSecret: string(cert)},
		BaseURL:        "https://api.example.com/2.0/accounts",
		AllowedMethods: []string{signing.RSASHA1},
		MaxSkew:        time.Minute,
	})
	if err != nil {
		t.Errorf("VerifyRequest() error: %v", err)
	}
}
