package signing

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // HMAC-SHA1 is mandated by RFC 5849
	"crypto/subtle"
	"encoding/base64"

	"github.com/forcebit/contextio-go/pkg/params"
)

// hmacSHA1Method implements HMAC-SHA1 per RFC 5849 Section 3.4.2.
//
// Key: Encode(consumerSecret) + "&" + Encode(tokenSecret). The "&" is
// present even when the token secret is empty.
// Signature: base64(HMAC-SHA1(key, baseString)).
type hmacSHA1Method struct{}

func (m *hmacSHA1Method) Name() string {
	return HMACSHA1
}

func (m *hmacSHA1Method) Sign(baseString, consumerSecret, tokenSecret string) (string, error) {
	if err := checkBase(baseString); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(m.mac(baseString, consumerSecret, tokenSecret)), nil
}

func (m *hmacSHA1Method) Verify(baseString, signature, consumerSecret, tokenSecret string) bool {
	if baseString == "" || signature == "" {
		return false
	}
	got, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	want := m.mac(baseString, consumerSecret, tokenSecret)
	return subtle.ConstantTimeCompare(got, want) == 1
}

func (m *hmacSHA1Method) mac(baseString, consumerSecret, tokenSecret string) []byte {
	mac := hmac.New(sha1.New, []byte(signingKey(consumerSecret, tokenSecret)))
	mac.Write([]byte(baseString))
	return mac.Sum(nil)
}

// signingKey is the shared HMAC-SHA1 / PLAINTEXT key of RFC 5849 3.4.2.
func signingKey(consumerSecret, tokenSecret string) string {
	return params.Encode(consumerSecret) + "&" + params.Encode(tokenSecret)
}

func init() {
	Register(&hmacSHA1Method{})
}
