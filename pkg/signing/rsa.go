package signing

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // RSA-SHA1 is mandated by RFC 5849
	"encoding/base64"

	"github.com/forcebit/contextio-go/pkg/apierr"
)

// rsaSHA1Method implements RSA-SHA1 per RFC 5849 Section 3.4.3.
//
// The signature is RSASSA-PKCS1-v1_5 (RFC 3447 Section 8.2) over the SHA-1
// digest of the base string, base64-encoded.
//
// Signing reads the PEM or DER private key from consumerSecret. Verifying
// reads a public key or X.509 certificate from consumerSecret. tokenSecret
// plays no part in either.
type rsaSHA1Method struct{}

func (m *rsaSHA1Method) Name() string {
	return RSASHA1
}

// Sign generates an RSA-SHA1 signature.
//
// Errors:
//   - baseString is empty (InvalidArgument)
//   - consumerSecret is not an RSA private key of at least 1024 bits (ConfigurationError)
//   - the RSA operation fails
func (m *rsaSHA1Method) Sign(baseString, consumerSecret, _ string) (string, error) {
	if err := checkBase(baseString); err != nil {
		return "", err
	}

	key, err := ParseRSAPrivateKey([]byte(consumerSecret))
	if err != nil {
		return "", err
	}

	return SignRSA(baseString, key)
}

// Verify checks an RSA-SHA1 signature against the public key or
// certificate in consumerSecret.
func (m *rsaSHA1Method) Verify(baseString, signature, consumerSecret, _ string) bool {
	if baseString == "" || signature == "" {
		return false
	}

	pub, err := ParseRSAPublicKey([]byte(consumerSecret))
	if err != nil {
		return false
	}
	return VerifyRSA(baseString, signature, pub)
}

// SignRSA signs baseString with an already parsed key. It is the
// fast path for callers that hold the key across many requests.
func SignRSA(baseString string, key *rsa.PrivateKey) (string, error) {
	if err := checkBase(baseString); err != nil {
		return "", err
	}
	if err := validateRSAPrivateKey(key); err != nil {
		return "", err
	}

	digest := sha1.Sum([]byte(baseString)) //nolint:gosec
	sig, err := rsa.SignPKCS1v15(rand.Reader, key, crypto.SHA1, digest[:])
	if err != nil {
		return "", apierr.ConfigWrap("signing", err, "RSA-SHA1 signing failed")
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// VerifyRSA reports whether signature is a valid RSA-SHA1 signature of
// baseString under pub.
func VerifyRSA(baseString, signature string, pub *rsa.PublicKey) bool {
	if validateRSAPublicKey(pub) != nil {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	digest := sha1.Sum([]byte(baseString)) //nolint:gosec
	return rsa.VerifyPKCS1v15(pub, crypto.SHA1, digest[:], raw) == nil
}

func init() {
	Register(&rsaSHA1Method{})
}
