// Package signing implements the OAuth 1.0a signature methods of RFC 5849
// Section 3.4: HMAC-SHA1, RSA-SHA1 and PLAINTEXT.
//
// Methods are stateless strategies looked up by name from a registry:
//
//	m, err := signing.Get("HMAC-SHA1")
//	if err != nil {
//	    return err // apierr.ConfigurationError
//	}
//	sig, err := m.Sign(baseString, consumerSecret, tokenSecret)
//
// For RSA-SHA1 the consumer secret argument carries the PEM-encoded RSA
// private key when signing, and the signer's PEM-encoded public key or
// X.509 certificate when verifying. The token secret is ignored.
//
// # Security
//
//   - HMAC-SHA1 and PLAINTEXT verification use constant-time comparison
//   - PLAINTEXT offers no integrity protection and must only be used over TLS
//   - RSA keys below 1024 bits are rejected
package signing

import (
	"fmt"
	"sort"

	"github.com/forcebit/contextio-go/pkg/apierr"
)

// Method names as they appear in oauth_signature_method.
const (
	HMACSHA1  = "HMAC-SHA1"
	RSASHA1   = "RSA-SHA1"
	PLAINTEXT = "PLAINTEXT"
)

// Method is an OAuth 1.0a signature method.
//
// Implementations are stateless and safe for concurrent use.
type Method interface {
	// Name returns the value used for oauth_signature_method, e.g. "HMAC-SHA1".
	Name() string

	// Sign computes the oauth_signature value over the signature base string.
	// An empty tokenSecret stands for an absent token (two-legged OAuth).
	Sign(baseString, consumerSecret, tokenSecret string) (string, error)

	// Verify reports whether signature is valid for baseString. It never
	// returns an error: malformed input simply fails verification.
	Verify(baseString, signature, consumerSecret, tokenSecret string) bool
}

var registry = make(map[string]Method)

// Register adds m to the registry. It is called from init functions and
// panics if a method with the same name is already registered.
func Register(m Method) {
	name := m.Name()
	if _, exists := registry[name]; exists {
		panic(fmt.Sprintf("signature method %q already registered", name))
	}
	registry[name] = m
}

// Get returns the method registered under name. Names are case-sensitive,
// as they are on the wire.
//
// Error Conditions:
//   - name is empty
//   - name is not registered
//
// Both are reported as apierr.ConfigurationError.
func Get(name string) (Method, error) {
	if name == "" {
		return nil, apierr.Config("signing", "signature method name cannot be empty")
	}

	m, ok := registry[name]
	if !ok {
		return nil, apierr.Config("signing", "unsupported signature method: %q", name)
	}
	return m, nil
}

// Supported returns the registered method names in sorted order.
func Supported() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func checkBase(baseString string) error {
	if baseString == "" {
		return apierr.Invalid("signing", "signature base string cannot be empty")
	}
	return nil
}
