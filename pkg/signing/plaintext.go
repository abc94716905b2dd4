package signing

import "crypto/subtle"

// plaintextMethod implements PLAINTEXT per RFC 5849 Section 3.4.4. The
// signature is the signing key itself; the base string is not used.
type plaintextMethod struct{}

func (m *plaintextMethod) Name() string {
	return PLAINTEXT
}

func (m *plaintextMethod) Sign(_, consumerSecret, tokenSecret string) (string, error) {
	return signingKey(consumerSecret, tokenSecret), nil
}

func (m *plaintextMethod) Verify(_, signature, consumerSecret, tokenSecret string) bool {
	want := signingKey(consumerSecret, tokenSecret)
	return subtle.ConstantTimeCompare([]byte(signature), []byte(want)) == 1
}

func init() {
	Register(&plaintextMethod{})
}
