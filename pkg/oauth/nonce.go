package oauth

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// Noncer produces oauth_nonce values. Implementations must be safe for
// concurrent use and must not repeat values for the same credentials.
type Noncer interface {
	Nonce() string
}

// NoncerFunc adapts a function to the Noncer interface.
type NoncerFunc func() string

// Nonce implements Noncer.
func (f NoncerFunc) Nonce() string {
	return f()
}

// UUIDNoncer returns random (version 4) UUIDs with the dashes removed.
type UUIDNoncer struct{}

func (UUIDNoncer) Nonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// HexNoncer returns 16 random bytes as lowercase hex.
type HexNoncer struct{}

func (HexNoncer) Nonce() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// DefaultNoncer is used when Sign is given neither WithNonce nor WithNoncer.
var DefaultNoncer Noncer = UUIDNoncer{}
