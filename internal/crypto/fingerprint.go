package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns the full SHA-256 hex digest of a public key's DER
// encoding. It identifies the key on the relay, so no truncation.
func Fingerprint(der []byte) string {
	sum := sha256.Sum256(der)
	return hex.EncodeToString(sum[:])
}
