package domain

import (
	"bytes"
	"crypto/rsa"
	"crypto/x509"
	"fmt"
)

// Fingerprint is the hex-encoded SHA-256 digest of a public key's DER
// encoding. It doubles as the identity's address on the relay.
type Fingerprint string

// PublicKey is an RSA public key received from a counterparty or derived
// from our own private key. It is immutable once constructed from raw
// PKIX DER bytes.
type PublicKey struct {
	der []byte
	key *rsa.PublicKey
}

// NewPublicKey parses PKIX DER bytes into a PublicKey.
func NewPublicKey(der []byte) (PublicKey, error) {
	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return PublicKey{}, &KeyError{Op: "parse public key", Err: err}
	}
	rsaKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return PublicKey{}, &KeyError{Op: "parse public key", Err: fmt.Errorf("unsupported key type %T", parsed)}
	}
	return PublicKey{der: append([]byte(nil), der...), key: rsaKey}, nil
}

// Bytes returns a copy of the PKIX DER encoding.
func (p PublicKey) Bytes() []byte { return append([]byte(nil), p.der...) }

// Key exposes the parsed RSA public key for encryption.
func (p PublicKey) Key() *rsa.PublicKey { return p.key }

// Equal reports whether two public keys have identical DER encodings.
func (p PublicKey) Equal(o PublicKey) bool { return bytes.Equal(p.der, o.der) }

// IsZero reports whether the key is the zero value.
func (p PublicKey) IsZero() bool { return p.key == nil }

// PrivateKey is a local identity: a stable id plus an RSA key pair. The
// private component is unexported and never serialized by this type; the
// key store persists it as PKCS#8 DER.
type PrivateKey struct {
	ID        string
	CreatedAt int64

	key *rsa.PrivateKey
	pub PublicKey
}

// NewPrivateKey wraps an RSA private key with its id. The public half is
// derived eagerly so callers can hand it out without touching the private
// component.
func NewPrivateKey(id string, key *rsa.PrivateKey, createdAt int64) (PrivateKey, error) {
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return PrivateKey{}, &KeyError{Op: "derive public key", Err: err}
	}
	pub, err := NewPublicKey(der)
	if err != nil {
		return PrivateKey{}, err
	}
	return PrivateKey{ID: id, CreatedAt: createdAt, key: key, pub: pub}, nil
}

// Key exposes the RSA private key for decryption and local key derivation.
func (k PrivateKey) Key() *rsa.PrivateKey { return k.key }

// Public returns the derived public half.
func (k PrivateKey) Public() PublicKey { return k.pub }

// IsZero reports whether the key is the zero value.
func (k PrivateKey) IsZero() bool { return k.key == nil }
