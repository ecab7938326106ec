package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	// KeyBytes is the ChaCha20-Poly1305 key size.
	KeyBytes = chacha20poly1305.KeySize
	// NonceBytes is the AEAD nonce size.
	NonceBytes = chacha20poly1305.NonceSize
)

// localKeyInfo binds locally derived keys to their purpose.
const localKeyInfo = "sealchat/local-envelope/v1"

// NewContentKey returns a fresh random symmetric key for one envelope.
func NewContentKey() ([]byte, error) {
	cek := make([]byte, KeyBytes)
	if _, err := rand.Read(cek); err != nil {
		return nil, fmt.Errorf("generate content key: %w", err)
	}
	return cek, nil
}

// LocalKey derives the at-rest symmetric key from private key material.
// The derivation is deterministic so every row encrypted under an identity
// can be recovered with exactly that identity's private key.
func LocalKey(priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil || len(priv.Primes) < 2 {
		return nil, errors.New("private key material incomplete")
	}
	seed := append(priv.Primes[0].Bytes(), priv.Primes[1].Bytes()...)
	defer Wipe(seed)

	key := make([]byte, KeyBytes)
	r := hkdf.New(sha256.New, seed, nil, []byte(localKeyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive local key: %w", err)
	}
	return key, nil
}

// Seal encrypts plaintext under key and returns nonce||ciphertext.
func Seal(key, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, NonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a nonce||ciphertext blob produced by Seal. It fails on a
// truncated blob, a modified ciphertext, or the wrong key.
func Open(key, blob []byte) ([]byte, error) {
	if len(blob) < NonceBytes {
		return nil, errors.New("ciphertext too short")
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return aead.Open(nil, blob[:NonceBytes], blob[NonceBytes:], nil)
}
