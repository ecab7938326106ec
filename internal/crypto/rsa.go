package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// RSABits is the modulus size used for identity key pairs.
const RSABits = 2048

// GenerateRSA returns a fresh RSA-2048 key pair.
func GenerateRSA() (*rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, RSABits)
	if err != nil {
		return nil, fmt.Errorf("generate rsa key: %w", err)
	}
	return key, nil
}

// MarshalPrivate encodes a private key as PKCS#8 DER for storage.
func MarshalPrivate(key *rsa.PrivateKey) ([]byte, error) {
	return x509.MarshalPKCS8PrivateKey(key)
}

// ParsePrivate decodes PKCS#8 DER back into an RSA private key.
func ParsePrivate(der []byte) (*rsa.PrivateKey, error) {
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, err
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unsupported private key type %T", parsed)
	}
	return key, nil
}

// PublicPEM renders a PKIX DER public key in PEM form for out-of-band
// exchange.
func PublicPEM(der []byte) string {
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))
}

// ParsePublicPEM decodes a PEM public key back to PKIX DER bytes.
func ParsePublicPEM(text []byte) ([]byte, error) {
	block, _ := pem.Decode(text)
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("no PUBLIC KEY block found")
	}
	return block.Bytes, nil
}

// WrapKey encrypts a content-encryption key with RSA-OAEP under the
// recipient's public key.
func WrapKey(pub *rsa.PublicKey, cek []byte) ([]byte, error) {
	return rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, cek, nil)
}

// UnwrapKey recovers a content-encryption key wrapped by WrapKey.
func UnwrapKey(priv *rsa.PrivateKey, wrapped []byte) ([]byte, error) {
	return rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, wrapped, nil)
}
