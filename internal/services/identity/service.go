package identity

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

// Service manages local identity key pairs using a backing store.
//
// Each identity is an RSA-2048 key pair with a stable uuid. Private key
// bytes stay inside the store and this service; they are never logged and
// never leave the device over the relay.
type Service struct {
	keys domain.KeyStore
}

// New returns an identity service backed by the given store.
func New(keys domain.KeyStore) *Service { return &Service{keys: keys} }

// Generate creates a fresh identity and persists it before returning.
func (s *Service) Generate() (domain.PrivateKey, error) {
	rsaKey, err := crypto.GenerateRSA()
	if err != nil {
		return domain.PrivateKey{}, &domain.KeyError{Op: "generate identity", Err: err}
	}
	key, err := domain.NewPrivateKey(uuid.NewString(), rsaKey, time.Now().UnixMilli())
	if err != nil {
		return domain.PrivateKey{}, err
	}
	if err := s.keys.PutKey(key); err != nil {
		return domain.PrivateKey{}, err
	}
	return key, nil
}

// Current returns the active identity.
func (s *Service) Current() (domain.PrivateKey, error) {
	key, ok, err := s.keys.CurrentKey()
	if err != nil {
		return domain.PrivateKey{}, err
	}
	if !ok {
		return domain.PrivateKey{}, &domain.KeyError{Op: "current identity", Err: errors.New("none configured")}
	}
	return key, nil
}

// Get returns the identity with the given id.
func (s *Service) Get(id string) (domain.PrivateKey, error) {
	key, ok, err := s.keys.Key(id)
	if err != nil {
		return domain.PrivateKey{}, err
	}
	if !ok {
		return domain.PrivateKey{}, &domain.KeyError{Op: "identity " + id, Err: errors.New("not found")}
	}
	return key, nil
}

// SetCurrent switches the active identity.
func (s *Service) SetCurrent(id string) error { return s.keys.SetCurrentKey(id) }

// List returns every stored identity.
func (s *Service) List() ([]domain.PrivateKey, error) { return s.keys.Keys() }

// Fingerprint returns a public key's relay address.
func Fingerprint(pub domain.PublicKey) domain.Fingerprint {
	return domain.Fingerprint(crypto.Fingerprint(pub.Bytes()))
}

// KeyPicture renders the deterministic visual fingerprint used for
// out-of-band verification.
func KeyPicture(pub domain.PublicKey) string {
	return crypto.KeyPicture(pub.Bytes())
}

// PublicPEM renders a public key in PEM form for sharing.
func PublicPEM(pub domain.PublicKey) string {
	return crypto.PublicPEM(pub.Bytes())
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
