package media

import (
	"fmt"
	"os"

	"sealchat/internal/domain"
)

// Service hydrates and stores media attachments.
type Service struct {
	store domain.MediaStore
}

// New returns a media service over the given store.
func New(store domain.MediaStore) *Service { return &Service{store: store} }

// Hydrate returns the media with content bytes decrypted and attached.
// Already-hydrated values pass through unchanged. A record that only ever
// held metadata cannot be hydrated.
func (s *Service) Hydrate(priv domain.PrivateKey, m domain.Media) (domain.Media, error) {
	if m.Hydrated() {
		return m, nil
	}
	if m.Mime == "" {
		meta, ok, err := s.store.MediaMeta(priv, m.ID)
		if err != nil {
			return domain.Media{}, err
		}
		if !ok {
			return domain.Media{}, &domain.ConsistencyError{Reason: "media " + m.ID + " not found"}
		}
		m = meta
	}
	content, ok, err := s.store.MediaContent(priv, m.ID)
	if err != nil {
		return domain.Media{}, err
	}
	if !ok {
		return domain.Media{}, &domain.ConsistencyError{Reason: "media " + m.ID + " has no stored content"}
	}
	m.Content = content
	return m, nil
}

// Store encrypts and persists the media record. Content and metadata are
// encrypted independently; content may be nil for metadata-only rows.
func (s *Service) Store(priv domain.PrivateKey, m domain.Media) error {
	return s.store.PutMedia(priv, m)
}

// Materialize writes the decrypted content into a short-lived temp file
// and returns its path plus a cleanup func. The caller owns the lifetime:
// decrypted plaintext must not outlive the request, so cleanup removes
// the file.
func (s *Service) Materialize(priv domain.PrivateKey, m domain.Media) (string, func(), error) {
	hydrated, err := s.Hydrate(priv, m)
	if err != nil {
		return "", nil, err
	}
	f, err := os.CreateTemp("", "sealchat-media-*")
	if err != nil {
		return "", nil, fmt.Errorf("materialize media %q: %w", m.ID, err)
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	if err := f.Chmod(0o600); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("materialize media %q: %w", m.ID, err)
	}
	if _, err := f.Write(hydrated.Content); err != nil {
		f.Close()
		cleanup()
		return "", nil, fmt.Errorf("materialize media %q: %w", m.ID, err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("materialize media %q: %w", m.ID, err)
	}
	return path, cleanup, nil
}

// Compile-time assertion that Service implements domain.MediaService.
var _ domain.MediaService = (*Service)(nil)
