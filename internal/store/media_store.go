package store

import (
	"database/sql"
	"errors"
	"fmt"

	"sealchat/internal/domain"
	"sealchat/internal/protocol/envelope"
)

// PutMedia stores a media record. Metadata and content are encrypted
// independently so metadata can later be listed without touching the blob.
// Content may be nil when only metadata is known.
func (s *Store) PutMedia(owner domain.PrivateKey, m domain.Media) error {
	meta, err := envelope.EncryptMediaMeta(owner, domain.LocalMediaMetadataEnvelope{
		MediaMime: m.Mime,
		MediaSize: m.Size,
	})
	if err != nil {
		return err
	}
	var content []byte
	if m.Hydrated() {
		content, err = envelope.EncryptLocalBytes(owner, m.Content)
		if err != nil {
			return err
		}
	}
	if _, err := s.db.Exec(
		`INSERT INTO media (id, key_id, metadata, content) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET metadata = excluded.metadata, content = excluded.content`,
		m.ID, owner.ID, meta, content,
	); err != nil {
		return fmt.Errorf("put media %q: %w", m.ID, err)
	}
	return nil
}

// MediaMeta returns a media record with decrypted metadata and nil
// content.
func (s *Store) MediaMeta(owner domain.PrivateKey, id string) (domain.Media, bool, error) {
	var blob []byte
	err := s.db.QueryRow(
		`SELECT metadata FROM media WHERE id = ? AND key_id = ?`, id, owner.ID,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Media{}, false, nil
	}
	if err != nil {
		return domain.Media{}, false, fmt.Errorf("load media %q: %w", id, err)
	}
	meta, err := envelope.DecryptMediaMeta(owner, blob)
	if err != nil {
		return domain.Media{}, false, err
	}
	return domain.Media{ID: id, Mime: meta.MediaMime, Size: meta.MediaSize}, true, nil
}

// MediaContent returns the decrypted content bytes, or ok=false when the
// record is absent or holds metadata only.
func (s *Store) MediaContent(owner domain.PrivateKey, id string) ([]byte, bool, error) {
	var blob []byte
	err := s.db.QueryRow(
		`SELECT content FROM media WHERE id = ? AND key_id = ?`, id, owner.ID,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load media content %q: %w", id, err)
	}
	if blob == nil {
		return nil, false, nil
	}
	plain, err := envelope.DecryptLocalBytes(owner, blob)
	if err != nil {
		return nil, false, err
	}
	return plain, true, nil
}

var _ domain.MediaStore = (*Store)(nil)
