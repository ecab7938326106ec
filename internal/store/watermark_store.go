package store

import (
	"database/sql"
	"errors"
	"fmt"

	"sealchat/internal/domain"
)

// Watermark returns the latest feed timestamp merged for an identity, or
// zero when the identity has never synced.
func (s *Store) Watermark(keyID string) (int64, error) {
	var since int64
	err := s.db.QueryRow(`SELECT since FROM watermarks WHERE key_id = ?`, keyID).Scan(&since)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("load watermark for %q: %w", keyID, err)
	}
	return since, nil
}

// SetWatermark advances the identity's watermark. It never moves backwards.
func (s *Store) SetWatermark(keyID string, ts int64) error {
	_, err := s.db.Exec(
		`INSERT INTO watermarks (key_id, since) VALUES (?, ?)
		 ON CONFLICT(key_id) DO UPDATE SET since = MAX(since, excluded.since)`,
		keyID, ts,
	)
	if err != nil {
		return fmt.Errorf("set watermark for %q: %w", keyID, err)
	}
	return nil
}

var _ domain.WatermarkStore = (*Store)(nil)
