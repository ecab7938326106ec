package store

import (
	"database/sql"
	"errors"
	"fmt"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

// PutChat inserts a chat. The (key id, peer fingerprint) pair is unique:
// a second chat for the same counterparty under the same identity fails.
func (s *Store) PutChat(c domain.Chat) error {
	fp := crypto.Fingerprint(c.PeerKey.Bytes())
	_, err := s.db.Exec(
		`INSERT INTO chats (id, key_id, peer_der, peer_fingerprint, name, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.KeyID, c.PeerKey.Bytes(), fp, c.Name, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("put chat %q: %w", c.ID, err)
	}
	return nil
}

// Chat loads a chat by id.
func (s *Store) Chat(id string) (domain.Chat, bool, error) {
	return s.scanChat(s.db.QueryRow(
		`SELECT id, key_id, peer_der, name, created_at FROM chats WHERE id = ?`, id,
	))
}

// ChatByFingerprint resolves the chat an update belongs to.
func (s *Store) ChatByFingerprint(keyID string, fp domain.Fingerprint) (domain.Chat, bool, error) {
	return s.scanChat(s.db.QueryRow(
		`SELECT id, key_id, peer_der, name, created_at FROM chats
		 WHERE key_id = ? AND peer_fingerprint = ?`, keyID, string(fp),
	))
}

// Chats lists an identity's chats, oldest first.
func (s *Store) Chats(keyID string) ([]domain.Chat, error) {
	rows, err := s.db.Query(
		`SELECT id, key_id, peer_der, name, created_at FROM chats
		 WHERE key_id = ? ORDER BY created_at`, keyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	var out []domain.Chat
	for rows.Next() {
		c, err := buildChat(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RenameChat updates the display name, the only mutable chat field.
func (s *Store) RenameChat(id, name string) error {
	res, err := s.db.Exec(`UPDATE chats SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return fmt.Errorf("rename chat %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename chat %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("rename chat %q: not found", id)
	}
	return nil
}

// DeleteChat removes a chat and, via foreign keys, its messages.
func (s *Store) DeleteChat(id string) error {
	if _, err := s.db.Exec(`DELETE FROM chats WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete chat %q: %w", id, err)
	}
	return nil
}

func (s *Store) scanChat(row *sql.Row) (domain.Chat, bool, error) {
	c, err := buildChat(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Chat{}, false, nil
	}
	if err != nil {
		return domain.Chat{}, false, err
	}
	return c, true, nil
}

func buildChat(scan func(...any) error) (domain.Chat, error) {
	var (
		c       domain.Chat
		peerDER []byte
	)
	if err := scan(&c.ID, &c.KeyID, &peerDER, &c.Name, &c.CreatedAt); err != nil {
		return domain.Chat{}, err
	}
	peer, err := domain.NewPublicKey(peerDER)
	if err != nil {
		return domain.Chat{}, fmt.Errorf("chat %q: %w", c.ID, err)
	}
	c.PeerKey = peer
	return c, nil
}

var _ domain.ChatStore = (*Store)(nil)
