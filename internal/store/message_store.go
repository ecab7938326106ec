package store

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"sealchat/internal/domain"
	"sealchat/internal/protocol/envelope"
)

// AppendMessage assigns the next per-chat sequence number, encrypts the
// message into its local envelope and inserts the row. The write is
// idempotent per (chat id, content, timestamp): re-appending an identical
// message is a no-op and the stored copy is returned with inserted=false.
func (s *Store) AppendMessage(owner domain.PrivateKey, m domain.Message) (domain.Message, bool, error) {
	if m.ChatID == "" {
		return domain.Message{}, false, &domain.ConsistencyError{Reason: "message " + m.ID + " has no chat"}
	}
	blob, err := envelope.EncryptLocalMessage(owner, domain.LocalMessageEnvelope{
		Content:            m.Content,
		GeneratedTimestamp: m.Timestamp,
		Status:             m.Status,
		MediaID:            m.MediaID,
	})
	if err != nil {
		return domain.Message{}, false, err
	}
	hash := dedupeHash(m.Content, m.Timestamp)

	tx, err := s.db.Begin()
	if err != nil {
		return domain.Message{}, false, fmt.Errorf("append message: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRow(
		`SELECT COALESCE(MAX(seq), -1) + 1 FROM messages WHERE chat_id = ?`, m.ChatID,
	).Scan(&seq); err != nil {
		return domain.Message{}, false, fmt.Errorf("append message: next seq: %w", err)
	}

	res, err := tx.Exec(
		`INSERT OR IGNORE INTO messages (id, chat_id, seq, timestamp, status, dedupe_hash, envelope)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.ChatID, seq, m.Timestamp, string(m.Status), hash, blob,
	)
	if err != nil {
		return domain.Message{}, false, fmt.Errorf("append message %q: %w", m.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.Message{}, false, fmt.Errorf("append message %q: %w", m.ID, err)
	}
	if n == 0 {
		// Duplicate delivery; hand back the row that won.
		var existingID string
		var existingSeq int64
		if err := tx.QueryRow(
			`SELECT id, seq FROM messages WHERE chat_id = ? AND dedupe_hash = ?`, m.ChatID, hash,
		).Scan(&existingID, &existingSeq); err != nil {
			return domain.Message{}, false, fmt.Errorf("append message %q: %w", m.ID, err)
		}
		if err := tx.Commit(); err != nil {
			return domain.Message{}, false, err
		}
		m.ID = existingID
		m.Seq = existingSeq
		return m, false, nil
	}
	if err := tx.Commit(); err != nil {
		return domain.Message{}, false, err
	}
	m.Seq = seq
	return m, true, nil
}

// Messages lists a chat's history in sequence order, decrypting each local
// envelope with the owning key.
func (s *Store) Messages(owner domain.PrivateKey, chatID string) ([]domain.Message, error) {
	rows, err := s.db.Query(
		`SELECT id, seq, status, envelope FROM messages WHERE chat_id = ? ORDER BY seq`, chatID,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		var (
			id     string
			seq    int64
			status string
			blob   []byte
		)
		if err := rows.Scan(&id, &seq, &status, &blob); err != nil {
			return nil, fmt.Errorf("list messages: %w", err)
		}
		env, err := envelope.DecryptLocalMessage(owner, blob)
		if err != nil {
			return nil, fmt.Errorf("message %q: %w", id, err)
		}
		out = append(out, domain.Message{
			ID:        id,
			ChatID:    chatID,
			Seq:       seq,
			Status:    domain.DeliveryStatus(status), // column wins over the envelope snapshot
			Content:   env.Content,
			Timestamp: env.GeneratedTimestamp,
			MediaID:   env.MediaID,
		})
	}
	return out, rows.Err()
}

// SetMessageStatus records a delivery status transition.
func (s *Store) SetMessageStatus(id string, status domain.DeliveryStatus) error {
	res, err := s.db.Exec(`UPDATE messages SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("set status of %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set status of %q: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("set status of %q: not found", id)
	}
	return nil
}

// dedupeHash keys idempotent inserts. Content equality leaks through the
// hash to anyone with database access; the database sits inside the
// device boundary, so that is acceptable here.
func dedupeHash(content string, ts int64) string {
	h := sha256.New()
	h.Write([]byte(content))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(ts, 10)))
	return hex.EncodeToString(h.Sum(nil))
}

var _ domain.MessageStore = (*Store)(nil)
