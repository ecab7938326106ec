package store

import (
	"database/sql"
	"errors"
	"fmt"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

// PutKey persists a private key as PKCS#8 DER. The first key stored
// becomes the current identity automatically.
func (s *Store) PutKey(k domain.PrivateKey) error {
	der, err := crypto.MarshalPrivate(k.Key())
	if err != nil {
		return &domain.KeyError{Op: "marshal private key", Err: err}
	}
	defer crypto.Wipe(der)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("put key %q: %w", k.ID, err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM keys`).Scan(&count); err != nil {
		return fmt.Errorf("put key %q: %w", k.ID, err)
	}
	current := 0
	if count == 0 {
		current = 1
	}
	if _, err := tx.Exec(
		`INSERT INTO keys (id, private_der, created_at, is_current) VALUES (?, ?, ?, ?)`,
		k.ID, der, k.CreatedAt, current,
	); err != nil {
		return fmt.Errorf("put key %q: %w", k.ID, err)
	}
	return tx.Commit()
}

// Key loads a private key by id.
func (s *Store) Key(id string) (domain.PrivateKey, bool, error) {
	return s.scanKey(s.db.QueryRow(
		`SELECT id, private_der, created_at FROM keys WHERE id = ?`, id,
	))
}

// CurrentKey loads the key marked current, if any.
func (s *Store) CurrentKey() (domain.PrivateKey, bool, error) {
	return s.scanKey(s.db.QueryRow(
		`SELECT id, private_der, created_at FROM keys WHERE is_current = 1`,
	))
}

// SetCurrentKey marks id as the current identity.
func (s *Store) SetCurrentKey(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("set current key %q: %w", id, err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE keys SET is_current = (id = ?)`, id)
	if err != nil {
		return fmt.Errorf("set current key %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set current key %q: %w", id, err)
	}
	if n == 0 {
		return &domain.KeyError{Op: "set current key " + id, Err: errors.New("not found")}
	}
	return tx.Commit()
}

// Keys lists every stored private key, oldest first.
func (s *Store) Keys() ([]domain.PrivateKey, error) {
	rows, err := s.db.Query(`SELECT id, private_der, created_at FROM keys ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()

	var out []domain.PrivateKey
	for rows.Next() {
		var (
			id        string
			der       []byte
			createdAt int64
		)
		if err := rows.Scan(&id, &der, &createdAt); err != nil {
			return nil, fmt.Errorf("list keys: %w", err)
		}
		k, err := buildKey(id, der, createdAt)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (s *Store) scanKey(row *sql.Row) (domain.PrivateKey, bool, error) {
	var (
		id        string
		der       []byte
		createdAt int64
	)
	err := row.Scan(&id, &der, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PrivateKey{}, false, nil
	}
	if err != nil {
		return domain.PrivateKey{}, false, fmt.Errorf("load key: %w", err)
	}
	k, err := buildKey(id, der, createdAt)
	if err != nil {
		return domain.PrivateKey{}, false, err
	}
	return k, true, nil
}

func buildKey(id string, der []byte, createdAt int64) (domain.PrivateKey, error) {
	defer crypto.Wipe(der)
	rsaKey, err := crypto.ParsePrivate(der)
	if err != nil {
		return domain.PrivateKey{}, &domain.KeyError{Op: "parse key " + id, Err: err}
	}
	return domain.NewPrivateKey(id, rsaKey, createdAt)
}

var _ domain.KeyStore = (*Store)(nil)
