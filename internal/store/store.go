package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultDBFileName is the SQLite filename under the data directory.
const DefaultDBFileName = "sealchat.db"

var migrations = []string{
	`
CREATE TABLE IF NOT EXISTS keys (
  id          TEXT PRIMARY KEY,
  private_der BLOB NOT NULL,
  created_at  INTEGER NOT NULL,
  is_current  INTEGER NOT NULL DEFAULT 0
);
`,
	`
CREATE TABLE IF NOT EXISTS chats (
  id               TEXT PRIMARY KEY,
  key_id           TEXT NOT NULL REFERENCES keys(id) ON DELETE CASCADE,
  peer_der         BLOB NOT NULL,
  peer_fingerprint TEXT NOT NULL,
  name             TEXT NOT NULL DEFAULT '',
  created_at       INTEGER NOT NULL
);
`,
	`
CREATE UNIQUE INDEX IF NOT EXISTS idx_chats_key_peer
ON chats (key_id, peer_fingerprint);
`,
	`
CREATE TABLE IF NOT EXISTS messages (
  id          TEXT PRIMARY KEY,
  chat_id     TEXT NOT NULL REFERENCES chats(id) ON DELETE CASCADE,
  seq         INTEGER NOT NULL,
  timestamp   INTEGER NOT NULL,
  status      TEXT NOT NULL CHECK(status IN ('pending','incoming','sent','failed')),
  dedupe_hash TEXT NOT NULL,
  envelope    BLOB NOT NULL
);
`,
	`
CREATE UNIQUE INDEX IF NOT EXISTS idx_messages_dedupe
ON messages (chat_id, dedupe_hash);
`,
	`
CREATE INDEX IF NOT EXISTS idx_messages_chat_seq
ON messages (chat_id, seq);
`,
	`
CREATE TABLE IF NOT EXISTS media (
  id       TEXT PRIMARY KEY,
  key_id   TEXT NOT NULL REFERENCES keys(id) ON DELETE CASCADE,
  metadata BLOB NOT NULL,
  content  BLOB
);
`,
	`
CREATE TABLE IF NOT EXISTS watermarks (
  key_id TEXT PRIMARY KEY REFERENCES keys(id) ON DELETE CASCADE,
  since  INTEGER NOT NULL
);
`,
}

// Store wraps the SQLite handle. One Store serves all identities; rows are
// scoped by key id where it matters.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database %q: %w", path, err)
	}
	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply migration %d: %w", i, err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

func nowUnixMilli() int64 { return time.Now().UnixMilli() }
