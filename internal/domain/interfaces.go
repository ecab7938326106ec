package domain

import "context"

// KeyStore persists private key material. Implementations must write keys
// durably before returning from PutKey and must never log private bytes.
type KeyStore interface {
	PutKey(k PrivateKey) error
	Key(id string) (PrivateKey, bool, error)
	CurrentKey() (PrivateKey, bool, error)
	SetCurrentKey(id string) error
	Keys() ([]PrivateKey, error)
}

// ChatStore persists chats keyed by id and by (owning key, peer fingerprint).
type ChatStore interface {
	PutChat(c Chat) error
	Chat(id string) (Chat, bool, error)
	ChatByFingerprint(keyID string, fp Fingerprint) (Chat, bool, error)
	Chats(keyID string) ([]Chat, error)
	RenameChat(id, name string) error
	DeleteChat(id string) error
}

// MessageStore persists messages as encrypted local envelopes. AppendMessage
// assigns the per-chat sequence number and is idempotent per
// (chat id, content, timestamp): the returned bool is false when an
// identical row already existed and nothing was written.
type MessageStore interface {
	AppendMessage(owner PrivateKey, m Message) (Message, bool, error)
	Messages(owner PrivateKey, chatID string) ([]Message, error)
	SetMessageStatus(id string, status DeliveryStatus) error
}

// MediaStore persists media blobs and their metadata envelopes. Metadata is
// encrypted independently of content so it can be listed without hydrating.
type MediaStore interface {
	PutMedia(owner PrivateKey, m Media) error
	MediaMeta(owner PrivateKey, id string) (Media, bool, error)
	MediaContent(owner PrivateKey, id string) ([]byte, bool, error)
}

// WatermarkStore persists the per-identity sync watermark: the latest
// envelope timestamp merged from the update feed.
type WatermarkStore interface {
	Watermark(keyID string) (int64, error)
	SetWatermark(keyID string, ts int64) error
}

// RelayClient is the wire-protocol client for the relay's REST surface.
// Calls are not retried internally; a failure surfaces as *TransportError.
type RelayClient interface {
	// Push delivers an encrypted update to a recipient and returns the
	// relay-reported outcome ("accepted", "queued" or "failed").
	Push(ctx context.Context, recipient Fingerprint, u Update) (string, error)
	// Updates returns the identity's global feed entries newer than since.
	Updates(ctx context.Context, identity Fingerprint, since int64) ([]Update, error)
	// History returns up to limit feed entries older than before.
	History(ctx context.Context, identity Fingerprint, limit int, before int64) ([]Update, error)
}

// IdentityService manages local key pairs.
type IdentityService interface {
	Generate() (PrivateKey, error)
	Current() (PrivateKey, error)
	Get(id string) (PrivateKey, error)
	SetCurrent(id string) error
	List() ([]PrivateKey, error)
}

// MessageService moves messages across the relay.
type MessageService interface {
	Send(ctx context.Context, priv PrivateKey, chat Chat, msg Message) (DeliveryStatus, error)
	// History lists the chat's messages found in a page of the relay's
	// identity-wide feed. limit and before page the feed by relay
	// receipt time; entries from other senders count against the page,
	// so a page may come back short for the chat even when older
	// matching messages exist.
	History(ctx context.Context, priv PrivateKey, chat Chat, limit int, before int64) ([]Message, error)
	FetchNew(ctx context.Context, priv PrivateKey, since int64) ([]IncomingMessage, error)
}

// SyncService merges the relay's update feed into local chat history.
type SyncService interface {
	Sync(ctx context.Context, keyID string) (int, error)
}

// MediaService hydrates and stores media attachments.
type MediaService interface {
	Hydrate(priv PrivateKey, m Media) (Media, error)
	Store(priv PrivateKey, m Media) error
	Materialize(priv PrivateKey, m Media) (path string, cleanup func(), err error)
}
