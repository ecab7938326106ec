package domain

// DeliveryStatus tracks where a message is in its lifecycle.
type DeliveryStatus string

const (
	// StatusPending marks an outgoing message not yet accepted by the relay.
	StatusPending DeliveryStatus = "pending"
	// StatusIncoming marks a message decrypted from the update feed.
	StatusIncoming DeliveryStatus = "incoming"
	// StatusSent marks a message the relay reported as accepted or queued.
	StatusSent DeliveryStatus = "sent"
	// StatusFailed marks a message the relay rejected or that never reached it.
	StatusFailed DeliveryStatus = "failed"
)

// SeqUnassigned is the sequence number of a message that has not been
// persisted yet. The message store assigns the real per-chat sequence.
const SeqUnassigned int64 = -1

// Message is a single chat message. Content lives here in plaintext; the
// store encrypts it into a LocalMessageEnvelope before it touches disk.
type Message struct {
	ID        string
	ChatID    string
	Seq       int64
	Status    DeliveryStatus
	Content   string
	Timestamp int64  // origination time, epoch millis
	MediaID   string // optional reference into the media store
}

// HasMedia reports whether the message references an attachment.
func (m Message) HasMedia() bool { return m.MediaID != "" }

// Media is a binary attachment. Content is nil until hydrated so large
// blobs never ride along with message listings.
type Media struct {
	ID      string
	Mime    string
	Size    int64
	Content []byte
}

// Hydrated reports whether the content bytes are present in memory.
func (m Media) Hydrated() bool { return m.Content != nil }

// IncomingMessage pairs a decrypted message with the public key its sender
// claimed. The claim is unauthenticated: nothing in the envelope scheme
// signs it, so it is exactly as trustworthy as the relay. Media is non-nil
// when the envelope carried attachment bytes.
type IncomingMessage struct {
	Sender  PublicKey
	Message Message
	Media   *Media
}
