package domain

// EnvelopeVersion is the current envelope format version. Decoders must
// tolerate higher versions by falling back to these semantics.
const EnvelopeVersion = 1

// RemoteMessageEnvelope is the wire representation of a message. It is
// JSON-serialized and then encrypted into an opaque blob under the
// recipient's public key before transmission.
type RemoteMessageEnvelope struct {
	EnvelopeVersionID  int    `json:"envelopeVersionId"`
	Content            string `json:"content"`
	GeneratedTimestamp int64  `json:"generatedTimestamp"`
	MediaMime          string `json:"mediaMime,omitempty"`
	MediaSize          int64  `json:"mediaSize,omitempty"`
	MediaBytes         []byte `json:"mediaBytes,omitempty"`
}

// HasMedia reports whether the envelope carries attachment bytes.
func (e RemoteMessageEnvelope) HasMedia() bool { return len(e.MediaBytes) > 0 }

// LocalMessageEnvelope is the at-rest representation of a message,
// encrypted under the owning private key rather than the counterparty's
// public key. Local storage and remote transport have different trust
// boundaries, so the two envelope types stay decoupled.
type LocalMessageEnvelope struct {
	EnvelopeVersionID  int            `json:"envelopeVersionId"`
	Content            string         `json:"content"`
	GeneratedTimestamp int64          `json:"generatedTimestamp"`
	Status             DeliveryStatus `json:"status"`
	MediaID            string         `json:"mediaId,omitempty"`
}

// LocalMediaMetadataEnvelope is the at-rest representation of media
// metadata, encrypted independently of the blob it describes so metadata
// can be listed without decrypting content.
type LocalMediaMetadataEnvelope struct {
	EnvelopeVersionID int    `json:"envelopeVersionId"`
	MediaMime         string `json:"mediaMime"`
	MediaSize         int64  `json:"mediaSize"`
}

// Update is one entry of the relay's append-only feed: the sender's claimed
// public key bytes and the encrypted envelope blob. It carries no chat
// association; the reconciler assigns one.
type Update struct {
	SenderKeyBytes []byte `json:"pubkeyBytes"`
	EnvelopeBytes  []byte `json:"envelopeBytes"`
}
