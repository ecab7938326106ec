package envelope

import (
	"github.com/google/uuid"

	"sealchat/internal/domain"
)

// ToMessage converts a decrypted remote envelope into a local message.
// A fresh id is assigned unless messageID is non-empty. The chat id is
// left empty: the reconciler is the sole writer of that field. When the
// envelope carries media bytes a Media value is minted with a new id;
// otherwise no media is attached.
func ToMessage(env domain.RemoteMessageEnvelope, messageID string) (domain.Message, *domain.Media) {
	if messageID == "" {
		messageID = uuid.NewString()
	}
	msg := domain.Message{
		ID:        messageID,
		Seq:       domain.SeqUnassigned,
		Status:    domain.StatusIncoming,
		Content:   env.Content,
		Timestamp: env.GeneratedTimestamp,
	}
	if !env.HasMedia() {
		return msg, nil
	}
	media := &domain.Media{
		ID:      uuid.NewString(),
		Mime:    env.MediaMime,
		Size:    env.MediaSize,
		Content: append([]byte(nil), env.MediaBytes...),
	}
	msg.MediaID = media.ID
	return msg, media
}

// FromMessage converts an outgoing message into a remote envelope. When
// the message references media, the media must be hydrated: the codec
// never silently sends an empty attachment.
func FromMessage(msg domain.Message, media *domain.Media) (domain.RemoteMessageEnvelope, error) {
	env := domain.RemoteMessageEnvelope{
		EnvelopeVersionID:  domain.EnvelopeVersion,
		Content:            msg.Content,
		GeneratedTimestamp: msg.Timestamp,
	}
	if msg.HasMedia() {
		if media == nil || !media.Hydrated() {
			return domain.RemoteMessageEnvelope{}, &domain.ConsistencyError{
				Reason: "message " + msg.ID + " references media with no hydrated content",
			}
		}
		env.MediaMime = media.Mime
		env.MediaSize = media.Size
		env.MediaBytes = append([]byte(nil), media.Content...)
	}
	return env, nil
}
