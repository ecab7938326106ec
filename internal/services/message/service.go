package message

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/protocol/envelope"
)

// Relay outcomes that count as a successful hand-off.
const (
	outcomeAccepted = "accepted"
	outcomeQueued   = "queued"
)

// Service moves messages across the relay.
type Service struct {
	relay domain.RelayClient
	media domain.MediaStore
	log   *logrus.Entry
}

// New constructs a message service. The media store is consulted when an
// outgoing message references an attachment.
func New(relay domain.RelayClient, media domain.MediaStore) *Service {
	return &Service{
		relay: relay,
		media: media,
		log:   logrus.WithField("component", "message"),
	}
}

// Send encrypts msg under the chat's counterparty key and posts it. The
// returned status is the relay-reported outcome mapped onto the message
// lifecycle; transport failures yield StatusFailed plus the typed error.
func (s *Service) Send(ctx context.Context, priv domain.PrivateKey, chat domain.Chat, msg domain.Message) (domain.DeliveryStatus, error) {
	var media *domain.Media
	if msg.HasMedia() {
		m, err := s.loadMedia(priv, msg.MediaID)
		if err != nil {
			return domain.StatusFailed, err
		}
		media = m
	}

	env, err := envelope.FromMessage(msg, media)
	if err != nil {
		// ConsistencyError: never send an empty attachment.
		return domain.StatusFailed, err
	}
	blob, err := envelope.EncryptRemote(chat.PeerKey, env)
	if err != nil {
		return domain.StatusFailed, err
	}

	update := domain.Update{
		SenderKeyBytes: priv.Public().Bytes(),
		EnvelopeBytes:  blob,
	}
	outcome, err := s.relay.Push(ctx, fingerprint(chat.PeerKey), update)
	if err != nil {
		return domain.StatusFailed, err
	}
	if outcome == outcomeAccepted || outcome == outcomeQueued {
		return domain.StatusSent, nil
	}
	return domain.StatusFailed, nil
}

// History reconstructs chat messages from the relay's identity-wide feed.
// limit and before page that feed by relay receipt time before any
// filtering happens here, so a page can hold fewer than limit messages
// for the chat when other senders' entries occupy it, and the returned
// Timestamp (the sender's generated time) is not a paging cursor.
// Entries from other senders and undecryptable entries are skipped.
func (s *Service) History(ctx context.Context, priv domain.PrivateKey, chat domain.Chat, limit int, before int64) ([]domain.Message, error) {
	updates, err := s.relay.History(ctx, fingerprint(priv.Public()), limit, before)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Message, 0, len(updates))
	for _, u := range updates {
		sender, err := domain.NewPublicKey(u.SenderKeyBytes)
		if err != nil || !sender.Equal(chat.PeerKey) {
			continue
		}
		env, err := envelope.DecryptRemote(priv, u.EnvelopeBytes)
		if err != nil {
			s.dropUpdate(err)
			continue
		}
		msg, media := envelope.ToMessage(env, "")
		if media != nil {
			// Nothing from this view is persisted; a minted media id
			// would reference a record that exists nowhere.
			msg.MediaID = ""
		}
		msg.ChatID = chat.ID
		out = append(out, msg)
	}
	return out, nil
}

// FetchNew polls the global update feed for everything newer than since,
// decrypts each entry and pairs it with the claimed sender key. Corrupt or
// foreign updates are dropped silently; one bad item never aborts the batch.
func (s *Service) FetchNew(ctx context.Context, priv domain.PrivateKey, since int64) ([]domain.IncomingMessage, error) {
	updates, err := s.relay.Updates(ctx, fingerprint(priv.Public()), since)
	if err != nil {
		return nil, err
	}
	out := make([]domain.IncomingMessage, 0, len(updates))
	for _, u := range updates {
		sender, err := domain.NewPublicKey(u.SenderKeyBytes)
		if err != nil {
			s.dropUpdate(err)
			continue
		}
		env, err := envelope.DecryptRemote(priv, u.EnvelopeBytes)
		if err != nil {
			s.dropUpdate(err)
			continue
		}
		msg, media := envelope.ToMessage(env, "")
		out = append(out, domain.IncomingMessage{Sender: sender, Message: msg, Media: media})
	}
	return out, nil
}

// loadMedia assembles the stored media record for sending. Content may
// come back nil (metadata-only row); the codec's hydration guard decides
// whether that is fatal.
func (s *Service) loadMedia(priv domain.PrivateKey, id string) (*domain.Media, error) {
	meta, ok, err := s.media.MediaMeta(priv, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &domain.ConsistencyError{Reason: "media " + id + " not found"}
	}
	content, ok, err := s.media.MediaContent(priv, id)
	if err != nil {
		return nil, err
	}
	if ok {
		meta.Content = content
	}
	return &meta, nil
}

func (s *Service) dropUpdate(err error) {
	var derr *domain.DecryptionError
	if errors.As(err, &derr) {
		s.log.WithError(err).Debug("dropping undecryptable update")
		return
	}
	s.log.WithError(err).Debug("dropping malformed update")
}

func fingerprint(pub domain.PublicKey) domain.Fingerprint {
	return domain.Fingerprint(crypto.Fingerprint(pub.Bytes()))
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
