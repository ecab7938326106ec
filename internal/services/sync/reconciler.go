package sync

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

// Reconciler merges the relay's update feed into local chat history.
// Invocations are serialized per identity: the scheduler's tick and a
// user-initiated refresh may fire together, and the watermark
// read-modify-write tolerates exactly one writer.
type Reconciler struct {
	keys    domain.KeyStore
	chats   domain.ChatStore
	msgs    domain.MessageStore
	media   domain.MediaStore
	marks   domain.WatermarkStore
	fetcher domain.MessageService
	log     *logrus.Entry

	mu    sync.Mutex
	locks map[string]*sync.Mutex // one lock per identity id
}

// New constructs a reconciler over the given stores and fetch client.
func New(
	keys domain.KeyStore,
	chats domain.ChatStore,
	msgs domain.MessageStore,
	media domain.MediaStore,
	marks domain.WatermarkStore,
	fetcher domain.MessageService,
) *Reconciler {
	return &Reconciler{
		keys:    keys,
		chats:   chats,
		msgs:    msgs,
		media:   media,
		marks:   marks,
		fetcher: fetcher,
		log:     logrus.WithField("component", "reconciler"),
		locks:   make(map[string]*sync.Mutex),
	}
}

// Sync performs one fetch-and-merge pass for the identity and returns the
// number of newly persisted messages. Duplicate deliveries from
// overlapping poll windows merge to nothing. The watermark advances to
// the newest timestamp among successfully parsed updates; updates that
// never parsed contribute nothing to it.
func (r *Reconciler) Sync(ctx context.Context, keyID string) (int, error) {
	lock := r.lockFor(keyID)
	lock.Lock()
	defer lock.Unlock()

	priv, ok, err := r.keys.Key(keyID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &domain.KeyError{Op: "sync identity " + keyID, Err: errors.New("not found")}
	}

	since, err := r.marks.Watermark(keyID)
	if err != nil {
		return 0, err
	}
	incoming, err := r.fetcher.FetchNew(ctx, priv, since)
	if err != nil {
		return 0, err
	}

	merged := 0
	maxTS := since
	for _, in := range incoming {
		if err := ctx.Err(); err != nil {
			// Abandoned poll: keep what was committed, resume next tick.
			return merged, err
		}
		chat, err := r.resolveChat(priv, in.Sender)
		if err != nil {
			return merged, err
		}

		msg := in.Message
		msg.ChatID = chat.ID
		_, inserted, err := r.msgs.AppendMessage(priv, msg)
		if err != nil {
			return merged, err
		}
		if inserted {
			// Attachment blobs persist only for rows that are new. Every
			// delivery mints fresh media ids, so writing media before the
			// idempotent append would leave an orphan blob on each
			// redelivery.
			if in.Media != nil {
				if err := r.media.PutMedia(priv, *in.Media); err != nil {
					return merged, err
				}
			}
			merged++
		}
		if msg.Timestamp > maxTS {
			maxTS = msg.Timestamp
		}
	}

	if maxTS > since {
		if err := r.marks.SetWatermark(keyID, maxTS); err != nil {
			return merged, err
		}
	}
	r.log.WithFields(logrus.Fields{
		"identity": keyID,
		"fetched":  len(incoming),
		"merged":   merged,
	}).Debug("sync pass complete")
	return merged, nil
}

// resolveChat finds or creates the chat an update belongs to. Unknown
// fingerprints get an auto-created incoming chat (trust-on-first-use).
func (r *Reconciler) resolveChat(priv domain.PrivateKey, sender domain.PublicKey) (domain.Chat, error) {
	fp := domain.Fingerprint(crypto.Fingerprint(sender.Bytes()))
	chat, ok, err := r.chats.ChatByFingerprint(priv.ID, fp)
	if err != nil {
		return domain.Chat{}, err
	}
	if ok {
		return chat, nil
	}
	chat = domain.Chat{
		ID:        uuid.NewString(),
		KeyID:     priv.ID,
		PeerKey:   sender,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := r.chats.PutChat(chat); err != nil {
		return domain.Chat{}, err
	}
	r.log.WithFields(logrus.Fields{
		"identity":    priv.ID,
		"fingerprint": string(fp)[:16],
	}).Info("created chat for first contact")
	return chat, nil
}

func (r *Reconciler) lockFor(keyID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[keyID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[keyID] = lock
	}
	return lock
}

// Compile-time assertion that Reconciler implements domain.SyncService.
var _ domain.SyncService = (*Reconciler)(nil)
