package message_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/relay"
	"sealchat/internal/services/message"
	"sealchat/internal/store"
)

type fixture struct {
	store *store.Store
	relay *relay.Client
	svc   *message.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), store.DefaultDBFileName))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	srv := httptest.NewServer(relay.NewServer())
	t.Cleanup(srv.Close)
	c := relay.New(srv.URL, srv.Client())

	return &fixture{store: s, relay: c, svc: message.New(c, s)}
}

func (f *fixture) newIdentity(t *testing.T) domain.PrivateKey {
	t.Helper()
	rsaKey, err := crypto.GenerateRSA()
	require.NoError(t, err)
	key, err := domain.NewPrivateKey(uuid.NewString(), rsaKey, time.Now().UnixMilli())
	require.NoError(t, err)
	require.NoError(t, f.store.PutKey(key))
	return key
}

func chatWith(owner domain.PrivateKey, peer domain.PublicKey) domain.Chat {
	return domain.Chat{
		ID:      uuid.NewString(),
		KeyID:   owner.ID,
		PeerKey: peer,
	}
}

func outgoing(chatID, content string, ts int64) domain.Message {
	return domain.Message{
		ID:        uuid.NewString(),
		ChatID:    chatID,
		Seq:       domain.SeqUnassigned,
		Status:    domain.StatusPending,
		Content:   content,
		Timestamp: ts,
	}
}

// Alice sends "hello"; only Bob's key can open the delivered update.
func TestSendAndFetch_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.newIdentity(t)
	bob := f.newIdentity(t)

	status, err := f.svc.Send(ctx, alice, chatWith(alice, bob.Public()), outgoing("c", "hello", 1000))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, status)

	got, err := f.svc.FetchNew(ctx, bob, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hello", got[0].Message.Content)
	assert.EqualValues(t, 1000, got[0].Message.Timestamp)
	assert.Equal(t, domain.StatusIncoming, got[0].Message.Status)
	assert.True(t, got[0].Sender.Equal(alice.Public()))

	// An eavesdropper polling Bob's feed gets the blob but cannot open it.
	eve := f.newIdentity(t)
	bobFP := domain.Fingerprint(crypto.Fingerprint(bob.Public().Bytes()))
	raw, err := f.relay.Updates(ctx, bobFP, 0)
	require.NoError(t, err)
	require.Len(t, raw, 1)
	overheard, err := f.svc.FetchNew(ctx, eve, 0)
	require.NoError(t, err)
	assert.Empty(t, overheard, "feeds are per fingerprint")
}

func TestSend_TransportFailure(t *testing.T) {
	f := newFixture(t)
	alice := f.newIdentity(t)
	bob := f.newIdentity(t)

	dead := message.New(relay.New("http://127.0.0.1:1", nil), f.store)
	status, err := dead.Send(context.Background(), alice, chatWith(alice, bob.Public()), outgoing("c", "x", 1))
	assert.Equal(t, domain.StatusFailed, status)
	var terr *domain.TransportError
	require.ErrorAs(t, err, &terr)
}

func TestSend_MissingMedia(t *testing.T) {
	f := newFixture(t)
	alice := f.newIdentity(t)
	bob := f.newIdentity(t)

	msg := outgoing("c", "pic", 1)
	msg.MediaID = "absent"
	status, err := f.svc.Send(context.Background(), alice, chatWith(alice, bob.Public()), msg)
	assert.Equal(t, domain.StatusFailed, status)
	var cerr *domain.ConsistencyError
	require.ErrorAs(t, err, &cerr)
}

func TestSend_MetadataOnlyMedia(t *testing.T) {
	f := newFixture(t)
	alice := f.newIdentity(t)
	bob := f.newIdentity(t)

	bare := domain.Media{ID: uuid.NewString(), Mime: "image/png", Size: 10}
	require.NoError(t, f.store.PutMedia(alice, bare))

	msg := outgoing("c", "pic", 1)
	msg.MediaID = bare.ID
	status, err := f.svc.Send(context.Background(), alice, chatWith(alice, bob.Public()), msg)
	assert.Equal(t, domain.StatusFailed, status)
	var cerr *domain.ConsistencyError
	require.ErrorAs(t, err, &cerr)
}

func TestSend_WithAttachment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.newIdentity(t)
	bob := f.newIdentity(t)

	media := domain.Media{ID: uuid.NewString(), Mime: "image/png", Size: 4, Content: []byte{9, 9, 9, 9}}
	require.NoError(t, f.store.PutMedia(alice, media))

	msg := outgoing("c", "see attached", 2000)
	msg.MediaID = media.ID
	status, err := f.svc.Send(ctx, alice, chatWith(alice, bob.Public()), msg)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, status)

	got, err := f.svc.FetchNew(ctx, bob, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NotNil(t, got[0].Media)
	assert.Equal(t, "image/png", got[0].Media.Mime)
	assert.Equal(t, []byte{9, 9, 9, 9}, got[0].Media.Content)
	assert.Equal(t, got[0].Media.ID, got[0].Message.MediaID)
}

// One corrupt item in the feed never costs the rest of the batch.
func TestFetchNew_SkipsCorruptUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.newIdentity(t)
	bob := f.newIdentity(t)
	bobFP := domain.Fingerprint(crypto.Fingerprint(bob.Public().Bytes()))

	_, err := f.svc.Send(ctx, alice, chatWith(alice, bob.Public()), outgoing("c", "good one", 1))
	require.NoError(t, err)
	_, err = f.relay.Push(ctx, bobFP, domain.Update{
		SenderKeyBytes: []byte("not a der key"),
		EnvelopeBytes:  []byte("garbage"),
	})
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, alice, chatWith(alice, bob.Public()), outgoing("c", "good two", 2))
	require.NoError(t, err)

	got, err := f.svc.FetchNew(ctx, bob, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "good one", got[0].Message.Content)
	assert.Equal(t, "good two", got[1].Message.Content)
}

// The page is cut from the identity-wide feed before sender filtering,
// so a foreign entry occupying the page leaves it short for the chat.
func TestHistory_ForeignEntriesCountAgainstPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.newIdentity(t)
	carol := f.newIdentity(t)
	bob := f.newIdentity(t)

	_, err := f.svc.Send(ctx, alice, chatWith(alice, bob.Public()), outgoing("c", "from alice", 10))
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, carol, chatWith(carol, bob.Public()), outgoing("c", "from carol", 20))
	require.NoError(t, err)

	aliceChat := chatWith(bob, alice.Public())
	got, err := f.svc.History(ctx, bob, aliceChat, 1, 0)
	require.NoError(t, err)
	assert.Empty(t, got, "newest page entry is carol's, so alice's page is empty")

	got, err = f.svc.History(ctx, bob, aliceChat, 2, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "from alice", got[0].Content)
}

// History persists nothing, so an attachment message must not come back
// referencing a media record that was never stored.
func TestHistory_AttachmentHasNoDanglingMediaID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.newIdentity(t)
	bob := f.newIdentity(t)

	media := domain.Media{ID: uuid.NewString(), Mime: "image/png", Size: 2, Content: []byte{7, 8}}
	require.NoError(t, f.store.PutMedia(alice, media))
	msg := outgoing("c", "pic", 100)
	msg.MediaID = media.ID
	_, err := f.svc.Send(ctx, alice, chatWith(alice, bob.Public()), msg)
	require.NoError(t, err)

	got, err := f.svc.History(ctx, bob, chatWith(bob, alice.Public()), 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "pic", got[0].Content)
	assert.False(t, got[0].HasMedia())
}

func TestHistory_FiltersBySender(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := f.newIdentity(t)
	carol := f.newIdentity(t)
	bob := f.newIdentity(t)

	_, err := f.svc.Send(ctx, alice, chatWith(alice, bob.Public()), outgoing("c", "from alice", 10))
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, carol, chatWith(carol, bob.Public()), outgoing("c", "from carol", 20))
	require.NoError(t, err)

	aliceChat := chatWith(bob, alice.Public())
	got, err := f.svc.History(ctx, bob, aliceChat, 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "from alice", got[0].Content)
	assert.Equal(t, aliceChat.ID, got[0].ChatID)
}
