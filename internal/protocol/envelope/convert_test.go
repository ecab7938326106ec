package envelope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sealchat/internal/domain"
	"sealchat/internal/protocol/envelope"
)

func TestToMessage_NoMedia(t *testing.T) {
	msg, media := envelope.ToMessage(domain.RemoteMessageEnvelope{
		Content:            "hi",
		GeneratedTimestamp: 123,
	}, "")

	assert.NotEmpty(t, msg.ID)
	assert.Empty(t, msg.ChatID, "chat id is the reconciler's to assign")
	assert.Equal(t, domain.SeqUnassigned, msg.Seq)
	assert.Equal(t, domain.StatusIncoming, msg.Status)
	assert.Equal(t, "hi", msg.Content)
	assert.EqualValues(t, 123, msg.Timestamp)
	assert.Nil(t, media)
	assert.False(t, msg.HasMedia())
}

func TestToMessage_SuppliedID(t *testing.T) {
	msg, _ := envelope.ToMessage(domain.RemoteMessageEnvelope{Content: "x"}, "msg-7")
	assert.Equal(t, "msg-7", msg.ID)
}

func TestToMessage_MintsMedia(t *testing.T) {
	msg, media := envelope.ToMessage(domain.RemoteMessageEnvelope{
		Content:    "pic",
		MediaMime:  "image/jpeg",
		MediaSize:  3,
		MediaBytes: []byte{1, 2, 3},
	}, "")

	require.NotNil(t, media)
	assert.NotEmpty(t, media.ID)
	assert.Equal(t, media.ID, msg.MediaID)
	assert.Equal(t, "image/jpeg", media.Mime)
	assert.EqualValues(t, 3, media.Size)
	assert.Equal(t, []byte{1, 2, 3}, media.Content)
}

func TestToMessage_FreshMediaIDsPerCall(t *testing.T) {
	env := domain.RemoteMessageEnvelope{Content: "x", MediaBytes: []byte{1}}
	_, m1 := envelope.ToMessage(env, "")
	_, m2 := envelope.ToMessage(env, "")
	require.NotNil(t, m1)
	require.NotNil(t, m2)
	// Media ids are opaque, not content addressed: identical bytes never
	// collapse into one record.
	assert.NotEqual(t, m1.ID, m2.ID)
}

func TestFromMessage_NoMedia(t *testing.T) {
	env, err := envelope.FromMessage(domain.Message{
		ID: "m1", Content: "out", Timestamp: 555,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.EnvelopeVersion, env.EnvelopeVersionID)
	assert.Equal(t, "out", env.Content)
	assert.EqualValues(t, 555, env.GeneratedTimestamp)
	assert.False(t, env.HasMedia())
}

func TestFromMessage_UnhydratedMedia_Fails(t *testing.T) {
	msg := domain.Message{ID: "m1", Content: "pic", MediaID: "media-1"}

	var cerr *domain.ConsistencyError
	_, err := envelope.FromMessage(msg, nil)
	require.ErrorAs(t, err, &cerr)

	_, err = envelope.FromMessage(msg, &domain.Media{ID: "media-1", Mime: "image/png"})
	require.ErrorAs(t, err, &cerr, "metadata-only media must not be sent")
}

func TestFromMessage_HydratedMedia(t *testing.T) {
	env, err := envelope.FromMessage(
		domain.Message{ID: "m1", Content: "pic", MediaID: "media-1", Timestamp: 9},
		&domain.Media{ID: "media-1", Mime: "image/png", Size: 2, Content: []byte{7, 8}},
	)
	require.NoError(t, err)
	assert.Equal(t, "image/png", env.MediaMime)
	assert.EqualValues(t, 2, env.MediaSize)
	assert.Equal(t, []byte{7, 8}, env.MediaBytes)
}
