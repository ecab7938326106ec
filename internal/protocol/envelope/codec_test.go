package envelope_test

import (
	"encoding/binary"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
	"sealchat/internal/protocol/envelope"
)

func newTestKey(t *testing.T) domain.PrivateKey {
	t.Helper()
	rsaKey, err := crypto.GenerateRSA()
	require.NoError(t, err)
	key, err := domain.NewPrivateKey(uuid.NewString(), rsaKey, time.Now().UnixMilli())
	require.NoError(t, err)
	return key
}

func TestRemoteRoundTrip_NoMedia(t *testing.T) {
	recipient := newTestKey(t)
	env := domain.RemoteMessageEnvelope{
		Content:            "hello",
		GeneratedTimestamp: 1000,
	}

	blob, err := envelope.EncryptRemote(recipient.Public(), env)
	require.NoError(t, err)

	got, err := envelope.DecryptRemote(recipient, blob)
	require.NoError(t, err)
	assert.Equal(t, domain.EnvelopeVersion, got.EnvelopeVersionID)
	assert.Equal(t, "hello", got.Content)
	assert.EqualValues(t, 1000, got.GeneratedTimestamp)
	assert.False(t, got.HasMedia())
}

func TestRemoteRoundTrip_WithMedia(t *testing.T) {
	recipient := newTestKey(t)
	env := domain.RemoteMessageEnvelope{
		Content:            "photo",
		GeneratedTimestamp: 2000,
		MediaMime:          "image/png",
		MediaSize:          4,
		MediaBytes:         []byte{0x89, 0x50, 0x4e, 0x47},
	}

	blob, err := envelope.EncryptRemote(recipient.Public(), env)
	require.NoError(t, err)

	got, err := envelope.DecryptRemote(recipient, blob)
	require.NoError(t, err)
	assert.Equal(t, env.MediaMime, got.MediaMime)
	assert.Equal(t, env.MediaSize, got.MediaSize)
	assert.Equal(t, env.MediaBytes, got.MediaBytes)
}

func TestDecryptRemote_OnlyIntendedRecipient(t *testing.T) {
	recipient := newTestKey(t)
	eavesdropper := newTestKey(t)

	blob, err := envelope.EncryptRemote(recipient.Public(), domain.RemoteMessageEnvelope{
		Content: "for your eyes only", GeneratedTimestamp: 1,
	})
	require.NoError(t, err)

	_, err = envelope.DecryptRemote(eavesdropper, blob)
	var derr *domain.DecryptionError
	require.ErrorAs(t, err, &derr)

	got, err := envelope.DecryptRemote(recipient, blob)
	require.NoError(t, err)
	assert.Equal(t, "for your eyes only", got.Content)
}

func TestDecryptRemote_Garbage(t *testing.T) {
	key := newTestKey(t)
	var derr *domain.DecryptionError

	for name, blob := range map[string][]byte{
		"empty":     {},
		"one byte":  {0x01},
		"truncated": {0x01, 0x00, 0xde},
		"random":    []byte("definitely not an envelope blob, just noise"),
	} {
		_, err := envelope.DecryptRemote(key, blob)
		assert.ErrorAs(t, err, &derr, name)
	}
}

func TestDecryptRemote_TamperedCiphertext(t *testing.T) {
	key := newTestKey(t)
	blob, err := envelope.EncryptRemote(key.Public(), domain.RemoteMessageEnvelope{
		Content: "x", GeneratedTimestamp: 1,
	})
	require.NoError(t, err)

	blob[len(blob)-1] ^= 0x01
	_, err = envelope.DecryptRemote(key, blob)
	var derr *domain.DecryptionError
	require.ErrorAs(t, err, &derr)
}

// Future envelope versions must still decode with version-1 semantics.
func TestDecryptRemote_ToleratesFutureVersion(t *testing.T) {
	recipient := newTestKey(t)
	future := domain.RemoteMessageEnvelope{
		EnvelopeVersionID:  7,
		Content:            "from the future",
		GeneratedTimestamp: 3000,
	}

	// Build the blob by hand so EncryptRemote cannot normalize the version.
	plain, err := json.Marshal(future)
	require.NoError(t, err)
	cek, err := crypto.NewContentKey()
	require.NoError(t, err)
	sealed, err := crypto.Seal(cek, plain)
	require.NoError(t, err)
	wrapped, err := crypto.WrapKey(recipient.Public().Key(), cek)
	require.NoError(t, err)
	blob := binary.BigEndian.AppendUint16(nil, uint16(len(wrapped)))
	blob = append(blob, wrapped...)
	blob = append(blob, sealed...)

	got, err := envelope.DecryptRemote(recipient, blob)
	require.NoError(t, err)
	assert.Equal(t, 7, got.EnvelopeVersionID)
	assert.Equal(t, "from the future", got.Content)
}

func TestLocalMessageRoundTrip(t *testing.T) {
	owner := newTestKey(t)
	env := domain.LocalMessageEnvelope{
		Content:            "at rest",
		GeneratedTimestamp: 42,
		Status:             domain.StatusSent,
		MediaID:            "media-1",
	}

	blob, err := envelope.EncryptLocalMessage(owner, env)
	require.NoError(t, err)

	got, err := envelope.DecryptLocalMessage(owner, blob)
	require.NoError(t, err)
	env.EnvelopeVersionID = domain.EnvelopeVersion
	assert.Equal(t, env, got)
}

func TestLocalMessage_WrongOwner(t *testing.T) {
	owner := newTestKey(t)
	other := newTestKey(t)

	blob, err := envelope.EncryptLocalMessage(owner, domain.LocalMessageEnvelope{Content: "x"})
	require.NoError(t, err)

	_, err = envelope.DecryptLocalMessage(other, blob)
	var derr *domain.DecryptionError
	require.ErrorAs(t, err, &derr)
}

func TestMediaMetaRoundTrip(t *testing.T) {
	owner := newTestKey(t)
	env := domain.LocalMediaMetadataEnvelope{MediaMime: "video/mp4", MediaSize: 1 << 20}

	blob, err := envelope.EncryptMediaMeta(owner, env)
	require.NoError(t, err)

	got, err := envelope.DecryptMediaMeta(owner, blob)
	require.NoError(t, err)
	env.EnvelopeVersionID = domain.EnvelopeVersion
	assert.Equal(t, env, got)
}

func TestLocalBytesRoundTrip(t *testing.T) {
	owner := newTestKey(t)
	content := []byte("raw media content, no envelope structure")

	blob, err := envelope.EncryptLocalBytes(owner, content)
	require.NoError(t, err)
	assert.NotEqual(t, content, blob)

	got, err := envelope.DecryptLocalBytes(owner, blob)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}
