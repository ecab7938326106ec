package envelope

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"sealchat/internal/crypto"
	"sealchat/internal/domain"
)

// Remote blob framing: uint16 big-endian wrapped-key length, the RSA-OAEP
// wrapped content key, then the AEAD blob (nonce||ciphertext).
const wrappedLenBytes = 2

// EncryptRemote serializes env and encrypts it for the holder of pub's
// private key. The result is a single opaque blob safe to hand to the
// untrusted relay.
func EncryptRemote(pub domain.PublicKey, env domain.RemoteMessageEnvelope) ([]byte, error) {
	if env.EnvelopeVersionID == 0 {
		env.EnvelopeVersionID = domain.EnvelopeVersion
	}
	plain, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("serialize remote envelope: %w", err)
	}

	cek, err := crypto.NewContentKey()
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(cek)

	sealed, err := crypto.Seal(cek, plain)
	if err != nil {
		return nil, err
	}
	wrapped, err := crypto.WrapKey(pub.Key(), cek)
	if err != nil {
		return nil, fmt.Errorf("wrap content key: %w", err)
	}

	blob := make([]byte, 0, wrappedLenBytes+len(wrapped)+len(sealed))
	blob = binary.BigEndian.AppendUint16(blob, uint16(len(wrapped)))
	blob = append(blob, wrapped...)
	blob = append(blob, sealed...)
	return blob, nil
}

// DecryptRemote opens a blob produced by EncryptRemote and deserializes
// the envelope. Unknown future versions are tolerated with version-1
// semantics.
func DecryptRemote(priv domain.PrivateKey, blob []byte) (domain.RemoteMessageEnvelope, error) {
	var env domain.RemoteMessageEnvelope
	if len(blob) < wrappedLenBytes {
		return env, &domain.DecryptionError{Op: "remote envelope", Err: errors.New("blob too short")}
	}
	wrappedLen := int(binary.BigEndian.Uint16(blob))
	rest := blob[wrappedLenBytes:]
	if len(rest) < wrappedLen {
		return env, &domain.DecryptionError{Op: "remote envelope", Err: errors.New("truncated wrapped key")}
	}

	cek, err := crypto.UnwrapKey(priv.Key(), rest[:wrappedLen])
	if err != nil {
		return env, &domain.DecryptionError{Op: "remote envelope", Err: err}
	}
	defer crypto.Wipe(cek)

	plain, err := crypto.Open(cek, rest[wrappedLen:])
	if err != nil {
		return env, &domain.DecryptionError{Op: "remote envelope", Err: err}
	}
	if err := json.Unmarshal(plain, &env); err != nil {
		return env, &domain.DecryptionError{Op: "remote envelope", Err: err}
	}
	if env.EnvelopeVersionID == 0 {
		env.EnvelopeVersionID = domain.EnvelopeVersion
	}
	return env, nil
}

// EncryptLocalMessage serializes and encrypts a message envelope for
// at-rest storage under the owner's key.
func EncryptLocalMessage(owner domain.PrivateKey, env domain.LocalMessageEnvelope) ([]byte, error) {
	if env.EnvelopeVersionID == 0 {
		env.EnvelopeVersionID = domain.EnvelopeVersion
	}
	plain, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("serialize local envelope: %w", err)
	}
	return encryptLocal(owner, plain)
}

// DecryptLocalMessage reverses EncryptLocalMessage.
func DecryptLocalMessage(owner domain.PrivateKey, blob []byte) (domain.LocalMessageEnvelope, error) {
	var env domain.LocalMessageEnvelope
	plain, err := decryptLocal(owner, blob, "local message envelope")
	if err != nil {
		return env, err
	}
	if err := json.Unmarshal(plain, &env); err != nil {
		return env, &domain.DecryptionError{Op: "local message envelope", Err: err}
	}
	return env, nil
}

// EncryptMediaMeta serializes and encrypts media metadata independently of
// the blob it describes.
func EncryptMediaMeta(owner domain.PrivateKey, env domain.LocalMediaMetadataEnvelope) ([]byte, error) {
	if env.EnvelopeVersionID == 0 {
		env.EnvelopeVersionID = domain.EnvelopeVersion
	}
	plain, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("serialize media metadata envelope: %w", err)
	}
	return encryptLocal(owner, plain)
}

// DecryptMediaMeta reverses EncryptMediaMeta.
func DecryptMediaMeta(owner domain.PrivateKey, blob []byte) (domain.LocalMediaMetadataEnvelope, error) {
	var env domain.LocalMediaMetadataEnvelope
	plain, err := decryptLocal(owner, blob, "media metadata envelope")
	if err != nil {
		return env, err
	}
	if err := json.Unmarshal(plain, &env); err != nil {
		return env, &domain.DecryptionError{Op: "media metadata envelope", Err: err}
	}
	return env, nil
}

// EncryptLocalBytes encrypts raw bytes (media content) under the owner's
// key, mirroring the envelope scheme without a serialization step.
func EncryptLocalBytes(owner domain.PrivateKey, plain []byte) ([]byte, error) {
	return encryptLocal(owner, plain)
}

// DecryptLocalBytes reverses EncryptLocalBytes.
func DecryptLocalBytes(owner domain.PrivateKey, blob []byte) ([]byte, error) {
	return decryptLocal(owner, blob, "media content")
}

func encryptLocal(owner domain.PrivateKey, plain []byte) ([]byte, error) {
	key, err := crypto.LocalKey(owner.Key())
	if err != nil {
		return nil, &domain.KeyError{Op: "derive local key", Err: err}
	}
	defer crypto.Wipe(key)
	return crypto.Seal(key, plain)
}

func decryptLocal(owner domain.PrivateKey, blob []byte, op string) ([]byte, error) {
	key, err := crypto.LocalKey(owner.Key())
	if err != nil {
		return nil, &domain.KeyError{Op: "derive local key", Err: err}
	}
	defer crypto.Wipe(key)

	plain, err := crypto.Open(key, blob)
	if err != nil {
		return nil, &domain.DecryptionError{Op: op, Err: err}
	}
	return plain, nil
}
