// Package crypto exposes the primitives used by sealchat.
//
// Contents
//
//   - RSA-2048 key generation, PKCS#8/PKIX (de)serialization and PEM
//     encoding (GenerateRSA, MarshalPrivate, ParsePrivate, PublicPEM)
//   - RSA-OAEP wrapping of content-encryption keys (WrapKey, UnwrapKey)
//   - ChaCha20-Poly1305 sealing of serialized envelopes and raw media
//     bytes (Seal, Open)
//   - Deterministic local-storage key derivation from private key
//     material (LocalKey)
//   - Public-key fingerprints and the "key picture" visual fingerprint
//     (Fingerprint, KeyPicture)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//
// # Notes
//
// The envelope scheme deliberately carries no signatures: anything that
// can reach the relay can claim any sender key. Callers must not treat a
// successful decrypt as proof of origin.
package crypto
