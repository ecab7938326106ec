// Package envelope implements the codec between plaintext envelope
// structures and the opaque encrypted blobs that travel to the relay or
// rest in the local database.
//
// Serialization always happens strictly before encryption and strictly
// after decryption: the codec only ever encrypts a serialized JSON string
// (or, for media content, raw bytes), never structured data directly.
//
// Two directions exist with different trust boundaries:
//
//   - Remote: hybrid encryption. A fresh content key seals the serialized
//     envelope with ChaCha20-Poly1305 and is itself wrapped with RSA-OAEP
//     under the recipient's public key. Only the holder of the matching
//     private key can open the blob. Nothing is signed.
//   - Local: symmetric only, under a key derived deterministically from
//     the owning private key's material.
//
// Every failure to open or parse a blob is reported as a
// *domain.DecryptionError so batch callers can drop the item and move on.
package envelope
