// Package sync implements the update reconciler: it pulls the relay's
// append-only update feed from the per-identity watermark onward, resolves
// which local chat each decrypted update belongs to, and merges messages
// into local history.
//
// Chat resolution is trust-on-first-use by public-key fingerprint. The
// envelope scheme carries no signatures, so an unknown fingerprint simply
// gets a fresh incoming chat; a forged sender key is indistinguishable
// from a real one. Merging is append-only and idempotent, which makes an
// abandoned (timed out) sync safe: committed messages stay, and the next
// run picks up from the persisted watermark.
package sync
