package crypto

import "runtime"

// Wipe overwrites key material in place once it is no longer needed:
// content keys after sealing, derived local keys, DER buffers after
// parsing. Best effort only; earlier copies made by the runtime are out
// of reach.
//
//go:noinline
func Wipe(b []byte) {
	if len(b) == 0 {
		return
	}
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(&b) // the zeroing must not be dropped as a dead store
}
