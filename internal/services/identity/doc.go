// Package identity implements the key store service: generation, lookup
// and selection of local RSA identities, plus the read-only public-key
// exposure helpers (fingerprint, key picture, PEM export).
package identity
