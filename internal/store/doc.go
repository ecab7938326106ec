// Package store persists sealchat state in a local SQLite database:
// key material, chats, message rows, media and sync watermarks.
//
// Message content and media metadata never touch disk in plaintext. Rows
// hold encrypted local envelopes produced by the envelope codec under the
// owning identity's key; the database itself only stores and returns the
// opaque bytes unmodified. Plaintext columns are limited to what queries
// need: ids, sequence numbers, timestamps, delivery status and a dedupe
// hash.
package store
