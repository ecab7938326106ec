// Package message implements the remote sync client: sending messages
// through the relay, fetching paginated chat history, and polling the
// global update feed.
//
// Batch operations are best-effort per item: one update that fails to
// parse or decrypt is dropped (and logged at debug level), never allowed
// to abort the rest of the batch.
package message
