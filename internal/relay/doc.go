// Package relay provides the HTTP implementation of domain.RelayClient.
//
// The relay is an untrusted store-and-forward server: it moves opaque
// encrypted blobs between identities addressed by public-key fingerprint
// and never sees plaintext. Supported operations:
//
//   - Pushing an encrypted update to a recipient's feed.
//   - Fetching the identity's global update feed newer than a timestamp.
//   - Fetching paginated historical feed entries.
//
// All requests are JSON over HTTP and accept a context for cancellation
// and deadlines. Failures surface as *domain.TransportError carrying the
// method, URL and status; nothing is retried inside the client.
package relay
