// Package media implements on-demand hydration of binary attachments.
// Media rows carry metadata only until a message is opened; content bytes
// are fetched and decrypted lazily so large blobs never sit in memory or
// ride along with message listings.
package media
