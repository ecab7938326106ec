// Package domain defines the core data model for sealchat: key material,
// chats, messages, media, the envelope formats exchanged with the relay and
// stored locally, the error taxonomy, and the capability interfaces
// implemented by stores, services and the relay client.
//
// The package has no dependencies outside the standard library so every other
// package can import it freely.
package domain
