package domain

// Chat is the local-only association between one of our private keys and a
// counterparty public key. The relay knows nothing about chats; they exist
// purely so incoming updates can be grouped by sender.
type Chat struct {
	ID        string
	KeyID     string // owning PrivateKey id
	PeerKey   PublicKey
	Name      string
	CreatedAt int64
}
