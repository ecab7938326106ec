package domain

import "fmt"

// KeyError reports missing or corrupt key material. It is fatal to the
// operation that requested the key and is never silently substituted.
type KeyError struct {
	Op  string
	Err error
}

func (e *KeyError) Error() string {
	if e.Err == nil {
		return "key error: " + e.Op
	}
	return fmt.Sprintf("key error: %s: %v", e.Op, e.Err)
}

func (e *KeyError) Unwrap() error { return e.Err }

// DecryptionError reports a wrong key, tampered ciphertext or malformed
// structure. Callers must treat the item as undecryptable and discard it;
// it never escalates to abort a batch.
type DecryptionError struct {
	Op  string
	Err error
}

func (e *DecryptionError) Error() string {
	if e.Err == nil {
		return "decryption failed: " + e.Op
	}
	return fmt.Sprintf("decryption failed: %s: %v", e.Op, e.Err)
}

func (e *DecryptionError) Unwrap() error { return e.Err }

// TransportError reports a network, timeout or relay-side failure. The
// relay client surfaces it without retrying; retry is the caller's call.
type TransportError struct {
	Op     string
	URL    string
	Status int // HTTP status if one was received, else 0
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport: %s %s: status %d", e.Op, e.URL, e.Status)
	}
	return fmt.Sprintf("transport: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ConsistencyError reports an invariant violation on a single operation,
// such as sending a message whose media was never hydrated. It must not
// affect other in-flight operations.
type ConsistencyError struct {
	Reason string
}

func (e *ConsistencyError) Error() string { return "consistency: " + e.Reason }
