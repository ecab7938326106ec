package crypto_test

import (
	"bytes"
	"testing"

	"sealchat/internal/crypto"
)

func TestSealOpen_RoundTrip(t *testing.T) {
	key, err := crypto.NewContentKey()
	if err != nil {
		t.Fatalf("NewContentKey: %v", err)
	}
	plain := []byte("attack at dawn")

	blob, err := crypto.Seal(key, plain)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	got, err := crypto.Open(key, blob)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("round trip mismatch: got %q", got)
	}
}

func TestOpen_WrongKey_Fails(t *testing.T) {
	key, _ := crypto.NewContentKey()
	other, _ := crypto.NewContentKey()

	blob, err := crypto.Seal(key, []byte("secret"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if _, err := crypto.Open(other, blob); err == nil {
		t.Fatal("expected error with wrong key")
	}
}

func TestOpen_Tampered_Fails(t *testing.T) {
	key, _ := crypto.NewContentKey()
	blob, err := crypto.Seal(key, []byte("secret"))
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	blob[len(blob)-1] ^= 0x01
	if _, err := crypto.Open(key, blob); err == nil {
		t.Fatal("expected error for tampered ciphertext")
	}
}

func TestOpen_Truncated_Fails(t *testing.T) {
	key, _ := crypto.NewContentKey()
	if _, err := crypto.Open(key, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for truncated blob")
	}
}

func TestLocalKey_Deterministic(t *testing.T) {
	priv, err := crypto.GenerateRSA()
	if err != nil {
		t.Fatalf("GenerateRSA: %v", err)
	}
	a, err := crypto.LocalKey(priv)
	if err != nil {
		t.Fatalf("LocalKey: %v", err)
	}
	b, err := crypto.LocalKey(priv)
	if err != nil {
		t.Fatalf("LocalKey: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("local key derivation not deterministic")
	}
}

func TestLocalKey_DiffersPerIdentity(t *testing.T) {
	p1, _ := crypto.GenerateRSA()
	p2, _ := crypto.GenerateRSA()
	k1, _ := crypto.LocalKey(p1)
	k2, _ := crypto.LocalKey(p2)
	if bytes.Equal(k1, k2) {
		t.Fatal("different identities derived the same local key")
	}
}

func TestWrapUnwrap_RoundTrip(t *testing.T) {
	priv, err := crypto.GenerateRSA()
	if err != nil {
		t.Fatalf("GenerateRSA: %v", err)
	}
	cek, _ := crypto.NewContentKey()

	wrapped, err := crypto.WrapKey(&priv.PublicKey, cek)
	if err != nil {
		t.Fatalf("WrapKey: %v", err)
	}
	got, err := crypto.UnwrapKey(priv, wrapped)
	if err != nil {
		t.Fatalf("UnwrapKey: %v", err)
	}
	if !bytes.Equal(got, cek) {
		t.Fatal("unwrapped key differs")
	}

	other, _ := crypto.GenerateRSA()
	if _, err := crypto.UnwrapKey(other, wrapped); err == nil {
		t.Fatal("expected unwrap with wrong private key to fail")
	}
}
