package crypto_test

import (
	"crypto/x509"
	"strings"
	"testing"

	"sealchat/internal/crypto"
)

func TestKeyPicture_Deterministic(t *testing.T) {
	priv, err := crypto.GenerateRSA()
	if err != nil {
		t.Fatalf("GenerateRSA: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if crypto.KeyPicture(der) != crypto.KeyPicture(der) {
		t.Fatal("key picture not deterministic")
	}
}

func TestKeyPicture_DiffersPerKey(t *testing.T) {
	p1, _ := crypto.GenerateRSA()
	p2, _ := crypto.GenerateRSA()
	d1, _ := x509.MarshalPKIXPublicKey(&p1.PublicKey)
	d2, _ := x509.MarshalPKIXPublicKey(&p2.PublicKey)
	if crypto.KeyPicture(d1) == crypto.KeyPicture(d2) {
		t.Fatal("different keys rendered the same picture")
	}
}

func TestKeyPicture_Shape(t *testing.T) {
	priv, _ := crypto.GenerateRSA()
	der, _ := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	lines := strings.Split(crypto.KeyPicture(der), "\n")
	if len(lines) != 11 { // border + 9 rows + border
		t.Fatalf("want 11 lines, got %d", len(lines))
	}
	for i, l := range lines {
		if len(l) != 19 { // border + 17 columns + border
			t.Fatalf("line %d: want width 19, got %d", i, len(l))
		}
	}
	if !strings.Contains(lines[0], "+") || !strings.Contains(lines[0], "-") {
		t.Fatal("missing border")
	}
}

func TestFingerprint_StableHex(t *testing.T) {
	fp := crypto.Fingerprint([]byte("some key bytes"))
	if len(fp) != 64 {
		t.Fatalf("want 64 hex chars, got %d", len(fp))
	}
	if fp != crypto.Fingerprint([]byte("some key bytes")) {
		t.Fatal("fingerprint not deterministic")
	}
}
