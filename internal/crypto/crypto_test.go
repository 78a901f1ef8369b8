package crypto

import (
	"encoding/hex"
	"strings"
	"testing"
)

func testKey() string {
	return hex.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
}

func TestRoundtrip(t *testing.T) {
	c, err := New(testKey())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	original := "smtp-password-123"
	encrypted, err := c.Encrypt(original)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if encrypted == original {
		t.Fatal("encrypted text should differ from plaintext")
	}

	decrypted, err := c.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if decrypted != original {
		t.Errorf("got %q, want %q", decrypted, original)
	}
}

func TestNilCipherPassthrough(t *testing.T) {
	var c *Cipher

	enc, err := c.Encrypt("plain")
	if err != nil || enc != "plain" {
		t.Errorf("nil Encrypt = (%q, %v), want passthrough", enc, err)
	}
	dec, err := c.Decrypt("plain")
	if err != nil || dec != "plain" {
		t.Errorf("nil Decrypt = (%q, %v), want passthrough", dec, err)
	}
}

func TestNewEmptyKey(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New(\"\"): %v", err)
	}
	if c != nil {
		t.Error("expected nil cipher for empty key")
	}
}

func TestNewBadKey(t *testing.T) {
	if _, err := New("not-hex"); err == nil {
		t.Error("expected error for non-hex key")
	}
	if _, err := New(hex.EncodeToString([]byte("short"))); err == nil {
		t.Error("expected error for wrong-length key")
	}
}

func TestDecryptTampered(t *testing.T) {
	c, err := New(testKey())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	enc, err := c.Encrypt("value")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	tampered := strings.Replace(enc, enc[:1], "A", 1)
	if tampered == enc {
		tampered = "B" + enc[1:]
	}
	if _, err := c.Decrypt(tampered); err == nil {
		t.Error("expected error decrypting tampered ciphertext")
	}

	if _, err := c.Decrypt("!!not-base64!!"); err == nil {
		t.Error("expected error decrypting invalid base64")
	}

	if _, err := c.Decrypt("c2hvcnQ="); err == nil {
		t.Error("expected error decrypting too-short ciphertext")
	}
}
