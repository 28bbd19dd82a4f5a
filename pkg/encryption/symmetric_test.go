package encryption

import (
	"bytes"
	"testing"
)

func testKey() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestNewSymmetric(t *testing.T) {
	cipher, err := NewSymmetric(testKey())
	if err != nil {
		t.Fatalf("unexpected error with valid key: %v", err)
	}
	if cipher == nil {
		t.Fatal("expected non-nil cipher")
	}

	// AES requires 16, 24, or 32 bytes
	if _, err := NewSymmetric(make([]byte, 15)); err == nil {
		t.Error("expected error with invalid key size")
	}
}

func TestSymmetricEncryptDecrypt(t *testing.T) {
	cipher, err := NewSymmetric(testKey())
	if err != nil {
		t.Fatalf("failed to create cipher: %v", err)
	}

	tests := []struct {
		name      string
		aad       []byte
		plaintext []byte
	}{
		{name: "simple payload", aad: []byte("doc-1"), plaintext: []byte(`{"controls":[]}`)},
		{name: "empty plaintext", aad: []byte("doc-2"), plaintext: []byte("")},
		{name: "large payload", aad: []byte("doc-3"), plaintext: bytes.Repeat([]byte("x"), 10000)},
		{name: "binary data", aad: []byte("doc-4"), plaintext: []byte{0x00, 0x01, 0xff, 0xfe}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ciphertext, err := cipher.Encrypt(tt.aad, tt.plaintext)
			if err != nil {
				t.Fatalf("encryption failed: %v", err)
			}
			if len(tt.plaintext) > 0 && bytes.Equal(ciphertext, tt.plaintext) {
				t.Error("ciphertext should differ from plaintext")
			}
			if ciphertext[0] != versionMagic {
				t.Errorf("expected version byte %q, got %q", versionMagic, ciphertext[0])
			}

			decrypted, err := cipher.Decrypt(tt.aad, ciphertext)
			if err != nil {
				t.Fatalf("decryption failed: %v", err)
			}
			if !bytes.Equal(decrypted, tt.plaintext) {
				t.Errorf("round trip mismatch: got %q, want %q", decrypted, tt.plaintext)
			}
		})
	}
}

func TestSymmetricDecryptRejectsWrongAAD(t *testing.T) {
	cipher, _ := NewSymmetric(testKey())

	ciphertext, err := cipher.Encrypt([]byte("doc-a"), []byte("payload"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := cipher.Decrypt([]byte("doc-b"), ciphertext); err == nil {
		t.Error("expected decryption to fail with mismatched aad")
	}
}

func TestSymmetricDecryptRejectsMalformedInput(t *testing.T) {
	cipher, _ := NewSymmetric(testKey())

	if _, err := cipher.Decrypt([]byte("aad"), []byte("short")); err == nil {
		t.Error("expected error for truncated ciphertext")
	}

	ciphertext, _ := cipher.Encrypt([]byte("aad"), []byte("payload"))
	ciphertext[0] = 'X'
	if _, err := cipher.Decrypt([]byte("aad"), ciphertext); err == nil {
		t.Error("expected error for unknown version byte")
	}
}
