package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"io"
)

const (
	nonceSize    = 12
	versionMagic = byte('D')
)

// SymmetricCipher seals and opens payloads bound to an additional
// authenticated data string (typically the owning record's ID).
type SymmetricCipher interface {
	Encrypt(aad, plainText []byte) ([]byte, error)
	Decrypt(aad, packedText []byte) ([]byte, error)
}

// Symmetric is an AES-256-GCM SymmetricCipher.
type Symmetric struct {
	aesgcm cipher.AEAD
}

// NewSymmetric creates a cipher from a 32-byte key.
func NewSymmetric(key []byte) (SymmetricCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Symmetric{aesgcm: aesgcm}, nil
}

// Encrypt seals plainText and packs it as version || nonce || ciphertext+tag.
func (s *Symmetric) Encrypt(aad, plainText []byte) ([]byte, error) {
	nonce, err := RandomBytes(nonceSize)
	if err != nil {
		return nil, err
	}

	sealed := s.aesgcm.Seal(nil, nonce, plainText, aad)

	packed := make([]byte, 0, 1+nonceSize+len(sealed))
	packed = append(packed, versionMagic)
	packed = append(packed, nonce...)
	packed = append(packed, sealed...)
	return packed, nil
}

// Decrypt unpacks and opens a payload produced by Encrypt.
func (s *Symmetric) Decrypt(aad, packedText []byte) ([]byte, error) {
	if len(packedText) < 1+nonceSize+s.aesgcm.Overhead() {
		return nil, errors.New("ciphertext is too short")
	}
	if packedText[0] != versionMagic {
		return nil, errors.New("unknown ciphertext version")
	}

	nonce := packedText[1 : 1+nonceSize]
	sealed := packedText[1+nonceSize:]

	return s.aesgcm.Open(nil, nonce, sealed, aad)
}

// RandomBytes returns size cryptographically random bytes.
func RandomBytes(size int) ([]byte, error) {
	value := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, value); err != nil {
		return nil, err
	}
	return value, nil
}
