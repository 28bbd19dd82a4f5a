package model

import (
	"gorm.io/gorm"

	"github.com/doracomply/doracomply/pkg/encryption"
)

// CipherContextKey is the context key under which pkg/db stores the data-key
// cipher on the gorm session.
type cipherContextKey struct{}

// CipherContextKeyValue is used by pkg/db to attach the cipher.
var CipherContextKeyValue = cipherContextKey{}

// noopCipher passes data through unchanged. Used when no data key is
// configured, e.g. in sqlmock tests.
type noopCipher struct{}

func (noopCipher) Encrypt(_, plainText []byte) ([]byte, error)  { return plainText, nil }
func (noopCipher) Decrypt(_, packedText []byte) ([]byte, error) { return packedText, nil }

// getCipherForDb extracts the cipher from the gorm session context.
func getCipherForDb(tx *gorm.DB) encryption.SymmetricCipher {
	if tx.Statement != nil && tx.Statement.Context != nil {
		if cipher, ok := tx.Statement.Context.Value(CipherContextKeyValue).(encryption.SymmetricCipher); ok {
			return cipher
		}
	}
	return noopCipher{}
}
