// Package security provides at-rest encryption for cached itinerary
// data, since a trip request's party composition and budget are
// personal information that shouldn't sit in Redis as plaintext.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// kdfSalt must stay fixed: rotating it would make every previously
// cached ciphertext undecryptable under the same passphrase.
var kdfSalt = []byte("tabiplan-plancache-kdf-salt-v1")

const kdfIterations = 100000

// Encryptor performs AES-GCM encryption keyed off a passphrase.
type Encryptor struct {
	gcm cipher.AEAD
}

// NewEncryptor derives a 32-byte AES key from key via PBKDF2-SHA256.
func NewEncryptor(key string) (*Encryptor, error) {
	derivedKey := pbkdf2.Key([]byte(key), kdfSalt, kdfIterations, 32, sha256.New)

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &Encryptor{gcm: gcm}, nil
}

// EncryptBytes seals data behind a random nonce, prepended to the
// returned ciphertext.
func (e *Encryptor) EncryptBytes(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	nonce := make([]byte, e.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return e.gcm.Seal(nonce, nonce, data, nil), nil
}

// DecryptBytes reverses EncryptBytes.
func (e *Encryptor) DecryptBytes(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 {
		return nil, nil
	}
	nonceSize := e.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	return e.gcm.Open(nil, nonce, sealed, nil)
}
