package encryption

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"teleconsult-service/internal/app/contracts"
	"teleconsult-service/internal/pkg/exceptions"

	"golang.org/x/crypto/chacha20poly1305"
)

// fieldCipher seals individual fields with XChaCha20-Poly1305. The output is
// base64(nonce || ciphertext) so it can be stored as a plain string.
type fieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher builds a cipher from a hex encoded 32 byte key.
func NewFieldCipher(hexKey string) (contracts.FieldCipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("field encryption key is not valid hex: %w", err)
	}
	return newFieldCipher(key)
}

// NewEphemeralFieldCipher uses a random key. Data sealed with it cannot be read
// after a restart.
func NewEphemeralFieldCipher() (contracts.FieldCipher, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return newFieldCipher(key)
}

func newFieldCipher(key []byte) (*fieldCipher, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("field encryption key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}
	return &fieldCipher{aead: aead}, nil
}

func (c *fieldCipher) Encrypt(plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize(), c.aead.NonceSize()+len(plaintext)+c.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", exceptions.ErrEncryptField(err)
	}
	sealed := c.aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c *fieldCipher) Decrypt(ciphertext string) ([]byte, error) {
	sealed, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, exceptions.ErrDecryptField(err)
	}
	if len(sealed) < c.aead.NonceSize() {
		return nil, exceptions.ErrDecryptField(errors.New("ciphertext too short"))
	}

	nonce, body := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, body, nil)
	if err != nil {
		return nil, exceptions.ErrDecryptField(err)
	}
	return plaintext, nil
}
