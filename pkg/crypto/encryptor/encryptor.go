package encryptor

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// Provider is the cipher surface the pipeline depends on. Everything
// downstream treats ciphertext as opaque bytes.
type Provider interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// GCM is the default Provider: AES-256-GCM with a fresh random nonce
// per message, output framed as [Nonce | Ciphertext | Tag].
type GCM struct {
	key []byte
}

// NewGCM wraps a 32-byte key.
func NewGCM(key []byte) *GCM {
	return &GCM{key: key}
}

func (g *GCM) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(g.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher block: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Encrypt seals the plaintext. The nonce is never reused; a static
// nonce under GCM would forfeit both confidentiality and integrity.
func (g *GCM) Encrypt(plaintext []byte) ([]byte, error) {
	gcm, err := g.aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens [Nonce | Ciphertext | Tag] and fails on any integrity
// violation.
func (g *GCM) Decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := g.aead()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption/authentication failed: %w", err)
	}
	return plaintext, nil
}
