// Package cryptoutil seals short secrets, such as upstream bearer tokens, for
// storage outside the process.
package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Encryptor seals and opens secrets. The context bytes are authenticated but
// not stored, so a sealed value only opens under the context it was sealed
// with (for sessions, the session id).
type Encryptor interface {
	Encrypt(plaintext, context []byte) (string, error)
	Decrypt(sealed string, context []byte) ([]byte, error)
}

const (
	// Version prefixes let the format change without invalidating stored values.
	gcmPrefix   = "gcm1:"
	plainPrefix = "plain:"
)

// ErrUnknownFormat is returned for values no Encryptor in this package produced.
var ErrUnknownFormat = errors.New("unknown sealed value format")

// AESGCMEncryptor seals with AES-256-GCM and a random nonce per value.
type AESGCMEncryptor struct {
	aead cipher.AEAD
}

// NewAESGCMEncryptor builds an encryptor from a 32-byte key.
func NewAESGCMEncryptor(key []byte) (*AESGCMEncryptor, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("aes-gcm key must be 32 bytes, got %d", len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &AESGCMEncryptor{aead: aead}, nil
}

// Encrypt returns "gcm1:" + base64(nonce || ciphertext).
func (e *AESGCMEncryptor) Encrypt(plaintext, context []byte) (string, error) {
	nonce := make([]byte, e.aead.NonceSize(), e.aead.NonceSize()+len(plaintext)+e.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("read nonce: %w", err)
	}
	out := e.aead.Seal(nonce, nonce, plaintext, context)
	return gcmPrefix + base64.RawStdEncoding.EncodeToString(out), nil
}

// Decrypt opens a value produced by Encrypt with the same context.
func (e *AESGCMEncryptor) Decrypt(sealed string, context []byte) ([]byte, error) {
	payload, ok := strings.CutPrefix(sealed, gcmPrefix)
	if !ok {
		return nil, ErrUnknownFormat
	}
	raw, err := base64.RawStdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode sealed value: %w", err)
	}
	n := e.aead.NonceSize()
	if len(raw) < n+e.aead.Overhead() {
		return nil, errors.New("sealed value too short")
	}
	plain, err := e.aead.Open(nil, raw[:n], raw[n:], context)
	if err != nil {
		return nil, fmt.Errorf("open sealed value: %w", err)
	}
	return plain, nil
}

// NoopEncryptor only encodes. It is for development without a key; the
// context is ignored.
type NoopEncryptor struct{}

func (NoopEncryptor) Encrypt(plaintext, _ []byte) (string, error) {
	return plainPrefix + base64.RawStdEncoding.EncodeToString(plaintext), nil
}

func (NoopEncryptor) Decrypt(sealed string, _ []byte) ([]byte, error) {
	payload, ok := strings.CutPrefix(sealed, plainPrefix)
	if !ok {
		return nil, ErrUnknownFormat
	}
	return base64.RawStdEncoding.DecodeString(payload)
}
