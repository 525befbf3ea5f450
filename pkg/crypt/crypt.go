// Package crypt seals secret system settings with AES-256-GCM. Sealed
// values are base64url(nonce || ciphertext || tag) prefixed with "enc:" so
// stored rows can be told apart from plaintext.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PascalSeth/trendiwear/config"
)

const Prefix = "enc:"

// ErrDecrypt covers malformed input and failed authentication alike.
var ErrDecrypt = errors.New("crypt: decryption failed")

type Box struct {
	aead cipher.AEAD
}

// New derives the AES key from secret with SHA-256.
func New(secret string) (*Box, error) {
	if secret == "" {
		return nil, errors.New("crypt: empty key")
	}
	k := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(k[:])
	if err != nil {
		return nil, fmt.Errorf("crypt: new cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("crypt: new GCM: %w", err)
	}
	return &Box{aead: gcm}, nil
}

// Default keys the box with APP_KEY, falling back to JWT_SECRET.
func Default() (*Box, error) {
	return New(config.Get("APP_KEY", config.JWTSecret()))
}

func (b *Box) Seal(plain string) (string, error) {
	nonce := make([]byte, b.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypt: nonce: %w", err)
	}
	out := b.aead.Seal(nonce, nonce, []byte(plain), nil)
	return Prefix + base64.URLEncoding.EncodeToString(out), nil
}

// Open reverses Seal. Values without the prefix are returned unchanged.
func (b *Box) Open(sealed string) (string, error) {
	if !IsSealed(sealed) {
		return sealed, nil
	}
	data, err := base64.URLEncoding.DecodeString(strings.TrimPrefix(sealed, Prefix))
	if err != nil {
		return "", ErrDecrypt
	}
	n := b.aead.NonceSize()
	if len(data) < n {
		return "", ErrDecrypt
	}
	plain, err := b.aead.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

func IsSealed(s string) bool { return strings.HasPrefix(s, Prefix) }

// Mask hides all but the last four characters.
func Mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
