// Package cryptoutil encrypts KYC identifiers at rest.
package cryptoutil

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Encryptor seals short strings. The field name is bound as associated data,
// so a PAN ciphertext cannot be replayed into the Aadhaar column.
type Encryptor interface {
	Encrypt(field, plaintext string) (string, error)
	Decrypt(field, ciphertext string) (string, error)
}

const (
	KeySize = 32

	gcmPrefix   = "v1:"
	plainPrefix = "noop:"
)

var ErrUnknownCiphertext = errors.New("unknown ciphertext version")

// GCMEncryptor is AES-256-GCM with a random nonce per value. Stored form is
// "v1:" + base64(nonce || sealed).
type GCMEncryptor struct {
	aead cipher.AEAD
}

func NewGCMEncryptor(key []byte) (*GCMEncryptor, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("aes-gcm key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm mode: %w", err)
	}
	return &GCMEncryptor{aead: aead}, nil
}

func (e *GCMEncryptor) Encrypt(field, plaintext string) (string, error) {
	nonce := make([]byte, e.aead.NonceSize(), e.aead.NonceSize()+len(plaintext)+e.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce: %w", err)
	}
	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), []byte(field))
	return gcmPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt also reads values written by PlainEncryptor, so rows stored
// before a key was configured stay readable.
func (e *GCMEncryptor) Decrypt(field, ciphertext string) (string, error) {
	if strings.HasPrefix(ciphertext, plainPrefix) {
		return PlainEncryptor{}.Decrypt(field, ciphertext)
	}
	encoded, ok := strings.CutPrefix(ciphertext, gcmPrefix)
	if !ok {
		return "", ErrUnknownCiphertext
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", field, err)
	}
	ns := e.aead.NonceSize()
	if len(raw) < ns+e.aead.Overhead() {
		return "", fmt.Errorf("decode %s: ciphertext too short", field)
	}
	pt, err := e.aead.Open(nil, raw[:ns], raw[ns:], []byte(field))
	if err != nil {
		return "", fmt.Errorf("open %s: %w", field, err)
	}
	return string(pt), nil
}

// PlainEncryptor only encodes. It exists for development without a key.
type PlainEncryptor struct{}

func (PlainEncryptor) Encrypt(_, plaintext string) (string, error) {
	return plainPrefix + base64.StdEncoding.EncodeToString([]byte(plaintext)), nil
}

func (PlainEncryptor) Decrypt(field, ciphertext string) (string, error) {
	encoded, ok := strings.CutPrefix(ciphertext, plainPrefix)
	if !ok {
		return "", ErrUnknownCiphertext
	}
	pt, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", field, err)
	}
	return string(pt), nil
}

// DecodeKey accepts exactly KeySize bytes, either base64-encoded or as raw
// characters.
func DecodeKey(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("encryption key is empty")
	}
	if b, err := base64.StdEncoding.DecodeString(secret); err == nil && len(b) == KeySize {
		return b, nil
	}
	if len(secret) == KeySize {
		return []byte(secret), nil
	}
	return nil, fmt.Errorf("encryption key must be %d bytes or base64 of %d bytes, got %d characters", KeySize, KeySize, len(secret))
}

// DeriveKey is DecodeKey with a SHA-256 fallback for secrets of any other
// length. derived reports that the fallback was used.
func DeriveKey(secret string) (key []byte, derived bool, err error) {
	if strings.TrimSpace(secret) == "" {
		return nil, false, errors.New("encryption key is empty")
	}
	if key, err := DecodeKey(secret); err == nil {
		return key, false, nil
	}
	sum := sha256.Sum256([]byte(secret))
	return sum[:], true, nil
}
