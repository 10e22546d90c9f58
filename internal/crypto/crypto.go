package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// keyLength is the AES-256 key size in bytes.
const keyLength = 32

// envelopeSeparator joins the base64 nonce and ciphertext segments. It is not
// part of the base64 alphabet, so splitting on it is unambiguous.
const envelopeSeparator = "."

type Service interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(envelope string) (string, error)
}

// NoopService passes tokens through without encryption (dev/test mode).
type NoopService struct{}

func (NoopService) Encrypt(plaintext string) (string, error) { return plaintext, nil }
func (NoopService) Decrypt(envelope string) (string, error)  { return envelope, nil }

// AesGcmService encrypts with AES-256-GCM and a fresh random 96-bit nonce per
// call. Envelopes have the form base64(nonce) + "." + base64(ciphertext||tag).
type AesGcmService struct {
	gcm cipher.AEAD
}

// NewAesGcmService derives the key from the first 32 bytes of the UTF-8
// secret. The scheme is fixed and versionless: changing those bytes
// invalidates every stored envelope.
func NewAesGcmService(secret string) (*AesGcmService, error) {
	if len(secret) < keyLength {
		return nil, fmt.Errorf("encryption secret must be at least %d bytes, got %d", keyLength, len(secret))
	}

	block, err := aes.NewCipher([]byte(secret)[:keyLength])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	service := AesGcmService{gcm: gcm}
	return &service, nil
}

func (s *AesGcmService) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := s.gcm.Seal(nil, nonce, []byte(plaintext), nil)

	envelope := base64.StdEncoding.EncodeToString(nonce) +
		envelopeSeparator +
		base64.StdEncoding.EncodeToString(ciphertext)
	return envelope, nil
}

func (s *AesGcmService) Decrypt(envelope string) (string, error) {
	nonceSegment, ciphertextSegment, found := strings.Cut(envelope, envelopeSeparator)
	if !found {
		return "", fmt.Errorf("malformed envelope: missing separator")
	}

	nonce, err := base64.StdEncoding.DecodeString(nonceSegment)
	if err != nil {
		return "", fmt.Errorf("malformed envelope: %w", err)
	}
	if len(nonce) != s.gcm.NonceSize() {
		return "", fmt.Errorf("malformed envelope: nonce is %d bytes, want %d", len(nonce), s.gcm.NonceSize())
	}

	ciphertext, err := base64.StdEncoding.DecodeString(ciphertextSegment)
	if err != nil {
		return "", fmt.Errorf("malformed envelope: %w", err)
	}

	plaintext, err := s.gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}
