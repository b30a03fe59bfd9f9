package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
)

// envelopePrefix versions the encrypted wire format explicitly. Detection is
// an exact prefix match; plain JSON can never collide with it.
const envelopePrefix = "enc:v1:"

const payloadKeyBytes = 32

// PayloadCodec encrypts and decrypts JSON payloads exchanged between the
// client SDK and the API. AES-256-GCM with a fresh random nonce per message;
// the nonce is prepended to the ciphertext inside the base64 body.
type PayloadCodec struct {
	aead cipher.AEAD
}

// NewPayloadCodec builds a codec from a base64-encoded 32-byte key.
func NewPayloadCodec(encodedKey string) (*PayloadCodec, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encodedKey))
	if err != nil {
		return nil, fmt.Errorf("decoding payload key: %w", err)
	}
	if len(key) != payloadKeyBytes {
		return nil, fmt.Errorf("payload key must be %d bytes, got %d", payloadKeyBytes, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return &PayloadCodec{aead: aead}, nil
}

// Encrypt serializes the payload to JSON and seals it under the shared key.
// Identical payloads produce distinct ciphertexts (per-message nonce).
func (c *PayloadCodec) Encrypt(payload any) (string, error) {
	plaintext, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("serializing payload: %w", err)
	}

	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	sealed := c.aead.Seal(nil, nonce, plaintext, nil)
	body := append(nonce, sealed...)
	return envelopePrefix + base64.RawURLEncoding.EncodeToString(body), nil
}

// Decrypt reverses Encrypt. It returns a typed decryption error for empty
// input, malformed envelopes, key mismatches, and non-JSON plaintext; it
// never panics.
func (c *PayloadCodec) Decrypt(ciphertext string) (json.RawMessage, error) {
	if strings.TrimSpace(ciphertext) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDecryption, "ciphertext is empty")
	}
	if !IsEncrypted(ciphertext) {
		return nil, pkgerrors.New(pkgerrors.CodeDecryption, "missing envelope prefix")
	}

	body, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(ciphertext)[len(envelopePrefix):])
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDecryption, err, "malformed envelope body")
	}
	if len(body) < c.aead.NonceSize() {
		return nil, pkgerrors.New(pkgerrors.CodeDecryption, "envelope body too short")
	}

	nonce, sealed := body[:c.aead.NonceSize()], body[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDecryption, err, "ciphertext authentication failed")
	}

	if !json.Valid(plaintext) {
		return nil, pkgerrors.New(pkgerrors.CodeDecryption, "recovered plaintext is not valid JSON")
	}
	return json.RawMessage(plaintext), nil
}

// IsEncrypted reports whether the string carries the versioned envelope
// prefix. This is the sole signal used to decide whether to auto-decrypt.
func IsEncrypted(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), envelopePrefix)
}

// GeneratePayloadKey mints a fresh base64 key suitable for BULKCART_PAYLOAD_KEY.
func GeneratePayloadKey() (string, error) {
	key := make([]byte, payloadKeyBytes)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("generating payload key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
