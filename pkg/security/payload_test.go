package security

import (
	"encoding/json"
	"testing"

	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
)

func newTestCodec(t *testing.T) *PayloadCodec {
	t.Helper()
	key, err := GeneratePayloadKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	codec, err := NewPayloadCodec(key)
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return codec
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	payload := map[string]any{
		"product_id": "0f4e8a1c",
		"quantity":   4,
		"nested":     map[string]any{"price": "99.50"},
	}

	ciphertext, err := codec.Encrypt(payload)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	raw, err := codec.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal plaintext: %v", err)
	}
	if got["product_id"] != "0f4e8a1c" || got["quantity"] != float64(4) {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	a, err := codec.Encrypt(map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	b, err := codec.Encrypt(map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if a == b {
		t.Fatal("identical payloads must not produce identical ciphertexts")
	}
}

func TestIsEncryptedDetection(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	ciphertext, err := codec.Encrypt([]int{1, 2, 3})
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if !IsEncrypted(ciphertext) {
		t.Fatal("codec output must be detected as encrypted")
	}
	for _, plain := range []string{
		`{"data":{"ok":true}}`,
		`[]`,
		`"enc but not a prefix"`,
		"",
		"   ",
	} {
		if IsEncrypted(plain) {
			t.Fatalf("plain string detected as encrypted: %q", plain)
		}
	}
}

func TestDecryptEmptyString(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	_, err := codec.Decrypt("")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDecryption {
		t.Fatalf("expected decryption error for empty input, got %v", err)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	t.Parallel()

	sender := newTestCodec(t)
	receiver := newTestCodec(t)

	ciphertext, err := sender.Encrypt(map[string]string{"k": "v"})
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	_, err = receiver.Decrypt(ciphertext)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDecryption {
		t.Fatalf("expected decryption error for key mismatch, got %v", err)
	}
}

func TestDecryptGarbageBody(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	for _, bad := range []string{
		"enc:v1:%%%not-base64%%%",
		"enc:v1:QQ",
		"not-an-envelope",
	} {
		if _, err := codec.Decrypt(bad); pkgerrors.As(err) == nil {
			t.Fatalf("expected typed error for %q", bad)
		}
	}
}

func TestNewPayloadCodecRejectsBadKeys(t *testing.T) {
	t.Parallel()

	if _, err := NewPayloadCodec("tooshort"); err == nil {
		t.Fatal("expected error for short key")
	}
	if _, err := NewPayloadCodec("!!!"); err == nil {
		t.Fatal("expected error for non-base64 key")
	}
}
