package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/veloretail/bulkcart-backend/api/responses"
	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
	"github.com/veloretail/bulkcart-backend/pkg/logger"
	"github.com/veloretail/bulkcart-backend/pkg/security"
	"github.com/veloretail/bulkcart-backend/pkg/types"
)

const cryptoBodyLimit = 4 << 20

type encryptedRequest struct {
	EncryptedData string `json:"encrypted_data"`
}

// bufferedWriter captures the handler's response so it can be re-encrypted.
type bufferedWriter struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header)}
}

func (w *bufferedWriter) Header() http.Header { return w.header }

func (w *bufferedWriter) WriteHeader(status int) {
	if w.status == 0 {
		w.status = status
	}
}

func (w *bufferedWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.body.Write(p)
}

// PayloadCrypto transparently decrypts request bodies carrying an
// encrypted_data envelope and encrypts the matching response. Requests
// without the envelope pass through untouched.
func PayloadCrypto(codec *security.PayloadCodec, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if codec == nil || r.Body == nil {
				next.ServeHTTP(w, r)
				return
			}

			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				next.ServeHTTP(w, r)
				return
			}

			body, err := io.ReadAll(io.LimitReader(r.Body, cryptoBodyLimit))
			_ = r.Body.Close()
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
				return
			}

			var envelope encryptedRequest
			if len(body) == 0 || json.Unmarshal(body, &envelope) != nil || !security.IsEncrypted(envelope.EncryptedData) {
				r.Body = io.NopCloser(bytes.NewReader(body))
				next.ServeHTTP(w, r)
				return
			}

			plaintext, err := codec.Decrypt(envelope.EncryptedData)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDecryption, err, "decrypt request payload"))
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(plaintext))
			r.ContentLength = int64(len(plaintext))

			rec := newBufferedWriter()
			next.ServeHTTP(rec, r)

			writeEncrypted(r, w, rec, codec, logg)
		})
	}
}

// writeEncrypted re-wraps a buffered response in the secure envelope. If the
// response cannot be encrypted it falls back to a plaintext error.
func writeEncrypted(r *http.Request, w http.ResponseWriter, rec *bufferedWriter, codec *security.PayloadCodec, logg *logger.Logger) {
	status := rec.status
	if status == 0 {
		status = http.StatusOK
	}

	ciphertext, err := codec.Encrypt(json.RawMessage(rec.body.Bytes()))
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encrypt response payload"))
		return
	}

	success := status < http.StatusBadRequest
	out := types.SecureEnvelope{Success: &success, EncryptedData: ciphertext}

	for key, values := range rec.header {
		if key == "Content-Length" {
			continue
		}
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(out); err != nil && logg != nil {
		logg.Error(r.Context(), "response.encode_failed", err)
	}
}
