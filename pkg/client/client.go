package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/veloretail/bulkcart-backend/pkg/errors"
	"github.com/veloretail/bulkcart-backend/pkg/logger"
	"github.com/veloretail/bulkcart-backend/pkg/security"
)

const (
	adminRoutePrefix         = "/api/admin/"
	responseBodyLimit  int64 = 4 << 20
	defaultHTTPTimeout       = 30 * time.Second
)

// Client is the typed SDK for the BulkCart backend. It owns token selection,
// optional payload encryption, and response normalization. One attempt per
// call; retry policy belongs to the caller.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      *Credentials
	codec      *security.PayloadCodec
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithCodec enables request encryption and response decryption.
func WithCodec(codec *security.PayloadCodec) Option {
	return func(c *Client) {
		c.codec = codec
	}
}

// WithLogger attaches a logger; decrypt failures and auth purges are logged
// through it.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// New builds a backend client. Credentials are required even when empty so
// the caller keeps a handle for later token updates.
func New(baseURL string, creds *Credentials, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base URL is required")
	}
	if creds == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credentials store is required")
	}

	c := &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:    trimmed,
		creds:      creds,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// CallOption adjusts a single request.
type CallOption func(*callConfig)

type callConfig struct {
	admin   bool
	encrypt bool
	headers map[string]string
}

// WithAdmin forces the admin token for this call regardless of route.
func WithAdmin() CallOption {
	return func(cfg *callConfig) { cfg.admin = true }
}

// WithEncryption encrypts the request body into the encrypted_data envelope.
// Requires a codec on the client.
func WithEncryption() CallOption {
	return func(cfg *callConfig) { cfg.encrypt = true }
}

// WithHeader sets an extra request header.
func WithHeader(key, value string) CallOption {
	return func(cfg *callConfig) {
		if cfg.headers == nil {
			cfg.headers = map[string]string{}
		}
		cfg.headers[key] = value
	}
}

// Result is the normalized outcome of any call. On failure Data is nil and
// Message carries the backend's public error message (or the transport error).
type Result struct {
	Data    json.RawMessage
	Success bool
	Status  int
	Message string
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, opts ...CallOption) (*Result, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil, opts...)
}

// Post issues a POST request with a JSON (or encrypted) body.
func (c *Client) Post(ctx context.Context, endpoint string, payload any, opts ...CallOption) (*Result, error) {
	return c.do(ctx, http.MethodPost, endpoint, payload, opts...)
}

// Put issues a PUT request with a JSON (or encrypted) body.
func (c *Client) Put(ctx context.Context, endpoint string, payload any, opts ...CallOption) (*Result, error) {
	return c.do(ctx, http.MethodPut, endpoint, payload, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, opts ...CallOption) (*Result, error) {
	return c.do(ctx, http.MethodDelete, endpoint, nil, opts...)
}

// UploadFile sends a multipart upload under the given form field. File
// uploads are never encrypted.
func (c *Client) UploadFile(ctx context.Context, endpoint, field, filename string, file io.Reader, opts ...CallOption) (*Result, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "client not configured")
	}
	if strings.TrimSpace(field) == "" || strings.TrimSpace(filename) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "upload field and filename are required")
	}

	cfg := applyCallOptions(opts)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build multipart body")
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "copy upload body")
	}
	if err := writer.Close(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize multipart body")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.buildURL(endpoint), &buf)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build upload request")
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(ctx, req, endpoint, cfg)
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload any, opts ...CallOption) (*Result, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "client not configured")
	}

	cfg := applyCallOptions(opts)

	var body io.Reader
	if payload != nil {
		encoded, err := c.encodePayload(payload, cfg)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(endpoint), body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build request")
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(ctx, req, endpoint, cfg)
}

func (c *Client) encodePayload(payload any, cfg callConfig) ([]byte, error) {
	if cfg.encrypt {
		if c.codec == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "encryption requested without a payload codec")
		}
		ciphertext, err := c.codec.Encrypt(payload)
		if err != nil {
			return nil, err
		}
		return json.Marshal(map[string]string{"encrypted_data": ciphertext})
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "marshal request payload")
	}
	return encoded, nil
}

func (c *Client) send(ctx context.Context, req *http.Request, endpoint string, cfg callConfig) (*Result, error) {
	req.Header.Set("Accept", "application/json")
	for k, v := range cfg.headers {
		req.Header.Set(k, v)
	}
	if token := c.selectToken(endpoint, cfg); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Result{Success: false, Message: err.Error()},
			pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute request")
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		return &Result{Success: false, Status: resp.StatusCode, Message: err.Error()},
			pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read response body")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.creds.Clear()
		if c.logg != nil {
			c.logg.Warn(ctx, "session rejected, clearing stored tokens")
		}
	}

	return c.normalize(ctx, resp.StatusCode, raw), nil
}

// selectToken picks the bearer token for a call. Only explicitly admin-marked
// calls (option or /api/admin/ route) get the admin token; anything ambiguous
// falls back to the user token.
func (c *Client) selectToken(endpoint string, cfg callConfig) string {
	if cfg.admin || strings.HasPrefix(normalizeEndpoint(endpoint), adminRoutePrefix) {
		return c.creds.AdminToken()
	}
	return c.creds.UserToken()
}

type responseEnvelope struct {
	Success       *bool           `json:"success"`
	Data          json.RawMessage `json:"data"`
	EncryptedData string          `json:"encrypted_data"`
	Error         *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) normalize(ctx context.Context, status int, raw []byte) *Result {
	result := &Result{
		Status:  status,
		Success: status >= 200 && status < 300,
	}

	var envelope responseEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		// Not the standard envelope. The whole body may still be ciphertext.
		result.Data = c.maybeDecrypt(ctx, json.RawMessage(raw))
		if !result.Success {
			result.Data = nil
			result.Message = http.StatusText(status)
		}
		return result
	}

	if envelope.Success != nil {
		result.Success = *envelope.Success
	}
	if envelope.Error != nil {
		result.Message = envelope.Error.Message
	}
	if !result.Success {
		if result.Message == "" {
			result.Message = http.StatusText(status)
		}
		return result
	}

	switch {
	case envelope.EncryptedData != "":
		result.Data = c.maybeDecrypt(ctx, json.RawMessage(fmt.Sprintf("%q", envelope.EncryptedData)))
	case len(envelope.Data) > 0:
		result.Data = envelope.Data
	default:
		result.Data = raw
	}
	return result
}

// maybeDecrypt returns the decrypted payload when the value carries the
// ciphertext envelope. Any decrypt failure is logged and the original value
// is handed back untouched.
func (c *Client) maybeDecrypt(ctx context.Context, value json.RawMessage) json.RawMessage {
	if c.codec == nil {
		return value
	}

	candidate := string(value)
	var unquoted string
	if err := json.Unmarshal(value, &unquoted); err == nil {
		candidate = unquoted
	}
	if !security.IsEncrypted(candidate) {
		return value
	}

	plaintext, err := c.codec.Decrypt(candidate)
	if err != nil {
		if c.logg != nil {
			c.logg.Error(ctx, "failed to decrypt response payload", err)
		}
		return value
	}
	return plaintext
}

func (c *Client) buildURL(endpoint string) string {
	return c.baseURL + normalizeEndpoint(endpoint)
}

func normalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "/"
	}
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return endpoint
}

func applyCallOptions(opts []CallOption) callConfig {
	var cfg callConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
