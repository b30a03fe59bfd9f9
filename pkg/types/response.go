package types

// SuccessEnvelope wraps every successful JSON response body.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// SecureEnvelope is the wire shape used when the payload travels encrypted.
// Requests carry only EncryptedData; responses also set Success so clients
// can short-circuit before decrypting.
type SecureEnvelope struct {
	Success       *bool  `json:"success,omitempty"`
	EncryptedData string `json:"encrypted_data"`
}
