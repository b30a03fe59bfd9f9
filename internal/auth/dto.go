package auth

import "github.com/veloretail/bulkcart-backend/internal/users"

// SignupRequest is the validated payload to create an account.
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Phone       string `json:"phone" validate:"omitempty,e164"`
	UserType    string `json:"user_type" validate:"required,oneof=individual corporate"`
	CompanyName string `json:"company_name" validate:"required_if=UserType corporate"`
}

// LoginRequest is the credential payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse carries the minted token and account payload.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}

// SendOTPRequest asks for a one-time code to be issued.
type SendOTPRequest struct {
	Destination string `json:"destination" validate:"required"`
}

// VerifyOTPRequest checks a one-time code.
type VerifyOTPRequest struct {
	Destination string `json:"destination" validate:"required"`
	Code        string `json:"code" validate:"required"`
}
