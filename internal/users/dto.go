package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/veloretail/bulkcart-backend/pkg/db/models"
)

// UserDTO is the account payload returned to clients. Password material
// never leaves the service layer.
type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Phone       *string    `json:"phone,omitempty"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	UserType    string     `json:"user_type"`
	Role        string     `json:"role"`
	CompanyName *string    `json:"company_name,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FromModel maps the persisted user into the client payload.
func FromModel(user *models.User) *UserDTO {
	if user == nil {
		return nil
	}
	return &UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		Phone:       user.Phone,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		UserType:    string(user.UserType),
		Role:        string(user.Role),
		CompanyName: user.CompanyName,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
