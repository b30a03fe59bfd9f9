package enums

import "fmt"

// UserType distinguishes retail shoppers from corporate bulk buyers.
type UserType string

const (
	UserTypeIndividual UserType = "individual"
	UserTypeCorporate  UserType = "corporate"
)

var validUserTypes = []UserType{
	UserTypeIndividual,
	UserTypeCorporate,
}

// IsValid reports whether the value matches the canonical user type enum.
func (u UserType) IsValid() bool {
	for _, candidate := range validUserTypes {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseUserType converts the raw string to UserType.
func ParseUserType(value string) (UserType, error) {
	for _, candidate := range validUserTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user type %q", value)
}
