package user

import (
	"net/mail"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// maxPasswordLength is the amount of bytes bcrypt considers
const maxPasswordLength = 72

// ValidationError describes a single invalid property of a user
type ValidationError struct {
	Field   string
	Message string
}

func (err *ValidationError) Error() string {
	return err.Field + ": " + err.Message
}

// NormalizeEmail returns the canonical form email addresses are stored and looked up in
func NormalizeEmail(email string) string {
	return strings.ToLower(norm.NFC.String(strings.TrimSpace(email)))
}

// ValidateName validates a display name
func ValidateName(name string) *ValidationError {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	return nil
}

// ValidateAge validates an age
func ValidateAge(age int) *ValidationError {
	if age < 1 {
		return &ValidationError{Field: "age", Message: "must be at least 1"}
	}
	return nil
}

// ValidateEmail validates an email address
func ValidateEmail(email string) *ValidationError {
	email = strings.TrimSpace(email)
	if email == "" {
		return &ValidationError{Field: "email", Message: "must not be empty"}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return &ValidationError{Field: "email", Message: "is not a valid email address"}
	}
	return nil
}

// ValidatePassword validates a plain text password
func ValidatePassword(password string) *ValidationError {
	if password == "" {
		return &ValidationError{Field: "password", Message: "must not be empty"}
	}
	if len(password) > maxPasswordLength {
		return &ValidationError{Field: "password", Message: "must not be longer than 72 bytes"}
	}
	return nil
}

// ValidateRegistration validates the properties of a new user
func ValidateRegistration(name string, age int, email, password string, confirmPassword *string) []*ValidationError {
	var errs []*ValidationError
	for _, err := range []*ValidationError{
		ValidateName(name),
		ValidateAge(age),
		ValidateEmail(email),
		ValidatePassword(password),
	} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	if confirmPassword != nil && *confirmPassword != password {
		errs = append(errs, &ValidationError{Field: "confirm_password", Message: "does not match the password"})
	}
	return errs
}
