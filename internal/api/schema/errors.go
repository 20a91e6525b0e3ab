package schema

import (
	"fmt"

	"github.com/skybi/user-service/internal/user"
)

var emptyMap = map[string]interface{}{}

var (
	ErrInternal = &Error{
		Type:    "generic.internal",
		Message: "An internal error occurred.",
		Details: emptyMap,
	}
	ErrNotFound = &Error{
		Type:    "generic.notFound",
		Message: "Resource not found.",
		Details: emptyMap,
	}
	ErrMethodNotAllowed = &Error{
		Type:    "generic.methodNotAllowed",
		Message: "Method not allowed.",
		Details: emptyMap,
	}
	ErrUnauthorized = &Error{
		Type:    "access.unauthorized",
		Message: "Unauthorized",
		Details: emptyMap,
	}
	ErrForbidden = &Error{
		Type:    "access.forbidden",
		Message: "You are not authorized to access this resource.",
		Details: emptyMap,
	}
	ErrInvalidCredentials = &Error{
		Type:    "auth.invalidCredentials",
		Message: "The email address or password is not correct.",
		Details: emptyMap,
	}
	ErrEmailTaken = &Error{
		Type:    "user.emailTaken",
		Message: "A user with this email address already exists.",
		Details: emptyMap,
	}
)

// ErrUserValidation converts a failed user property validation into an API error
func ErrUserValidation(err *user.ValidationError) *Error {
	return &Error{
		Type:    "validation.user.invalidProperty",
		Message: fmt.Sprintf("The property '%s' %s.", err.Field, err.Message),
		Details: map[string]interface{}{
			"property": err.Field,
		},
	}
}

// ErrUnknownRole is sent whenever a role name could not be parsed
func ErrUnknownRole(name string) *Error {
	return &Error{
		Type:    "validation.user.unknownRole",
		Message: fmt.Sprintf("The role '%s' does not exist.", name),
		Details: map[string]interface{}{
			"role": name,
		},
	}
}

// ErrorResponse represents the response structure sent by the API whenever errors occurred
type ErrorResponse struct {
	Status int      `json:"status"`
	Errors []*Error `json:"errors"`
}

// Error represents a single error present in the ErrorResponse
type Error struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}
