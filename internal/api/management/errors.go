package management

import (
	"github.com/skybi/user-service/internal/api/schema"
	"github.com/skybi/user-service/internal/user"
)

func userValidationErrors(errs ...*user.ValidationError) []*schema.Error {
	var converted []*schema.Error
	for _, err := range errs {
		if err != nil {
			converted = append(converted, schema.ErrUserValidation(err))
		}
	}
	return converted
}

// roleErrors converts the error returned by user.ParseRoleNames into API errors
func roleErrors(err error) []*schema.Error {
	var unknown []*schema.Error
	collectUnknownRoles(err, &unknown)
	if len(unknown) == 0 {
		return []*schema.Error{schema.ErrUnknownRole(err.Error())}
	}
	return unknown
}

func collectUnknownRoles(err error, dst *[]*schema.Error) {
	if roleErr, ok := err.(*user.UnknownRoleError); ok {
		*dst = append(*dst, schema.ErrUnknownRole(roleErr.Name))
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, inner := range joined.Unwrap() {
			collectUnknownRoles(inner, dst)
		}
	}
}
