package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var v *validator.Validate

func init() {
	v = validator.New()
}

func Instance() *validator.Validate {
	return v
}

// Validate checks struct tags and returns field -> code, or nil when valid.
func Validate(i any) map[string]string {
	if err := v.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			out := make(map[string]string, len(errs))
			for _, e := range errs {
				out[e.Field()] = mapTagToCode(e.Tag())
			}
			return out
		}
		return map[string]string{"_error": "validation_failed"}
	}
	return nil
}

// ValidateEmail returns "" for a well-formed address, otherwise a stable code.
func ValidateEmail(s string) string {
	return validateVar(s, "required,email")
}

func validateVar(s, tag string) string {
	err := v.Var(s, tag)
	if err == nil {
		return ""
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return mapTagToCode(errs[0].Tag())
	}
	return "invalid"
}
