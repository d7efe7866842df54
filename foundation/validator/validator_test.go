//go:build unit
// +build unit

package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vortex-fintech/contactnorm/foundation/validator"
)

type recordStruct struct {
	Name    string `validate:"required,max=8"`
	Contact string `validate:"omitempty,email"`
	Mode    string `validate:"oneof=lower upper"`
}

func TestValidate_Valid(t *testing.T) {
	res := validator.Validate(recordStruct{Name: "John", Contact: "john@bba.com", Mode: "lower"})
	assert.Nil(t, res)
}

func TestValidate_Invalid(t *testing.T) {
	res := validator.Validate(recordStruct{Name: "", Contact: "nope", Mode: "title"})
	assert.Equal(t, "required", res["Name"])
	assert.Equal(t, "invalid_email", res["Contact"])
	assert.Equal(t, "invalid_choice", res["Mode"])
}

func TestValidate_TooLong(t *testing.T) {
	res := validator.Validate(recordStruct{Name: "Alexandria", Mode: "upper"})
	assert.Equal(t, "too_long", res["Name"])
}

func TestValidate_NonStructInput(t *testing.T) {
	res := validator.Validate(42)
	assert.Equal(t, "validation_failed", res["_error"])
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "john@bba.com", want: ""},
		{in: "sara@audi.de", want: ""},
		{in: "", want: "required"},
		{in: "not-an-email", want: "invalid_email"},
		{in: "a@", want: "invalid_email"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, validator.ValidateEmail(tt.in), tt.in)
	}
}

func TestInstance(t *testing.T) {
	assert.NotNil(t, validator.Instance())
}
