package validator

import (
	"errors"
	"testing"

	playground "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Role     string `validate:"required,oneof=mentor mentee"`
}

func TestFormatValidationError(t *testing.T) {
	validate := playground.New()

	err := validate.Struct(signupForm{
		Email:    "not-an-email",
		Password: "abc",
		Role:     "admin",
	})
	require.Error(t, err)

	message := FormatValidationError(err)
	assert.Contains(t, message, "Email must be a valid email address")
	assert.Contains(t, message, "Password must be at least 6 characters")
	assert.Contains(t, message, "Role must be one of: mentor mentee")
}

func TestFormatValidationErrorMissingFields(t *testing.T) {
	validate := playground.New()

	err := validate.Struct(signupForm{})
	require.Error(t, err)

	message := FormatValidationError(err)
	assert.Contains(t, message, "Email is required")
	assert.Contains(t, message, "Password is required")
}

func TestFormatValidationErrorPassthrough(t *testing.T) {
	err := errors.New("plain failure")
	assert.Equal(t, "plain failure", FormatValidationError(err))
}
