package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email      string `json:"email" validate:"required,email"`
	AccessCode string `json:"access_code" validate:"required,numeric,len=6"`
	Status     string `json:"status" validate:"omitempty,oneof=ativa inativa"`
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sampleRequest{Email: "not-an-email", AccessCode: "12a", Status: "aberta"})
	require.Error(t, err)

	msgs := v.FormatValidationErrors(err)
	assert.Equal(t, "email must be a valid email address", msgs["email"])
	assert.Equal(t, "access_code must contain only digits", msgs["access_code"])
	assert.Equal(t, "status must be one of: ativa inativa", msgs["status"])
}

func TestValidate_AcceptsValidRequest(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&sampleRequest{Email: "a@b.com", AccessCode: "123456"}))
}
