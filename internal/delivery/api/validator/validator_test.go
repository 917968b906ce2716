package validator

import (
	"strings"
	"testing"

	domainerrors "authsvc/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createRequest struct {
	Username        string `json:"username" validate:"min=4,max=20"`
	Email           string `json:"email" validate:"email"`
	Password        string `json:"password" validate:"min=6,max=30,bcryptmax"`
	ConfirmPassword string `json:"confirmPassword" validate:"eqfield=Password"`
}

type updateRequest struct {
	NewEmail    string `json:"newEmail" validate:"omitempty,email"`
	NewPassword string `json:"newPassword" validate:"omitempty,min=6,max=30,bcryptmax"`
}

func collectMessages(t *testing.T, err error) map[string]string {
	t.Helper()

	var validationErr *domainerrors.ValidationError
	require.True(t, errors.As(err, &validationErr), "expected validation error, got %v", err)

	got := make(map[string]string, len(validationErr.Fields))
	for _, f := range validationErr.Fields {
		got[f.Field] = f.Message
	}

	return got
}

func TestValidate_Valid(t *testing.T) {
	v := New()

	err := v.Validate(&createRequest{
		Username:        "TestUser",
		Email:           "mail@mail.com",
		Password:        "password",
		ConfirmPassword: "password",
	})

	assert.NoError(t, err)
}

func TestValidate_CreateMessages(t *testing.T) {
	v := New()

	err := v.Validate(&createRequest{
		Username:        "abc",
		Email:           "not-an-email",
		Password:        "12345",
		ConfirmPassword: "other",
	})

	assert.Equal(t, map[string]string{
		"username":        "username must be between 4 and 20 characters.",
		"email":           "must be a valid email address.",
		"password":        "password must be between 6 and 30 characters.",
		"confirmPassword": "confirmPassword does not match password.",
	}, collectMessages(t, err))
}

func TestValidate_UsernameTooLong(t *testing.T) {
	v := New()

	err := v.Validate(&createRequest{
		Username:        "abcdefghijklmnopqrstu",
		Email:           "mail@mail.com",
		Password:        "password",
		ConfirmPassword: "password",
	})

	assert.Equal(t, map[string]string{
		"username": "username must be between 4 and 20 characters.",
	}, collectMessages(t, err))
}

func TestValidate_OptionalFields(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&updateRequest{}))

	err := v.Validate(&updateRequest{NewEmail: "bad", NewPassword: "123"})
	assert.Equal(t, map[string]string{
		"newEmail":    "must be a valid email address.",
		"newPassword": "password must be between 6 and 30 characters.",
	}, collectMessages(t, err))
}

func TestValidate_PasswordByteLimit(t *testing.T) {
	v := New()
	multibyte := strings.Repeat("😀", 20)

	err := v.Validate(&createRequest{
		Username:        "TestUser",
		Email:           "mail@mail.com",
		Password:        multibyte,
		ConfirmPassword: multibyte,
	})
	assert.Equal(t, map[string]string{
		"password": "password must be at most 72 bytes.",
	}, collectMessages(t, err))

	err = v.Validate(&updateRequest{NewPassword: multibyte})
	assert.Equal(t, map[string]string{
		"newPassword": "password must be at most 72 bytes.",
	}, collectMessages(t, err))

	// 18 four-byte runes sit exactly on the limit.
	atLimit := strings.Repeat("😀", 18)
	assert.NoError(t, v.Validate(&updateRequest{NewPassword: atLimit}))
}

func TestValidate_NotAStruct(t *testing.T) {
	err := New().Validate("plain string")

	require.Error(t, err)
	var validationErr *domainerrors.ValidationError
	assert.False(t, errors.As(err, &validationErr))
}
