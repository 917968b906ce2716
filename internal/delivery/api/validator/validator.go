// Package validator adapts go-playground/validator to echo and renders its
// failures as field-level validation errors.
package validator

import (
	"reflect"
	"strings"

	domainerrors "authsvc/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// bcrypt ignores everything past 72 bytes and x/crypto refuses such input.
const maxPasswordBytes = 72

// fieldMessages overrides the message for a json field and validation tag.
//
//nolint:gochecknoglobals
var fieldMessages = map[string]string{
	"username.min":    "username must be between 4 and 20 characters.",
	"username.max":    "username must be between 4 and 20 characters.",
	"password.min":    "password must be between 6 and 30 characters.",
	"password.max":    "password must be between 6 and 30 characters.",
	"newPassword.min": "password must be between 6 and 30 characters.",
	"newPassword.max": "password must be between 6 and 30 characters.",

	"password.bcryptmax":    "password must be at most 72 bytes.",
	"newPassword.bcryptmax": "password must be at most 72 bytes.",
}

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// New builds a validator that reports fields by their json names.
func New() *CustomValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})
	// Registration only fails for an empty tag or a nil func.
	_ = validate.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})

	return &CustomValidator{validate: validate}
}

// Validate checks i against its `validate` tags. Rule failures come back as a
// *domainerrors.ValidationError listing every rejected field.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "failed to validate request")
	}

	validationErr := domainerrors.NewValidationError()
	for _, fe := range fieldErrs {
		validationErr.Add(fe.Field(), messageFor(fe))
	}

	return validationErr
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required."
	case "email":
		return "must be a valid email address."
	case "eqfield":
		return fe.Field() + " does not match " + jsonName(fe.Param()) + "."
	case "min", "max":
		return fe.Field() + " has an invalid length."
	default:
		return fe.Field() + " is invalid."
	}
}

// jsonName lower-cases the first letter of a Go field name, e.g. Password -> password.
func jsonName(goName string) string {
	if goName == "" {
		return goName
	}

	return strings.ToLower(goName[:1]) + goName[1:]
}
