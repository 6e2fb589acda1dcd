package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/rgtools/partner-admin/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field errors are reported under their JSON names.
func NewValidator() *echoValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("dnslabel", func(fl validator.FieldLevel) bool {
		return domain.IsDNSLabel(fl.Field().String())
	})
	return &echoValidator{v: v}
}

// validationError lists field messages and remembers whether any field was
// present but malformed, as opposed to missing.
type validationError struct {
	msgs      []string
	malformed bool
}

func (e *validationError) Error() string { return strings.Join(e.msgs, "; ") }

// isMalformed reports whether err is a validation failure caused by a bad
// value rather than a missing one.
func isMalformed(err error) bool {
	var ve *validationError
	return errors.As(err, &ve) && ve.malformed
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := &validationError{msgs: make([]string, 0, len(ve))}
			for _, fe := range ve {
				out.msgs = append(out.msgs, fieldError(fe))
				if fe.Tag() != "required" {
					out.malformed = true
				}
			}
			return out
		}
		return err
	}
	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "dnslabel":
		return field + " must be a DNS label (letters, digits and inner hyphens)"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
