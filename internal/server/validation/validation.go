// Package validation turns go-playground/validator failures into the
// per-field messages returned with 422 responses.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/common"
	"github.com/dmitrijs2005/gophtasks/internal/server/auth"
	"github.com/go-playground/validator/v10"
)

// Validator wraps a configured *validator.Validate. It is safe for
// concurrent use.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= auth.MaxPasswordBytes
	})

	return &Validator{v: v}
}

// Struct validates s by its `validate` tags. The result is never nil; use
// HasErrors or OrNil on it. Non-validation failures (such as a non-struct
// argument) are reported as a panic since they are programming errors.
func (v *Validator) Struct(s any) *common.ValidationError {
	verr := common.NewValidationError()

	err := v.v.Struct(s)
	if err == nil {
		return verr
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		panic(fmt.Sprintf("validation: %v", err))
	}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), Message(fe.Field(), fe.Tag(), fe.Param()))
	}

	return verr
}

// Var validates a single value against tag and returns the messages for
// field, or nil when the value passes.
func (v *Validator) Var(field string, value any, tag string) []string {
	err := v.v.Var(value, tag)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		panic(fmt.Sprintf("validation: %v", err))
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, Message(field, fe.Tag(), fe.Param()))
	}
	return msgs
}

// Message renders the human readable text for a failed rule.
func Message(field, tag, param string) string {
	name := strings.ReplaceAll(field, "_", " ")

	switch tag {
	case "required":
		return fmt.Sprintf("The %s field is required.", name)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", name)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", name, param)
	case "min":
		return fmt.Sprintf("The %s field must be at least %s characters.", name, param)
	case "bcryptmax":
		return fmt.Sprintf("The %s field must not be greater than %d bytes.", name, auth.MaxPasswordBytes)
	case "string":
		return fmt.Sprintf("The %s field must be a string.", name)
	case "boolean":
		return fmt.Sprintf("The %s field must be true or false.", name)
	case "confirmed":
		return fmt.Sprintf("The %s field confirmation does not match.", name)
	case "unique":
		return fmt.Sprintf("The %s has already been taken.", name)
	}
	return fmt.Sprintf("The %s field is invalid.", name)
}
