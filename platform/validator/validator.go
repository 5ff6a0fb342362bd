// Package validator provides validation infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package validator

import (
	"errors"
	"reflect"
	"strings"

	"location_picker/platform/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator wraps the go-playground validator for structured validation.
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator instance with the notblank rule registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(jsonFieldName)
	return &Validator{v: v}
}

// Struct validates a struct based on validation tags.
// Failures are returned as an apperr validation error whose details map
// field names to the rule that failed.
func (val *Validator) Struct(s interface{}) error {
	if err := val.v.Struct(s); err != nil {
		return toDomainError(err)
	}
	return nil
}

// Var validates a single variable against a tag.
func (val *Validator) Var(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// RegisterValidation registers a custom validation function.
func (val *Validator) RegisterValidation(tag string, fn validator.Func) error {
	return val.v.RegisterValidation(tag, fn)
}

func toDomainError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Wrap(apperr.KindValidation, "invalid input", err)
	}

	details := make(map[string]string, len(fieldErrs))
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fe.Field()
		details[name] = fe.Tag()
		names = append(names, name)
	}

	return apperr.Validation("invalid "+strings.Join(names, ", ")).WithDetails(details)
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}
