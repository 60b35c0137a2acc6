package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	errors "github.com/frahmantamala/procurement-portal/internal"
)

// MinPasswordLength applies to registration, account add and password reset.
const MinPasswordLength = 6

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return &v.fields[len(v.fields)-1]
}

// Required fails on blank strings.
func (fv *FieldValidator) Required() *FieldValidator {
	return fv.RequiredAs(errors.NewValidationError(fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed))
}

// RequiredAs fails with sentinel when the value is blank.
func (fv *FieldValidator) RequiredAs(sentinel *errors.AppError) *FieldValidator {
	name := fv.FieldName
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return fieldError(sentinel, name)
			}
		case *string:
			if v == nil || strings.TrimSpace(*v) == "" {
				return fieldError(sentinel, name)
			}
		case int:
			if v == 0 {
				return fieldError(sentinel, name)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	return fv.MinLengthAs(min, errors.NewValidationError(
		fmt.Sprintf("%s must be at least %d characters", fv.FieldName, min), errors.ErrCodeValidationFailed))
}

// MinLengthAs counts runes, not bytes.
func (fv *FieldValidator) MinLengthAs(min int, sentinel *errors.AppError) *FieldValidator {
	name := fv.FieldName
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && utf8.RuneCountInString(v) < min {
			return fieldError(sentinel, name)
		}
		return nil
	})
	return fv
}

// MinInt fails when an int value is below min.
func (fv *FieldValidator) MinInt(min int, sentinel *errors.AppError) *FieldValidator {
	name := fv.FieldName
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(int); ok && v < min {
			return fieldError(sentinel, name)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOf(allowed ...string) *FieldValidator {
	name := fv.FieldName
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok {
			return nil
		}
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return errors.NewValidationFieldError(name,
			fmt.Sprintf("%s must be one of %s", name, strings.Join(allowed, ", ")), errors.ErrCodeValidationFailed)
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs every validator and collects all failures into one error.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if err := validator(field.Value); err != nil {
				validationErrors = append(validationErrors, detailsOf(err, field.FieldName)...)
			}
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

// ValidateFirst stops at the first failure and returns it as is, so callers can
// match the sentinel with errors.Is.
func (v *ValidationBuilder) ValidateFirst() *errors.AppError {
	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if err := validator(field.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func fieldError(sentinel *errors.AppError, field string) *errors.AppError {
	return sentinel.WithDetails(errors.ValidationErrors{
		Errors: []errors.ValidationError{
			{Field: field, Message: sentinel.Message, Code: string(sentinel.Code)},
		},
	})
}

func detailsOf(err *errors.AppError, field string) []errors.ValidationError {
	if details, ok := err.Details.(errors.ValidationErrors); ok {
		return details.Errors
	}
	return []errors.ValidationError{{Field: field, Message: err.Message, Code: string(err.Code)}}
}

func ValidatePassword(password string) *errors.AppError {
	validator := NewValidator()
	validator.Field("password", password).
		MinLengthAs(MinPasswordLength, errors.ErrPasswordTooShort)
	return validator.ValidateFirst()
}

func ValidateEmail(email string) *errors.AppError {
	validator := NewValidator()
	validator.Field("email", email).
		RequiredAs(errors.ErrEmailRequired)
	return validator.ValidateFirst()
}
