package validation

import (
	"fmt"
	"net/mail"
	"regexp"

	errors "github.com/frahmantamala/payment-portal/internal"
)

var (
	idNumberPattern = regexp.MustCompile(`^[0-9]{13}$`)
	namePattern     = regexp.MustCompile(`^[A-Za-z ]+$`)
)

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

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if v == "" {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		case *string:
			if v == nil || *v == "" {
				return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s is required", fv.FieldName), errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if len(v) > max {
				message := fmt.Sprintf("%s must not exceed %d characters", fv.FieldName, max)
				return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeValidationFailed)
			}
		}
		return nil
	})
	return fv
}

// IDNumber requires exactly 13 numeric digits.
func (fv *FieldValidator) IDNumber() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && v != "" {
			if !idNumberPattern.MatchString(v) {
				message := fmt.Sprintf("%s must be exactly 13 digits", fv.FieldName)
				return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeInvalidIDNumber)
			}
		}
		return nil
	})
	return fv
}

// PersonName allows letters and spaces only.
func (fv *FieldValidator) PersonName() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && v != "" {
			if !namePattern.MatchString(v) {
				message := fmt.Sprintf("%s must contain only letters and spaces", fv.FieldName)
				return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeInvalidName)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && v != "" {
			if _, err := mail.ParseAddress(v); err != nil {
				message := fmt.Sprintf("%s is not a valid email address", fv.FieldName)
				return errors.NewValidationFieldError(fv.FieldName, message, errors.ErrCodeInvalidEmail)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinFloat(min float64, code errors.ErrorCode) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(float64); ok {
			if v < min {
				message := fmt.Sprintf("%s must be at least %g", fv.FieldName, min)
				return errors.NewValidationFieldError(fv.FieldName, message, code)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			if err := validator(field.Value); err != nil {
				if appErr, ok := errors.IsAppError(err); ok {
					if details, ok := appErr.Details.(errors.ValidationErrors); ok {
						validationErrors = append(validationErrors, details.Errors...)
					} else {
						validationErrors = append(validationErrors, errors.ValidationError{
							Field:   field.FieldName,
							Message: appErr.Message,
							Code:    string(appErr.Code),
						})
					}
				}
			}
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}
