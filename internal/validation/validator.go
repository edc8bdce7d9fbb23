package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/Frzz-02/project-management-app-with-laravel-sub001/internal/config"
)

const defaultDescriptionMaxLength = 1000

// Validator checks request payloads before they reach the timer engine
type Validator struct {
	validate       *validator.Validate
	descriptionMax int
}

// NewValidator creates a new validator instance with default limits
func NewValidator() *Validator {
	return newValidator(defaultDescriptionMaxLength)
}

// NewValidatorWithConfig creates a new validator instance with configured limits
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	if cfg == nil || cfg.Validation.DescriptionMaxLength <= 0 {
		return NewValidator()
	}
	return newValidator(cfg.Validation.DescriptionMaxLength)
}

func newValidator(descriptionMax int) *Validator {
	v := &Validator{
		validate:       validator.New(validator.WithRequiredStructEnabled()),
		descriptionMax: descriptionMax,
	}

	// Report fields by their JSON names.
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.validate.RegisterValidation("description", v.validateDescription)

	return v
}

// DescriptionMaxLength returns the configured description limit in characters
func (v *Validator) DescriptionMaxLength() int {
	return v.descriptionMax
}

func (v *Validator) validateDescription(fl validator.FieldLevel) bool {
	return v.IsValidDescription(fl.Field().String())
}

// IsValidDescription checks a description against the configured length limit
func (v *Validator) IsValidDescription(s string) bool {
	return utf8.RuneCountInString(s) <= v.descriptionMax
}

// IsValidID checks if an ID is valid (positive)
func (v *Validator) IsValidID(id int64) bool {
	return id > 0
}

// Struct validates a tagged request struct and returns a *ValidationError
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if stderrors.As(err, &errs) {
		return fromValidatorErrors(errs, v.descriptionMax)
	}
	return err
}
