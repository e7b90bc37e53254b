package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"maternity/internal/pkg/apperr"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// Validate struct fields
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		errors[err.Field()] = err.Tag()
	}
	return errors
}

// Check runs Validate and reports failures as a validation error carrying
// the failing json field names.
func Check(v interface{}) error {
	if fields := Validate(v); len(fields) > 0 {
		return apperr.Validation("invalid input").WithFields(fields)
	}
	return nil
}
