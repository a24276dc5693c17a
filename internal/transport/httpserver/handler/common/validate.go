package common

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// ValidateStruct checks the validate tags of a request body.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// ValidationMessage renders the first failed rule as a client message.
func ValidationMessage(err error) string {
	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) || len(invalid) == 0 {
		return "invalid request"
	}

	first := invalid[0]
	switch first.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", first.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email", first.Field())
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid id", first.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", first.Field(), first.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", first.Field(), first.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", first.Field(), first.Param())
	default:
		return fmt.Sprintf("%s is invalid", first.Field())
	}
}
