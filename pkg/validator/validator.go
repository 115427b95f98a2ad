package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator reports fields by their JSON names
func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	return &CustomValidator{
		validator: v,
	}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	messages := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				messages[field] = field + " is required"
			case "required_with":
				messages[field] = field + " is required together with " + strings.ToLower(e.Param())
			case "email":
				messages[field] = field + " must be a valid email address"
			case "min":
				messages[field] = field + " must be at least " + e.Param()
			case "max":
				messages[field] = field + " must be at most " + e.Param()
			case "len":
				messages[field] = field + " must have exactly " + e.Param() + " characters"
			case "numeric":
				messages[field] = field + " must contain only digits"
			case "oneof":
				messages[field] = field + " must be one of: " + e.Param()
			case "gte":
				messages[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				messages[field] = field + " must be less than or equal to " + e.Param()
			default:
				messages[field] = field + " is invalid"
			}
		}
	}

	return messages
}
