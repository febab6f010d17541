package rest

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

func ValidateStruct(payload any) map[string]string {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			fieldName := fieldError.Field()
			switch fieldError.Tag() {
			case "required", "required_if":
				errors[fieldName] = fmt.Sprintf("The %s field is required.", fieldName)
			case "email":
				errors[fieldName] = "The email must be a valid email address."
			case "min":
				errors[fieldName] = fmt.Sprintf("The %s must be at least %s characters.", fieldName, fieldError.Param())
			case "max":
				errors[fieldName] = fmt.Sprintf("The %s may not be greater than %s characters.", fieldName, fieldError.Param())
			case "oneof":
				errors[fieldName] = fmt.Sprintf("The %s must be one of: %s.", fieldName, strings.ReplaceAll(fieldError.Param(), " ", ", "))
			case "url":
				errors[fieldName] = fmt.Sprintf("The %s must be a valid URL.", fieldName)
			default:
				errors[fieldName] = fmt.Sprintf("The %s field is invalid.", fieldName)
			}
		}
	}

	return errors
}
