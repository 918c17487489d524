package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()

	// Use JSON tag names in error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomValidations()
}

func registerCustomValidations() {
	// Role validation
	validate.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		role := fl.Field().String()
		validRoles := []string{"client", "artist"}
		for _, r := range validRoles {
			if role == r {
				return true
			}
		}
		return false
	})

	// Tattoo size category validation
	validate.RegisterValidation("size_category", func(fl validator.FieldLevel) bool {
		size := fl.Field().String()
		validSizes := []string{"small", "medium", "large", "full_piece", ""}
		for _, s := range validSizes {
			if size == s {
				return true
			}
		}
		return false
	})

	// Color preference validation
	validate.RegisterValidation("color_preference", func(fl validator.FieldLevel) bool {
		pref := fl.Field().String()
		validPrefs := []string{"black_and_grey", "color", "either", ""}
		for _, p := range validPrefs {
			if pref == p {
				return true
			}
		}
		return false
	})
}

// Validate validates a struct and returns a map of field errors
func Validate(s interface{}) map[string]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	for _, err := range err.(validator.ValidationErrors) {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errors[field] = "This field is required"
		case "email":
			errors[field] = "Invalid email format"
		case "min":
			errors[field] = "Value is too short (min: " + err.Param() + ")"
		case "max":
			errors[field] = "Value is too long (max: " + err.Param() + ")"
		case "gte":
			errors[field] = "Value must be at least " + err.Param()
		case "lte":
			errors[field] = "Value must be at most " + err.Param()
		case "url":
			errors[field] = "Invalid URL format"
		case "role":
			errors[field] = "Invalid role. Must be: client or artist"
		case "size_category":
			errors[field] = "Invalid size. Must be: small, medium, large, or full_piece"
		case "color_preference":
			errors[field] = "Invalid color preference. Must be: black_and_grey, color, or either"
		default:
			errors[field] = "Invalid value"
		}
	}

	return errors
}

// ValidateVar validates a single variable
func ValidateVar(field interface{}, tag string) error {
	return validate.Var(field, tag)
}
