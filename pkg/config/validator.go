package config

import (
	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidators registers custom validation functions
func RegisterCustomValidators(v *validator.Validate) error {
	return v.RegisterValidation("glob", validateGlobPattern)
}

// validateGlobPattern validates doublestar glob pattern syntax
func validateGlobPattern(fl validator.FieldLevel) bool {
	return doublestar.ValidatePattern(fl.Field().String())
}
