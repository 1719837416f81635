package binder

import (
	"github.com/go-playground/validator/v10"
)

// sortDirValidator ensures the value is "asc", "desc", or the empty string.
// The empty string is allowed so that list endpoints can fall back to their
// per-field default direction when the param is omitted.
func sortDirValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || value == "asc" || value == "desc"
}
