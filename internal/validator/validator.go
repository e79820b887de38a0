// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fintrack/internal/cycle"
	"fintrack/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("expense_category", validateExpenseCategory)
		_ = v.RegisterValidation("cycle_type", validateCycleType)
		_ = v.RegisterValidation("flexdate", validateFlexDate)
		v.RegisterTagNameFunc(jsonFieldName)
	}
}

// jsonFieldName reports fields by their JSON name so error messages match
// the request body.
func jsonFieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	return models.Category(fl.Field().String()).IsValid()
}

func validateCycleType(fl validator.FieldLevel) bool {
	return models.CycleType(fl.Field().String()).IsValid()
}

// validateFlexDate accepts the date formats understood by cycle.ParseDate.
// Empty values pass; combine with required where the field is mandatory.
func validateFlexDate(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := cycle.ParseDate(s)
	return err == nil
}
