package transfer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"learnmap/local-app/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("resource_type", func(fl validator.FieldLevel) bool {
		return model.ResourceType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		return model.Difficulty(fl.Field().String()).Valid()
	})
	return v
}

// validateRoadmap runs the struct tag rules declared on the model
func validateRoadmap(r model.Roadmap) error {
	if err := validate.Struct(r); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError formats validation errors into readable messages
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		msgs = append(msgs, formatFieldError(e))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// formatFieldError formats a single field validation error
func formatFieldError(e validator.FieldError) string {
	field := strings.TrimPrefix(e.Namespace(), "Roadmap.")

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "unique":
		return fmt.Sprintf("%s contains duplicate ids", field)
	case "resource_type":
		return fmt.Sprintf("%s has unknown resource type %q", field, e.Value())
	case "difficulty":
		return fmt.Sprintf("%s has unknown difficulty %q", field, e.Value())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
