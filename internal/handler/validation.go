package handler

import (
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// formatValidationErrors flattens validator errors into "field:tag" pairs
func formatValidationErrors(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return ""
	}

	fields := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, strings.ToLower(e.Field())+":"+e.Tag())
	}
	sort.Strings(fields)
	return strings.Join(fields, ",")
}
