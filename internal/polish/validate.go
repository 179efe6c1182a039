package polish

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const maxEmailLength = 320

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks required fields and length bounds. maxLen applies to every
// free-text field; email is optional.
func (f ResumeFields) Validate(maxLen int) error {
	checks := []struct {
		field string
		value string
		tag   string
		limit int
	}{
		{"name", f.Name, fmt.Sprintf("required,max=%d", maxLen), maxLen},
		{"education", f.Education, fmt.Sprintf("required,max=%d", maxLen), maxLen},
		{"experience", f.Experience, fmt.Sprintf("required,max=%d", maxLen), maxLen},
		{"skills", f.Skills, fmt.Sprintf("required,max=%d", maxLen), maxLen},
		{"email", f.Email, fmt.Sprintf("omitempty,max=%d", maxEmailLength), maxEmailLength},
	}

	var fieldErrs []FieldError
	for _, c := range checks {
		err := validate.Var(c.value, c.tag)
		if err == nil {
			continue
		}
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fieldErr := FieldError{Field: c.field, Issue: fe.Tag()}
			if fe.Tag() == "max" {
				fieldErr.Limit = c.limit
			}
			fieldErrs = append(fieldErrs, fieldErr)
		}
	}
	if len(fieldErrs) > 0 {
		return &ValidationError{Fields: fieldErrs}
	}
	return nil
}
