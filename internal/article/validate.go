package article

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidDraft wraps every field validation failure.
var ErrInvalidDraft = errors.New("invalid article")

// Validator checks a draft before it is submitted.
type Validator interface {
	Validate(d Draft) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(Draft) error

func (f ValidatorFunc) Validate(d Draft) error { return f(d) }

// StructValidator applies the struct tags on Draft.
type StructValidator struct {
	v *validator.Validate
}

func NewStructValidator() *StructValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &StructValidator{v: v}
}

func (s *StructValidator) Validate(d Draft) error {
	d.Content = strings.TrimSpace(d.Content)
	if err := s.v.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return fmt.Errorf("%w: %s", ErrInvalidDraft, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	return nil
}
