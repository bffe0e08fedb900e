// Package form checks user input before it is sent anywhere.
package form

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

// Error lists every field that failed validation.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.message())
	}
	return strings.Join(msgs, "; ")
}

func (f FieldError) message() string {
	switch f.Rule {
	case "required":
		return f.Field + " is required"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", f.Field, f.Param)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", f.Field, f.Param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", f.Field, f.Param)
	case "datetime":
		return f.Field + " must be a date like " + f.Param
	default:
		return f.Field + " is invalid"
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields under the names the API uses
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate runs the struct's validate tags and returns *Error on failure.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	return &Error{Fields: Details(err)}
}

func Details(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "", Rule: "invalid", Param: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{
			Field: e.Field(),
			Rule:  e.Tag(),
			Param: e.Param(),
		})
	}
	return out
}
