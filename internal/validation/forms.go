package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

type LoginForm struct {
	Username string `label:"Username" validate:"required"`
	Password string `label:"Password" validate:"required,min=6"`
}

type RegisterForm struct {
	Username string `label:"Username" validate:"required"`
	Password string `label:"Password" validate:"required,min=6"`
	Role     string `label:"Role" validate:"required,oneof=User Admin"`
}

type ArticleForm struct {
	Title      string `label:"Title" validate:"required,min=3"`
	Content    string `label:"Content" validate:"required,min=10"`
	CategoryID string `label:"Category" validate:"required"`
	ImageURL   string `label:"Image URL" validate:"omitempty,url"`
}

type CategoryForm struct {
	Name string `label:"Category name" validate:"required,max=100"`
}

// FieldError is one failed rule, phrased for display next to the field.
type FieldError struct {
	Field   string
	Message string
}

// FieldErrors is returned by ValidateForm when any rule fails.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	if len(fe) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(fe))
	for i, e := range fe {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// For returns the message for field, or "".
func (fe FieldErrors) For(field string) string {
	for _, e := range fe {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})
}

// ValidateForm checks one of the form structs above. Leading and trailing
// whitespace is not trimmed here; callers trim before validating.
func ValidateForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating form: %w", err)
	}

	out := make(FieldErrors, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, FieldError{Field: e.StructField(), Message: validationMessage(e)})
	}
	return out
}

func validationMessage(e validator.FieldError) string {
	label := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", label, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", label, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(e.Param(), " ", ", "))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", label)
	default:
		return fmt.Sprintf("%s is invalid (%s)", label, e.Tag())
	}
}
