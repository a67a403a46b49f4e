package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator validates request structs and reports failures as a field-keyed
// error map, the shape the action boundary returns to clients.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Report fields by their json name so error keys match the wire format.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &Validator{validate: v}
}

// Struct validates obj and returns a map of field name to messages.
// A nil map means the struct is valid.
func (v *Validator) Struct(obj interface{}) map[string][]string {
	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string][]string{"_": {err.Error()}}
	}

	fieldErrors := make(map[string][]string, len(errs))
	for _, e := range errs {
		fieldErrors[e.Field()] = append(fieldErrors[e.Field()], message(e))
	}
	return fieldErrors
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "invalid email format"
	case "min":
		return "value is too short"
	case "max":
		return "value is too long"
	case "oneof":
		return "value must be one of: " + e.Param()
	case "datetime":
		return "invalid date format"
	default:
		return "invalid value"
	}
}
