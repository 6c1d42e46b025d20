package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names, the ones API clients send.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct turns the first validator failure into a ValidationError.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return invalid("", err)
	}
	fe := fieldErrs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return invalidf(field, "this field is required")
	case "min":
		return invalidf(field, "must be at least %s", fe.Param())
	case "max":
		return invalidf(field, "must be at most %s", fe.Param())
	case "e164":
		return invalidf(field, "enter a valid phone number")
	case "oneof":
		return invalidf(field, "must be one of: %s", fe.Param())
	default:
		return invalidf(field, "failed %s check", fe.Tag())
	}
}

// NormalizePhone strips formatting and turns the local 8XXXXXXXXXX form into +7XXXXXXXXXX.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	phone := b.String()
	if len(phone) == 11 && strings.HasPrefix(phone, "8") {
		phone = "+7" + phone[1:]
	}
	if phone != "" && !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	return phone
}
