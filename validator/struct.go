// Package validator turns binding validation failures into client messages.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// errorMessages maps validation tags to message templates. The first %s is
// the field name, the second the tag parameter.
var errorMessages = map[string]string{
	"required": "The field '%s' is required.",
	"min":      "The field '%s' must be at least %s characters long.",
	"max":      "The field '%s' must be no longer than %s characters.",
	"lte":      "The field '%s' must be less than or equal to %s.",
	"gte":      "The field '%s' must be greater than or equal to %s.",
	"gt":       "The field '%s' must be greater than %s.",
	"lt":       "The field '%s' must be less than %s.",
	"oneof":    "The field '%s' must be one of [%s].",
}

// numericMessages override errorMessages for number fields, where min and
// max bound the value rather than the length.
var numericMessages = map[string]string{
	"min": "The field '%s' must be at least %s.",
	"max": "The field '%s' must be at most %s.",
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// parseMessage constructs a friendly error message for one failed field.
func parseMessage(name string, e validator.FieldError) string {
	msg, ok := errorMessages[e.Tag()]
	if num, isNum := numericMessages[e.Tag()]; isNum && isNumber(e.Kind()) {
		msg, ok = num, true
	}
	if ok {
		switch strings.Count(msg, "%s") {
		case 1:
			return fmt.Sprintf(msg, name)
		case 2:
			return fmt.Sprintf(msg, name, e.Param())
		}
	}
	return fmt.Sprintf("Field '%s' is invalid: %s", name, e.Tag())
}

// Fields maps the wire names of failed fields to messages. obj is the
// pointer passed to the binder; fields are named by their json tag, then
// their form tag, then the Go field name. It returns nil when err is not a
// validation failure.
func Fields(obj any, err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		name := wireName(t, e.StructField())
		out[name] = parseMessage(name, e)
	}
	return out
}

// Message summarizes err for a response body. Validation failures yield
// the message of the first failed field in declaration order.
func Message(obj any, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}
	t := reflect.TypeOf(obj)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	e := verrs[0]
	return parseMessage(wireName(t, e.StructField()), e)
}

func wireName(t reflect.Type, field string) string {
	if t == nil || t.Kind() != reflect.Struct {
		return field
	}
	f, ok := t.FieldByName(field)
	if !ok {
		return field
	}
	for _, key := range []string{"json", "form"} {
		if tag := strings.Split(f.Tag.Get(key), ",")[0]; tag != "" && tag != "-" {
			return tag
		}
	}
	return field
}
