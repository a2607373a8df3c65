package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Init configures the validator behind Gin's binding so that errors carry
// JSON field names and the project aliases are available.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		configure(v)
	}
}

var (
	std     *validator.Validate
	stdOnce sync.Once
)

// Struct validates s with `validate` tags, outside of any HTTP binding.
func Struct(s any) error {
	stdOnce.Do(func() {
		std = validator.New(validator.WithRequiredStructEnabled())
		configure(std)
	})
	return std.Struct(s)
}

// MaxMoney is the largest amount a NUMERIC(12,2) column holds.
const MaxMoney = "9999999999.99"

func configure(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonName)
	v.RegisterAlias("money", "gte=0,lte="+MaxMoney)
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// FieldError is one failed rule, in declaration order.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Fields flattens a binding/validation error into ordered field errors.
func Fields(err error) []FieldError {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	switch {
	case errors.As(err, &ute):
		return []FieldError{{Field: ute.Field, Tag: "type", Message: ute.Field + " has an invalid type"}}
	case errors.As(err, &se), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return []FieldError{{Field: "payload", Tag: "json", Message: "request body is not valid JSON"}}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, FieldError{
				Field:   fe.Field(),
				Tag:     fe.Tag(),
				Message: fe.Field() + " " + formatFieldError(fe),
			})
		}
		return out
	}

	return []FieldError{{Field: "payload", Tag: "invalid", Message: "invalid payload"}}
}

// Summary renders err as "Validation failed: <msg>; <msg>".
func Summary(err error) string {
	fields := Fields(err)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f.Message)
	}
	return "Validation failed: " + strings.Join(msgs, "; ")
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return "is required"
	case "money":
		if fe.ActualTag() == "lte" {
			return "must be at most " + MaxMoney
		}
		return "must not be negative"
	case "email":
		return "must be a valid email"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "min":
		if isNumberKind(fe.Kind()) {
			return "must be at least " + param
		}
		return "must be at least " + param + " characters long"
	case "max":
		if isNumberKind(fe.Kind()) {
			return "must be at most " + param
		}
		return "must be at most " + param + " characters long"
	case "gte":
		return "must be greater than or equal to " + param
	case "gt":
		return "must be greater than " + param
	case "lte":
		return "must be less than or equal to " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	default:
		if param != "" {
			return fmt.Sprintf("failed '%s' with parameter '%s'", fe.Tag(), param)
		}
		return fmt.Sprintf("failed '%s'", fe.Tag())
	}
}

func isNumberKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
