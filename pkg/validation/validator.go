package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/oksasatya/studytube/pkg/helpers"
)

// Init installs the project rules on Gin's binding validator.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Register(v)
	}
}

// Register installs the project rules on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// validator's built-in e164 allows a leading zero country code; ours does not.
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return helpers.IsE164(fl.Field().String())
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || categories[s]
	})
	v.RegisterAlias("nonzero", "required")
}

var categories = map[string]bool{
	"general": true, "important": true, "question": true,
	"summary": true, "todo": true, "insight": true,
}

// HasTag reports whether err contains a field failure for tag.
func HasTag(err error, tag string) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}

// IsPayloadError reports malformed JSON, as opposed to field rule failures.
func IsPayloadError(err error) bool {
	var verrs validator.ValidationErrors
	return err != nil && !errors.As(err, &verrs)
}

// ToDetails maps a binding error to field messages for the error envelope.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

var fixedMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email",
	"url":      "must be a valid URL",
	"uuid":     "must be a valid UUID",
	"numeric":  "must be numeric",
	"phone":    "must be in E.164 format (e.g., +1234567890)",
	"category": "must be one of: general, important, question, summary, todo, insight",
}

func formatFieldError(fe validator.FieldError) string {
	tag, param := fe.Tag(), fe.Param()
	if msg, ok := fixedMessages[tag]; ok {
		return msg
	}

	unit := " characters long"
	if isNumberKind(fe.Kind()) {
		unit = ""
	}
	switch tag {
	case "len":
		return "must be exactly " + param + " characters long"
	case "min":
		return "must be at least " + param + unit
	case "max":
		return "must be at most " + param + unit
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	}
	if param == "" {
		return fmt.Sprintf("failed rule %q", tag)
	}
	return fmt.Sprintf("failed rule %q (%s)", tag, param)
}

func isNumberKind(k reflect.Kind) bool {
	return (k >= reflect.Int && k <= reflect.Uint64) || k == reflect.Float32 || k == reflect.Float64
}
