package helper

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var monthStartRe = regexp.MustCompile(`^\d{4}-\d{2}-01$`)

// Validate: satu instance untuk semua DTO (server & form klien).
// Nama field di error = nama json.
var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// YYYY-MM-01 (bulan invoice)
	_ = v.RegisterValidation("month_start", func(fl validator.FieldLevel) bool {
		return monthStartRe.MatchString(fl.Field().String())
	})
	return v
}

// FirstValidationMessage: pesan untuk pelanggaran pertama.
// Lookup: "field.tag" → "field" → fallback generik.
func FirstValidationMessage(err error, messages map[string]string) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "Dữ liệu không hợp lệ"
	}
	fe := ve[0]
	field := fe.Field()
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return msg
	}
	if msg, ok := messages[field]; ok {
		return msg
	}
	return "Dữ liệu không hợp lệ: " + field
}

// ValidateStruct: validasi + pesan pertama ("" kalau lolos)
func ValidateStruct(s any, messages map[string]string) string {
	if err := Validate.Struct(s); err != nil {
		return FirstValidationMessage(err, messages)
	}
	return ""
}

// ValidationMessages: semua pelanggaran, satu pesan per field (untuk form klien)
func ValidationMessages(err error, messages map[string]string) map[string]string {
	out := map[string]string{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, fe := range ve {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := messages[field+"."+fe.Tag()]; ok {
			out[field] = msg
		} else if msg, ok := messages[field]; ok {
			out[field] = msg
		} else {
			out[field] = "Dữ liệu không hợp lệ: " + field
		}
	}
	return out
}
