package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// expectedShape is shown when validation fails.
const expectedShape = `expected:
  [schema]
  version = "1"

  [abs_lib_one]
  url = "https://abs.example.com"
  token = "<api token>"
  library = "<library id>"

  [abs_lib_two]
  url = "https://abs.example.org"
  token = "<api token>"
  library = "<library id>"`

// ValidationError lists every invalid field of a config.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString("invalid fields:\n")
	for _, f := range e.Fields {
		b.WriteString("  - ")
		b.WriteString(f)
		b.WriteByte('\n')
	}
	b.WriteString(expectedShape)
	return b.String()
}

// stringKeys must hold strings in the config file; a number or boolean is a schema violation.
var stringKeys = []string{
	"schema.version",
	"abs_lib_one.url", "abs_lib_one.token", "abs_lib_one.library",
	"abs_lib_two.url", "abs_lib_two.token", "abs_lib_two.library",
}

func checkStrings(v *viper.Viper, keys []string) error {
	var fields []string
	for _, key := range keys {
		raw := v.Get(key)
		if raw == nil {
			continue
		}
		if _, ok := raw.(string); !ok {
			fields = append(fields, fmt.Sprintf("%s: must be a string, got %v (%T)", key, raw, raw))
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their config key rather than the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks a config against the schema.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, describe(fe))
	}
	return &ValidationError{Fields: fields}
}

// describe renders one field error as "section.key: reason".
func describe(fe validator.FieldError) string {
	ns := fe.Namespace()
	// Drop the root struct name.
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", ns)
	case "eq":
		return fmt.Sprintf("%s: must be %q, got %q", ns, fe.Param(), fmt.Sprint(fe.Value()))
	case "oneof":
		return fmt.Sprintf("%s: must be one of [%s], got %q", ns, fe.Param(), fmt.Sprint(fe.Value()))
	case "url", "startswith":
		return fmt.Sprintf("%s: must be an http(s) URL, got %q", ns, fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s: failed %q validation", ns, fe.Tag())
	}
}
