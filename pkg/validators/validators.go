// Package validators provides the common field validators of form projections.
//
// All validators except [Required], [IsChecked] and [MinLength] treat an empty
// value as valid, combine them with [Required] to make a field mandatory.
package validators

import (
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/nobl9/govy/pkg/govy"
	"github.com/nobl9/govy/pkg/rules"
	"github.com/pkg/errors"

	"github.com/nieomylnieja/govyform/pkg/form"
)

// Localizer translates validator messages.
// If the settings passed to [form.Form.Validate] implement it, every message
// produced by this package is passed through it.
type Localizer interface {
	Localize(message string) string
}

// Validator is a [form.Validator] with a description.
type Validator struct {
	description string
	validate    func(value any) string
}

func (v Validator) Validate(value, _, settings any) string {
	msg := v.validate(value)
	if msg == "" {
		return ""
	}
	if l, ok := settings.(Localizer); ok {
		return l.Localize(msg)
	}
	return msg
}

func (v Validator) Description() string { return v.description }

var (
	_ form.Validator = Validator{}
	_ form.Describer = Validator{}
)

const (
	msgRequired = "Required"
	msgEmail    = "Not a valid Email Address"
	msgNumber   = "Not a valid number"
	msgInteger  = "Not a valid integer"
	msgURL      = "Not a valid URL"
	msgChecked  = "Must be checked"
)

var urlRegexp = regexp.MustCompile(
	`^(https?://)?(www\.)?[-a-zA-Z0-9@:%._\+~#=]{2,256}\.[a-z]{2,6}\b([-a-zA-Z0-9@:%_\+.~#?&/=]*)$`)

// Required fails for nil values, blank strings and empty collections.
// Zero numbers and false are present values.
func Required() Validator {
	return Validator{
		description: "value is required",
		validate: func(value any) string {
			if s, ok := asString(value); ok {
				if strings.TrimSpace(s) == "" {
					return msgRequired
				}
				return ""
			}
			v := reflect.ValueOf(value)
			switch v.Kind() {
			case reflect.Pointer, reflect.Interface:
				if v.IsNil() {
					return msgRequired
				}
			case reflect.Slice, reflect.Map, reflect.Array:
				if v.Len() == 0 {
					return msgRequired
				}
			default:
			}
			return ""
		},
	}
}

// IsEmail requires a valid email address.
func IsEmail() Validator {
	return stringRule("must be a valid email address", rules.StringEmail().WithMessage(msgEmail))
}

// IsNumber requires a string holding a decimal number.
func IsNumber() Validator {
	return stringRule("must be a number", govy.NewRule(func(s string) error {
		if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
			return errors.New(msgNumber)
		}
		return nil
	}))
}

// IsInteger requires a string holding a whole number, "4.0" is accepted.
func IsInteger() Validator {
	return stringRule("must be an integer", govy.NewRule(func(s string) error {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
			return errors.New(msgInteger)
		}
		return nil
	}))
}

// IsURL requires a web address, the scheme is optional.
func IsURL() Validator {
	return stringRule("must be a valid URL", rules.StringMatchRegexp(urlRegexp).WithMessage(msgURL))
}

// MinLength requires at least n characters, an empty value is too short.
func MinLength(n int) Validator {
	rule := rules.StringMinLength(n).WithMessage(fmt.Sprintf("Must be at least %d characters", n))
	return Validator{
		description: fmt.Sprintf("length must be at least %d", n),
		validate: func(value any) string {
			s, ok := asString(value)
			if !ok {
				return fmt.Sprintf("expected a string, got %T", value)
			}
			if err := rule.Validate(s); err != nil {
				return err.Error()
			}
			return ""
		},
	}
}

// IsChecked requires a true boolean value.
func IsChecked() Validator {
	return Validator{
		description: "must be checked",
		validate: func(value any) string {
			switch v := value.(type) {
			case bool:
				if v {
					return ""
				}
			case *bool:
				if v != nil && *v {
					return ""
				}
			}
			return msgChecked
		},
	}
}

// Matches requires the value to match re, message is reported otherwise.
func Matches(re *regexp.Regexp, message string) Validator {
	return stringRule(
		fmt.Sprintf("must match %s", re),
		rules.StringMatchRegexp(re).WithMessage(message),
	)
}

// stringRule runs rule against non-empty string values.
func stringRule(description string, rule govy.Rule[string]) Validator {
	return Validator{
		description: description,
		validate: func(value any) string {
			s, ok := asString(value)
			if !ok {
				return fmt.Sprintf("expected a string, got %T", value)
			}
			if s == "" {
				return ""
			}
			if err := rule.Validate(s); err != nil {
				return err.Error()
			}
			return ""
		},
	}
}

func asString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", true
		}
		return *v, true
	default:
		return "", false
	}
}
