package form

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/nobl9/govy/pkg/rules"

	"github.com/nieomylnieja/govyform/internal/fields"
)

// ValidatorBuilder composes a validator chain for a single field.
// It is passed to the callbacks declared with [Setup.FieldWith] on every
// validation, so conditions see the model as it is at that moment.
type ValidatorBuilder[T any] struct {
	projection *Projection[T]
	model      *T
	settings   any
	validators []Validator
}

// Model returns the model being validated.
func (b *ValidatorBuilder[T]) Model() *T { return b.model }

// Settings returns the settings passed to [Form.Validate].
func (b *ValidatorBuilder[T]) Settings() any { return b.settings }

// Add appends validators to the chain.
func (b *ValidatorBuilder[T]) Add(validators ...Validator) *ValidatorBuilder[T] {
	for _, v := range validators {
		if v != nil {
			b.validators = append(b.validators, v)
		}
	}
	return b
}

// AddIf appends validators only if cond holds for the current model.
func (b *ValidatorBuilder[T]) AddIf(cond func(m *T) bool, validators ...Validator) *ValidatorBuilder[T] {
	if b.model == nil || cond == nil || !cond(b.model) {
		return b
	}
	return b.Add(validators...)
}

// EqualTo requires the value to be equal to the value of the field under otherKey.
// If message is empty, "Must match <label>" is reported.
func (b *ValidatorBuilder[T]) EqualTo(otherKey, message string) *ValidatorBuilder[T] {
	if message == "" {
		message = fmt.Sprintf("Must match %s", b.projection.Label(otherKey))
	}
	other, found := fields.Lookup(reflect.TypeFor[T](), otherKey)
	model := b.model
	return b.Add(ValidatorFunc(func(value, _, _ any) string {
		if !found {
			return fmt.Sprintf("cannot compare with unknown field %q", otherKey)
		}
		if model == nil {
			return ""
		}
		var otherValue any
		if v, ok := fields.Value(reflect.ValueOf(model).Elem(), other.Index); ok {
			otherValue = fields.Interface(v)
		}
		if !reflect.DeepEqual(value, otherValue) {
			return message
		}
		return ""
	}))
}

// Matches requires a non-empty string value to match re.
// If message is empty, the govy rule's message is reported.
func (b *ValidatorBuilder[T]) Matches(re *regexp.Regexp, message string) *ValidatorBuilder[T] {
	rule := rules.StringMatchRegexp(re)
	if message != "" {
		rule = rule.WithMessage(message)
	}
	validator := Rule(rule)
	return b.Add(ValidatorFunc(func(value, model, settings any) string {
		if s, ok := value.(string); ok && s == "" {
			return ""
		}
		return validator.Validate(value, model, settings)
	}))
}
