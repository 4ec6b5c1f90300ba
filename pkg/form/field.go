package form

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/nobl9/govy/pkg/govy"
	"github.com/pkg/errors"
)

// Kind tells how a form field is projected.
type Kind int

const (
	// KindScalar is a plain value copied onto the form's model.
	KindScalar Kind = iota
	// KindForm is a single nested model projected into a nested form.
	KindForm
	// KindFormArray is a slice of nested models projected into a list of forms.
	KindFormArray
	// KindFormMap is a string keyed map of nested models projected into keyed forms.
	KindFormMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindForm:
		return "form"
	case KindFormArray:
		return "formArray"
	case KindFormMap:
		return "formMap"
	default:
		return "unknown"
	}
}

// Validator checks a single field value.
// It returns an empty string when the value is valid and the error message otherwise.
// The model is the form's current model (*T) and settings is the value passed to [Form.Validate].
type Validator interface {
	Validate(value, model, settings any) string
}

// ValidatorFunc adapts a function to the [Validator] interface.
type ValidatorFunc func(value, model, settings any) string

func (f ValidatorFunc) Validate(value, model, settings any) string {
	return f(value, model, settings)
}

// Describer is implemented by validators which can explain what they check.
// The description is used in validation plans and documentation.
type Describer interface {
	Description() string
}

// Rule adapts a govy rule to the [Validator] interface.
// A nil value is validated as the zero value of V.
func Rule[V any](rule govy.Rule[V]) Validator {
	return ValidatorFunc(func(value, _, _ any) string {
		var v V
		if value != nil {
			typed, ok := value.(V)
			if !ok {
				return fmt.Sprintf("expected %T value, got %T", v, value)
			}
			v = typed
		}
		if err := rule.Validate(v); err != nil {
			return err.Error()
		}
		return ""
	})
}

// Descriptor describes a single declared form field.
type Descriptor struct {
	Key   string
	Label string
	Kind  Kind
	// Type is the Go type of the model's struct field.
	Type reflect.Type
	// Validators lists descriptions of the field's validators in declaration order.
	Validators []string
	// Child is the projection used for nested forms, nil for [KindScalar].
	Child Projector
}

type field[T any] struct {
	Descriptor
	index      []int
	validators []Validator
	builders   []func(b *ValidatorBuilder[T])
}

func (f field[T]) hasValidators() bool {
	return len(f.validators) > 0 || len(f.builders) > 0
}

// chain runs the field's validators against value and returns the first error message.
// Builder callbacks are evaluated anew on every call.
func (f field[T]) chain(p *Projection[T], value any, model *T, settings any) string {
	validators := f.validators
	if len(f.builders) > 0 {
		b := &ValidatorBuilder[T]{projection: p, model: model, settings: settings}
		for _, build := range f.builders {
			build(b)
		}
		validators = b.validators
	}
	for _, v := range validators {
		if msg := v.Validate(value, model, settings); msg != "" {
			return msg
		}
	}
	return ""
}

// rule wraps the field's validator chain in a single govy rule.
func (f field[T]) rule(p *Projection[T], model *T, settings any) govy.Rule[any] {
	return govy.NewRule(func(v any) error {
		if msg := f.chain(p, v, model, settings); msg != "" {
			return errors.New(msg)
		}
		return nil
	}).WithDescription(f.description())
}

func (f field[T]) description() string {
	if len(f.builders) > 0 {
		return "validators built from the current model"
	}
	return strings.Join(f.Validators, ", then ")
}

func describe(v Validator) string {
	if d, ok := v.(Describer); ok {
		return d.Description()
	}
	return "custom validator"
}
