package form

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/nobl9/govy/pkg/govy"
	"github.com/pkg/errors"
)

// ErrNotValid is matched by every [*ValidationError].
var ErrNotValid = errors.New("Not Valid")

// ValidationError is returned by [Form.Validate] when the form or any of its
// nested forms is invalid.
type ValidationError struct {
	// Fields maps paths of the failing fields to their messages.
	// Paths of nested fields are dotted, list items are indexed: "b.field2", "cs[0].hey", "f.prop1.pow".
	Fields map[string]string
	// Messages maps paths of forms to their free-floating messages, the root form's path is empty.
	Messages map[string][]string
}

func (e *ValidationError) Error() string {
	paths := make([]string, 0, len(e.Fields))
	for path := range e.Fields {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	b := strings.Builder{}
	b.WriteString(ErrNotValid.Error())
	for i, path := range paths {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", path, e.Fields[path])
	}
	return b.String()
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrNotValid
}

type reporter struct {
	state    *State
	reported bool
}

func (r *reporter) Message(msg string) {
	r.state.ValidationMessages = append(r.state.ValidationMessages, msg)
	r.reported = true
}

func (r *reporter) Field(key, msg string) {
	r.state.Validation[key] = msg
	r.reported = true
}

// Validate checks every validated field of the form, runs the projection's
// [Hook] and validates all nested forms.
// The first failing validator of a field sets its message in [State.Validation].
// A failing nested form marks this form invalid too, but never stops the
// remaining nested forms from being validated.
//
// It returns nil if everything is valid, [*ValidationError] otherwise.
// Other errors are returned only if a validator could not be run at all.
func (f *Form[T]) Validate(settings any) error {
	f.ClearValidation()
	p := f.projection
	m := f.Model
	if m == nil {
		m = new(T)
	}

	invalid := false
	for _, v := range p.validators(m, settings) {
		err := v.Validate(*m)
		if err == nil {
			continue
		}
		var validatorErr *govy.ValidatorError
		if !errors.As(err, &validatorErr) {
			return errors.Wrapf(err, "failed to validate %s", p.name)
		}
		for _, propErr := range validatorErr.Errors {
			if len(propErr.Errors) == 0 {
				continue
			}
			f.Validation[propErr.PropertyName] = propErr.Errors[0].Message
			invalid = true
		}
	}

	if p.hook != nil {
		r := &reporter{state: &f.State}
		p.hook(f, r)
		invalid = invalid || r.reported
	}

	validateChild := func(child Editable) error {
		if isNil(child) {
			return nil
		}
		err := child.Validate(settings)
		switch {
		case err == nil:
		case errors.Is(err, ErrNotValid):
			invalid = true
		default:
			return err
		}
		return nil
	}
	for _, fd := range p.fieldsOf(KindForm) {
		if err := validateChild(f.nested[fd.Key]); err != nil {
			return err
		}
	}
	for _, fd := range p.fieldsOf(KindFormArray) {
		for _, child := range f.lists[fd.Key] {
			if err := validateChild(child); err != nil {
				return err
			}
		}
	}
	for _, fd := range p.fieldsOf(KindFormMap) {
		entries := f.maps[fd.Key]
		for _, key := range sortedKeys(entries) {
			if err := validateChild(entries[key]); err != nil {
				return err
			}
		}
	}

	if !invalid {
		return nil
	}
	f.IsInvalid = true
	validationErr := &ValidationError{
		Fields:   make(map[string]string),
		Messages: make(map[string][]string),
	}
	f.collect("", validationErr)
	return validationErr
}

// collect gathers the messages of the form tree rooted at f into err.
func (f *Form[T]) collect(path string, err *ValidationError) {
	for key, msg := range f.Validation {
		if msg != "" {
			err.Fields[joinPath(path, key)] = msg
		}
	}
	if len(f.ValidationMessages) > 0 {
		err.Messages[path] = slices.Clone(f.ValidationMessages)
	}
	for key, child := range f.nested {
		if !isNil(child) {
			child.collect(joinPath(path, key), err)
		}
	}
	for key, list := range f.lists {
		for i, child := range list {
			if !isNil(child) {
				child.collect(fmt.Sprintf("%s[%d]", joinPath(path, key), i), err)
			}
		}
	}
	for key, entries := range f.maps {
		for entry, child := range entries {
			if !isNil(child) {
				child.collect(joinPath(joinPath(path, key), entry), err)
			}
		}
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
