package form

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/nieomylnieja/govyform/internal/fields"
	"github.com/nieomylnieja/govyform/internal/typeinfo"
)

// Setup accumulates field descriptors of a [Projection] in declaration order.
// It is handed to the setup function passed to [New] and must not be retained.
type Setup[T any] struct {
	typ     reflect.Type
	fields  []field[T]
	defects []string
}

// Field declares a scalar field validated by a fixed chain of validators.
// Validators run in order and the first error message wins.
func (s *Setup[T]) Field(key, label string, validators ...Validator) *Setup[T] {
	f, ok := s.lookup(key, label, KindScalar)
	if !ok {
		return s
	}
	for i, v := range validators {
		if v == nil {
			s.defect("validator %d of %q is nil", i, key)
			return s
		}
		f.Validators = append(f.Validators, describe(v))
	}
	f.validators = validators
	s.fields = append(s.fields, f)
	return s
}

// FieldWith declares a scalar field whose validator chain is composed anew on
// every validation by the builder callbacks, see [ValidatorBuilder].
func (s *Setup[T]) FieldWith(key, label string, builders ...func(b *ValidatorBuilder[T])) *Setup[T] {
	f, ok := s.lookup(key, label, KindScalar)
	if !ok {
		return s
	}
	for i, b := range builders {
		if b == nil {
			s.defect("validator builder %d of %q is nil", i, key)
			return s
		}
	}
	f.builders = builders
	f.Validators = []string{"built from the current model"}
	s.fields = append(s.fields, f)
	return s
}

// Form declares a single nested model field projected with child.
// The field must hold the child's model type or a pointer to it.
func (s *Setup[T]) Form(key, label string, child Projector) *Setup[T] {
	return s.association(key, label, KindForm, child)
}

// FormArray declares a slice of nested models projected with child.
func (s *Setup[T]) FormArray(key, label string, child Projector) *Setup[T] {
	return s.association(key, label, KindFormArray, child)
}

// FormMap declares a string keyed map of nested models projected with child.
func (s *Setup[T]) FormMap(key, label string, child Projector) *Setup[T] {
	return s.association(key, label, KindFormMap, child)
}

func (s *Setup[T]) association(key, label string, kind Kind, child Projector) *Setup[T] {
	f, ok := s.lookup(key, label, kind)
	if !ok {
		return s
	}
	if isNil(child) {
		s.defect("nested projection of %q is nil", key)
		return s
	}
	childType := child.ModelType()
	var elem reflect.Type
	switch kind {
	case KindForm:
		elem = f.Type
	case KindFormArray:
		if f.Type.Kind() != reflect.Slice {
			s.defect("field %q of type %s is not a slice", key, f.Type)
			return s
		}
		elem = f.Type.Elem()
	case KindFormMap:
		if f.Type.Kind() != reflect.Map || f.Type.Key().Kind() != reflect.String {
			s.defect("field %q of type %s is not a string keyed map", key, f.Type)
			return s
		}
		elem = f.Type.Elem()
	default:
	}
	if !holds(elem, childType) {
		s.defect("field %q of type %s cannot hold %s forms", key, f.Type, typeinfo.Get(childType))
		return s
	}
	f.Child = child
	s.fields = append(s.fields, f)
	return s
}

// holds reports whether typ is modelType or a single pointer to it.
func holds(typ, modelType reflect.Type) bool {
	return typ == modelType || (typ.Kind() == reflect.Pointer && typ.Elem() == modelType)
}

func (s *Setup[T]) lookup(key, label string, kind Kind) (field[T], bool) {
	sf, ok := fields.Lookup(s.typ, key)
	if !ok {
		s.defect("field %q not found", key)
		return field[T]{}, false
	}
	for _, existing := range s.fields {
		if existing.Key == key {
			s.defect("field %q declared more than once", key)
			return field[T]{}, false
		}
	}
	return field[T]{
		Descriptor: Descriptor{
			Key:   key,
			Label: label,
			Kind:  kind,
			Type:  sf.Type,
		},
		index: sf.Index,
	}, true
}

func (s *Setup[T]) defect(format string, a ...any) {
	s.defects = append(s.defects, fmt.Sprintf(format, a...))
}

// SetupError lists the defects found in the field declarations of a projection.
type SetupError struct {
	Type    typeinfo.TypeInfo
	Defects []string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("invalid form setup for %s: %s", e.Type, strings.Join(e.Defects, "; "))
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return rv.IsNil()
	default:
		return false
	}
}
