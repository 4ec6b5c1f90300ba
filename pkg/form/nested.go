package form

import (
	"maps"

	"github.com/pkg/errors"

	"github.com/nieomylnieja/govyform/internal/typeinfo"
)

// Nested returns the nested form of the [KindForm] field under key.
func (f *Form[T]) Nested(key string) Editable {
	return f.nested[key]
}

// SetNested replaces the nested form of the [KindForm] field under key.
// A nil child clears the field.
func (f *Form[T]) SetNested(key string, child Editable) error {
	if err := f.checkChild(key, KindForm, child); err != nil {
		return err
	}
	f.nested[key] = child
	return nil
}

// List returns the nested forms of the [KindFormArray] field under key.
// The returned slice is shared with the form until the next [Form.Append] or [Form.SetList].
func (f *Form[T]) List(key string) []Editable {
	return f.lists[key]
}

// SetList replaces the nested forms of the [KindFormArray] field under key.
func (f *Form[T]) SetList(key string, children []Editable) error {
	for _, child := range children {
		if err := f.checkChild(key, KindFormArray, child); err != nil {
			return err
		}
	}
	if err := f.checkKind(key, KindFormArray); err != nil {
		return err
	}
	f.lists[key] = append([]Editable(nil), children...)
	return nil
}

// Append adds nested forms to the [KindFormArray] field under key.
func (f *Form[T]) Append(key string, children ...Editable) error {
	for _, child := range children {
		if err := f.checkChild(key, KindFormArray, child); err != nil {
			return err
		}
	}
	if err := f.checkKind(key, KindFormArray); err != nil {
		return err
	}
	f.lists[key] = append(f.lists[key], children...)
	return nil
}

// Map returns the nested forms of the [KindFormMap] field under key.
func (f *Form[T]) Map(key string) map[string]Editable {
	return f.maps[key]
}

// SetEntry sets the nested form stored under entry of the [KindFormMap] field under key.
func (f *Form[T]) SetEntry(key, entry string, child Editable) error {
	if err := f.checkChild(key, KindFormMap, child); err != nil {
		return err
	}
	if f.maps[key] == nil {
		f.maps[key] = make(map[string]Editable)
	}
	f.maps[key][entry] = child
	return nil
}

// SetMap replaces the nested forms of the [KindFormMap] field under key.
func (f *Form[T]) SetMap(key string, children map[string]Editable) error {
	for _, child := range children {
		if err := f.checkChild(key, KindFormMap, child); err != nil {
			return err
		}
	}
	if err := f.checkKind(key, KindFormMap); err != nil {
		return err
	}
	f.maps[key] = maps.Clone(children)
	return nil
}

func (f *Form[T]) checkKind(key string, kind Kind) error {
	fd, ok := f.projection.field(key)
	if !ok {
		return errors.Errorf("field %q is not declared", key)
	}
	if fd.Kind != kind {
		return errors.Errorf("field %q is a %s field, not %s", key, fd.Kind, kind)
	}
	return nil
}

func (f *Form[T]) checkChild(key string, kind Kind, child Editable) error {
	if err := f.checkKind(key, kind); err != nil {
		return err
	}
	if isNil(child) {
		return nil
	}
	fd, _ := f.projection.field(key)
	if expected := fd.Child.ModelType(); child.ModelType() != expected {
		return errors.Errorf("field %q holds %s forms, got %s form",
			key, typeinfo.Get(expected), typeinfo.Get(child.ModelType()))
	}
	return nil
}

// NestedOf returns the typed nested form of the [KindForm] field under key,
// or nil if there is none or it projects a different model type.
func NestedOf[C, T any](f *Form[T], key string) *Form[C] {
	child, _ := f.Nested(key).(*Form[C])
	return child
}

// ListOf returns the typed nested forms of the [KindFormArray] field under key.
// Items projecting a different model type are nil.
func ListOf[C, T any](f *Form[T], key string) []*Form[C] {
	list := f.List(key)
	if list == nil {
		return nil
	}
	out := make([]*Form[C], len(list))
	for i, child := range list {
		out[i], _ = child.(*Form[C])
	}
	return out
}

// MapOf returns the typed nested forms of the [KindFormMap] field under key.
// Values projecting a different model type are nil.
func MapOf[C, T any](f *Form[T], key string) map[string]*Form[C] {
	entries := f.Map(key)
	if entries == nil {
		return nil
	}
	out := make(map[string]*Form[C], len(entries))
	for entry, child := range entries {
		out[entry], _ = child.(*Form[C])
	}
	return out
}
