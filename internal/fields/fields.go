// Package fields resolves model struct fields by their data keys and assigns
// values to them with the pointer/value leniency shared by the model registry
// and the form engine.
package fields

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// Field is an exported struct field addressed by its data key.
type Field struct {
	Key   string
	Name  string
	Index []int
	Type  reflect.Type
}

// Key returns the data key of the struct field, which is the name declared in
// its json tag or the Go field name when the tag is absent.
// Unexported fields and fields tagged with "-" have no key.
func Key(field reflect.StructField) string {
	if !field.IsExported() {
		return ""
	}
	tagValues := strings.Split(field.Tag.Get("json"), ",")
	tagName := tagValues[0]
	if tagName == "" {
		return field.Name
	}
	if tagName == "-" {
		return ""
	}
	return tagName
}

// All lists the keyed fields of a struct type in declaration order.
func All(typ reflect.Type) []Field {
	typ = Base(typ)
	if typ.Kind() != reflect.Struct {
		return nil
	}
	out := make([]Field, 0, typ.NumField())
	for _, f := range reflect.VisibleFields(typ) {
		if f.Anonymous {
			continue
		}
		key := Key(f)
		if key == "" || !allocatable(typ, f.Index) {
			continue
		}
		out = append(out, Field{Key: key, Name: f.Name, Index: f.Index, Type: f.Type})
	}
	return out
}

// allocatable reports whether every embedded pointer leading to the field at
// index can be allocated, unexported embedded pointers cannot.
func allocatable(typ reflect.Type, index []int) bool {
	for _, x := range index[:len(index)-1] {
		f := typ.Field(x)
		typ = f.Type
		if typ.Kind() == reflect.Pointer {
			if !f.IsExported() {
				return false
			}
			typ = typ.Elem()
		}
	}
	return true
}

// Lookup finds the field addressed by key.
func Lookup(typ reflect.Type, key string) (Field, bool) {
	for _, f := range All(typ) {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Value returns the field of the struct value v at index.
// Fields promoted through a nil embedded pointer are not reachable.
func Value(v reflect.Value, index []int) (reflect.Value, bool) {
	field, err := v.FieldByIndexErr(index)
	if err != nil {
		return reflect.Value{}, false
	}
	return field, true
}

// Settable returns the field of the addressable struct value v at index,
// allocating nil embedded pointers on the way.
func Settable(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// Base strips pointer indirections from the type.
func Base(typ reflect.Type) reflect.Type {
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}

// Assign sets dst to value.
// Values assignable to the destination are stored as is, so reference types
// end up shared with the source. Pointers and values of the destination's base
// type are adapted in both directions, anything else is converted via JSON.
// A nil value resets dst to its zero value.
func Assign(dst reflect.Value, value any) error {
	if value == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	src := reflect.ValueOf(value)
	switch {
	case src.Type().AssignableTo(dst.Type()):
		dst.Set(src)
		return nil
	case src.Kind() == reflect.Pointer && src.Type().Elem().AssignableTo(dst.Type()):
		if src.IsNil() {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		dst.Set(src.Elem())
		return nil
	case dst.Kind() == reflect.Pointer && src.Type().AssignableTo(dst.Type().Elem()):
		ptr := reflect.New(dst.Type().Elem())
		ptr.Elem().Set(src)
		dst.Set(ptr)
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %T value", value)
	}
	target := reflect.New(dst.Type())
	if err = json.Unmarshal(raw, target.Interface()); err != nil {
		return errors.Wrapf(err, "failed to convert %T value to %s", value, dst.Type())
	}
	dst.Set(target.Elem())
	return nil
}

// Elem converts a collection element or single association value into the
// given element type, which is either the model struct type or a pointer to it.
// A nil input yields the zero value of elemType.
func Elem(elemType reflect.Type, value any) (reflect.Value, error) {
	out := reflect.New(elemType).Elem()
	if err := Assign(out, value); err != nil {
		return reflect.Value{}, err
	}
	return out, nil
}

// Interface returns v as an interface value, mapping nil pointers to an
// untyped nil so that callers can compare against nil safely.
func Interface(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		if v.IsNil() {
			return nil
		}
	}
	return v.Interface()
}
