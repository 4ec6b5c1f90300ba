package typeinfo

import (
	"fmt"
	"reflect"
)

// TypeInfo stores the Go type information of a model or one of its fields.
type TypeInfo struct {
	Name    string
	Kind    string
	Package string
}

// Of returns the [TypeInfo] of T.
func Of[T any]() TypeInfo {
	return Get(reflect.TypeFor[T]())
}

// Get returns the information for the [reflect.Type].
// Pointer indicators are stripped and the package path is kept apart from the name;
// it stays empty for built-in types.
//
// Collections of model types keep their collection notation next to the element package.
// Instead of having:
//
//	TypeInfo{Name: "[]*mypkg.Item"}
//
// It will produce:
//
//	TypeInfo{Name: "[]Item", Package: ".../mypkg"}.
//
// Maps are handled the same way, producing e.g. "map[string]Item".
func Get(typ reflect.Type) TypeInfo {
	if typ == nil {
		return TypeInfo{}
	}
	typ = deref(typ)
	result := TypeInfo{
		Kind: getKindString(typ),
	}

	if typ.PkgPath() == "" {
		switch typ.Kind() {
		case reflect.Slice:
			result.Name = "[]"
			typ = deref(typ.Elem())
		case reflect.Map:
			result.Name = "map[" + typ.Key().String() + "]"
			typ = deref(typ.Elem())
		default:
		}
	}
	switch {
	case typ.PkgPath() == "":
		result.Name += typ.String()
	default:
		result.Name += typ.Name()
		result.Package = typ.PkgPath()
	}
	return result
}

// String returns the package qualified type name.
func (t TypeInfo) String() string {
	if t.Package == "" {
		return t.Name
	}
	return t.Package + "." + t.Name
}

func deref(typ reflect.Type) reflect.Type {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}

func getKindString(typ reflect.Type) string {
	typ = deref(typ)
	switch typ.Kind() {
	case reflect.Map:
		return fmt.Sprintf("map[%s]%s", getKindString(typ.Key()), getKindString(typ.Elem()))
	case reflect.Slice:
		return fmt.Sprintf("[]%s", getKindString(typ.Elem()))
	default:
		return typ.Kind().String()
	}
}
