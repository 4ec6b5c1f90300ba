package model

import (
	"reflect"
)

// AssociationKind describes how a model field relates to its child model type.
type AssociationKind int

const (
	// AssociationOne is a single nested model (*C or C).
	AssociationOne AssociationKind = iota
	// AssociationMany is a slice of nested models ([]*C or []C).
	AssociationMany
	// AssociationKeyed is a string keyed map of nested models (map[string]*C or map[string]C).
	AssociationKeyed
	// AssociationCustom delegates construction of the field to a [Factory].
	AssociationCustom
)

func (k AssociationKind) String() string {
	switch k {
	case AssociationOne:
		return "one"
	case AssociationMany:
		return "many"
	case AssociationKeyed:
		return "keyed"
	case AssociationCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Factory builds the value of a custom association from the raw data found
// under the association's key and the model instance being constructed.
// It is used for polymorphic or externally computed fields.
type Factory func(data, parent any) (any, error)

// Association declares the child type of a single model field.
// Use [One], [Many], [Keyed], [Custom] or their explicit-type variants to create it.
type Association struct {
	Key     string
	Kind    AssociationKind
	Type    reflect.Type
	Factory Factory
}

// One declares key as a single nested C model.
func One[C any](key string) Association {
	return OneOf(key, reflect.TypeFor[C]())
}

// Many declares key as a slice of C models.
func Many[C any](key string) Association {
	return ManyOf(key, reflect.TypeFor[C]())
}

// Keyed declares key as a string keyed map of C models.
func Keyed[C any](key string) Association {
	return KeyedOf(key, reflect.TypeFor[C]())
}

// OneOf is the explicit type token variant of [One].
// A nil typ is a configuration defect reported by [Registry.Register].
func OneOf(key string, typ reflect.Type) Association {
	return Association{Key: key, Kind: AssociationOne, Type: structType(typ)}
}

// ManyOf is the explicit type token variant of [Many].
func ManyOf(key string, typ reflect.Type) Association {
	return Association{Key: key, Kind: AssociationMany, Type: structType(typ)}
}

// KeyedOf is the explicit type token variant of [Keyed].
func KeyedOf(key string, typ reflect.Type) Association {
	return Association{Key: key, Kind: AssociationKeyed, Type: structType(typ)}
}

// Custom declares key as a field built by factory, bypassing default instantiation.
func Custom(key string, factory Factory) Association {
	return Association{Key: key, Kind: AssociationCustom, Factory: factory}
}

func structType(typ reflect.Type) reflect.Type {
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	return typ
}
