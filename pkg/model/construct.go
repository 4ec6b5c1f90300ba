package model

import (
	"encoding/json"
	"reflect"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nieomylnieja/govyform/internal/fields"
	"github.com/nieomylnieja/govyform/internal/typeinfo"
)

// Instantiate builds a new instance of the model type typ from data and returns it as a pointer (*T).
//
// Every top-level key of data is shallow-copied onto the matching field, the same way
// Object.assign would: values directly assignable to the field are shared with data,
// others are converted through JSON. Keys which do not match any field are ignored.
// Then each declared association is rebuilt recursively, with the new instance passed
// down as the parent:
//   - [AssociationOne] assigns nil through when the source is absent,
//   - [AssociationMany] and [AssociationKeyed] start empty and instantiate each
//     element, preserving order and keys,
//   - [AssociationCustom] hands the source over to its [Factory].
//
// If data is nil, slices and maps are initialized empty and all other fields keep their zero value.
// Data may be nil, a map[string]any, [json.RawMessage] or anything which encodes to a JSON object.
func (r *Registry) Instantiate(typ reflect.Type, data, parent any) (any, error) {
	typ = structType(typ)
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, errors.Errorf("cannot instantiate %v, model type must be a struct", typ)
	}
	info := typeinfo.Get(typ)
	object, err := asObject(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid data for %s", info)
	}

	instance := reflect.New(typ)
	assocs := r.Associations(typ)
	associated := make(map[string]struct{}, len(assocs))
	for _, a := range assocs {
		associated[a.Key] = struct{}{}
	}
	for _, f := range fields.All(typ) {
		if _, ok := associated[f.Key]; ok {
			continue
		}
		value, ok := object[f.Key]
		if !ok {
			continue
		}
		if err = fields.Assign(fields.Settable(instance.Elem(), f.Index), value); err != nil {
			return nil, errors.Wrapf(err, "failed to set %s.%s", info.Name, f.Key)
		}
	}

	for _, a := range assocs {
		f, _ := fields.Lookup(typ, a.Key)
		dst := fields.Settable(instance.Elem(), f.Index)
		if object == nil {
			initEmpty(dst, a.Kind)
			continue
		}
		if err = r.associate(dst, a, object[a.Key], instance.Interface()); err != nil {
			return nil, errors.Wrapf(err, "failed to build %s.%s", info.Name, a.Key)
		}
	}
	return instance.Interface(), nil
}

func initEmpty(dst reflect.Value, kind AssociationKind) {
	switch kind {
	case AssociationMany:
		dst.Set(reflect.MakeSlice(dst.Type(), 0, 0))
	case AssociationKeyed:
		dst.Set(reflect.MakeMap(dst.Type()))
	default:
	}
}

func (r *Registry) associate(dst reflect.Value, a Association, source, parent any) error {
	switch a.Kind {
	case AssociationCustom:
		value, err := a.Factory(source, parent)
		if err != nil {
			return err
		}
		return fields.Assign(dst, value)
	case AssociationOne:
		if source == nil {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		child, err := r.Instantiate(a.Type, source, parent)
		if err != nil {
			return err
		}
		return fields.Assign(dst, child)
	case AssociationMany:
		items, err := asSlice(source)
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(dst.Type(), 0, len(items))
		for i, item := range items {
			elem, err := r.element(dst.Type().Elem(), a.Type, item, parent)
			if err != nil {
				return errors.Wrapf(err, "element %d", i)
			}
			out = reflect.Append(out, elem)
		}
		dst.Set(out)
	case AssociationKeyed:
		values, err := asObject(source)
		if err != nil {
			return err
		}
		out := reflect.MakeMapWithSize(dst.Type(), len(values))
		for key, value := range values {
			elem, err := r.element(dst.Type().Elem(), a.Type, value, parent)
			if err != nil {
				return errors.Wrapf(err, "key %q", key)
			}
			out.SetMapIndex(reflect.ValueOf(key).Convert(dst.Type().Key()), elem)
		}
		dst.Set(out)
	default:
		return errors.Errorf("unknown association kind %d", a.Kind)
	}
	return nil
}

// element builds a single collection element, keeping nil entries nil.
func (r *Registry) element(elemType, modelType reflect.Type, data, parent any) (reflect.Value, error) {
	if data == nil {
		return reflect.Zero(elemType), nil
	}
	child, err := r.Instantiate(modelType, data, parent)
	if err != nil {
		return reflect.Value{}, err
	}
	return fields.Elem(elemType, child)
}

// asObject normalizes data into a JSON object representation.
func asObject(data any) (map[string]any, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	case json.RawMessage:
		return decodeObject(v)
	}
	rv := reflect.ValueOf(data)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		if rv.IsNil() {
			return nil, nil
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = fields.Interface(iter.Value())
		}
		return out, nil
	default:
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %T", data)
	}
	return decodeObject(raw)
}

func decodeObject(raw []byte) (map[string]any, error) {
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, errors.Wrap(err, "failed to decode data")
	}
	switch v := decoded.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	default:
		return nil, errors.Errorf("data must be an object, got %T", decoded)
	}
}

// asSlice normalizes data into a JSON array representation.
// Nil data yields an empty slice.
func asSlice(data any) ([]any, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	}
	rv := reflect.ValueOf(data)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, errors.Errorf("expected an array, got %T", data)
	}
	out := make([]any, rv.Len())
	for i := range rv.Len() {
		out[i] = fields.Interface(rv.Index(i))
	}
	return out, nil
}

// CreateFrom builds a T model from data, see [Registry.Instantiate].
func CreateFrom[T any](r *Registry, data any) (*T, error) {
	instance, err := r.Instantiate(reflect.TypeFor[T](), data, nil)
	if err != nil {
		return nil, err
	}
	return instance.(*T), nil
}

// CreateFromArray builds a T model from each element of data, preserving order.
func CreateFromArray[T any](r *Registry, data []any) ([]*T, error) {
	out := make([]*T, 0, len(data))
	for i, d := range data {
		m, err := CreateFrom[T](r, d)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		out = append(out, m)
	}
	return out, nil
}

// CreateFromJSON decodes raw JSON object and builds a T model from it.
func CreateFromJSON[T any](r *Registry, raw []byte) (*T, error) {
	data, err := decodeObject(raw)
	if err != nil {
		return nil, err
	}
	return CreateFrom[T](r, data)
}

// CreateFromYAML decodes raw YAML mapping and builds a T model from it.
func CreateFromYAML[T any](r *Registry, raw []byte) (*T, error) {
	var data map[string]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "failed to decode YAML data")
	}
	return CreateFrom[T](r, data)
}

// Clone returns a deep copy of m built through a JSON round trip and [Registry.Instantiate].
// Models must therefore be JSON serializable: no cycles, no channels or functions.
// A nil m yields a model instantiated from no data.
func Clone[T any](r *Registry, m *T) (*T, error) {
	if m == nil {
		return CreateFrom[T](r, nil)
	}
	raw, err := json.Marshal(m)
	if err != nil {
		var t T
		return nil, errors.Wrapf(err, "failed to clone %T", t)
	}
	return CreateFromJSON[T](r, raw)
}
