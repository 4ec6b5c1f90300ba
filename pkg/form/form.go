package form

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
	"github.com/pkg/errors"

	"github.com/nieomylnieja/govyform/internal/fields"
	"github.com/nieomylnieja/govyform/pkg/model"
)

// State is the validation state carried by every form.
type State struct {
	// ValidationMessages are free-floating messages not tied to any field.
	ValidationMessages []string
	// Validation maps every declared field key to its current error message,
	// an empty string means the field is valid.
	Validation map[string]string
	IsInvalid  bool
}

// ClearValidation resets the state to valid.
// Nested forms are not cleared.
func (s *State) ClearValidation() {
	s.IsInvalid = false
	s.ValidationMessages = nil
	for key := range s.Validation {
		s.Validation[key] = ""
	}
}

// Editable is implemented by every [Form] regardless of its model type.
type Editable interface {
	ID() uuid.UUID
	ModelType() reflect.Type
	ValidationState() *State
	ClearValidation()
	Validate(settings any) error

	updatedModel() (any, error)
	copyValidation(prev Editable)
	collect(path string, err *ValidationError)
}

// Form is an editable projection of a T model.
//
// Scalar fields are edited directly on Model.
// Association fields of Model are always zero, their values live in nested
// forms accessed with [Form.Nested], [Form.List] and [Form.Map].
type Form[T any] struct {
	State
	Model *T

	id         uuid.UUID
	projection *Projection[T]
	source     *T
	nested     map[string]Editable
	lists      map[string][]Editable
	maps       map[string]map[string]Editable
}

// ID identifies the form, it is kept by [Form.ApplyModel].
func (f *Form[T]) ID() uuid.UUID { return f.id }

func (f *Form[T]) ModelType() reflect.Type { return reflect.TypeFor[T]() }

func (f *Form[T]) ValidationState() *State { return &f.State }

// Projection returns the projection which created the form.
func (f *Form[T]) Projection() *Projection[T] { return f.projection }

// Label returns the label of the field under key.
func (f *Form[T]) Label(key string) string { return f.projection.Label(key) }

// ApplyModel rebases the form onto m in place.
// Validation is cleared and nested forms are projected anew, [Form.ID] stays the same.
func (f *Form[T]) ApplyModel(m *T) error {
	f.ClearValidation()
	return f.project(m)
}

func (f *Form[T]) project(m *T) error {
	p := f.projection
	source, err := model.Clone(p.registry, m)
	if err != nil {
		return err
	}
	working, err := model.Clone(p.registry, source)
	if err != nil {
		return err
	}
	nested := make(map[string]Editable)
	lists := make(map[string][]Editable)
	maps := make(map[string]map[string]Editable)
	value := reflect.ValueOf(working).Elem()

	for _, fd := range p.fieldsOf(KindForm) {
		dst := fields.Settable(value, fd.index)
		child, err := fd.Child.project(fields.Interface(dst))
		if err != nil {
			return errors.Wrapf(err, "failed to project %s", fd.Key)
		}
		nested[fd.Key] = child
		dst.Set(reflect.Zero(dst.Type()))
	}
	for _, fd := range p.fieldsOf(KindFormArray) {
		dst := fields.Settable(value, fd.index)
		list := make([]Editable, 0, dst.Len())
		for i := range dst.Len() {
			child, err := fd.Child.project(fields.Interface(dst.Index(i)))
			if err != nil {
				return errors.Wrapf(err, "failed to project %s[%d]", fd.Key, i)
			}
			list = append(list, child)
		}
		lists[fd.Key] = list
		dst.Set(reflect.Zero(dst.Type()))
	}
	for _, fd := range p.fieldsOf(KindFormMap) {
		dst := fields.Settable(value, fd.index)
		entries := make(map[string]Editable, dst.Len())
		iter := dst.MapRange()
		for iter.Next() {
			key := iter.Key().String()
			child, err := fd.Child.project(fields.Interface(iter.Value()))
			if err != nil {
				return errors.Wrapf(err, "failed to project %s.%s", fd.Key, key)
			}
			entries[key] = child
		}
		maps[fd.Key] = entries
		dst.Set(reflect.Zero(dst.Type()))
	}

	f.Model = working
	f.source = source
	f.nested = nested
	f.lists = lists
	f.maps = maps
	return nil
}

// UpdatedModel returns a new model with the current edits of the form and
// all of its nested forms applied to the model the form was projected from.
// Nil nested forms are left out of lists and maps.
func (f *Form[T]) UpdatedModel() (*T, error) {
	p := f.projection
	out, err := model.Clone(p.registry, f.source)
	if err != nil {
		return nil, err
	}
	dst := reflect.ValueOf(out).Elem()

	associated := make(map[string]struct{})
	for _, fd := range p.fields {
		if fd.Kind != KindScalar {
			associated[fd.Key] = struct{}{}
		}
	}
	if f.Model != nil {
		src := reflect.ValueOf(f.Model).Elem()
		for _, sf := range fields.All(dst.Type()) {
			if _, ok := associated[sf.Key]; ok {
				continue
			}
			field, ok := fields.Value(src, sf.Index)
			if !ok {
				continue
			}
			value := deepcopy.Copy(field.Interface())
			if err = fields.Assign(fields.Settable(dst, sf.Index), value); err != nil {
				return nil, errors.Wrapf(err, "failed to update %s", sf.Key)
			}
		}
	}

	for _, fd := range p.fieldsOf(KindForm) {
		target := fields.Settable(dst, fd.index)
		child := f.nested[fd.Key]
		if isNil(child) {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		m, err := child.updatedModel()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to update %s", fd.Key)
		}
		if err = fields.Assign(target, m); err != nil {
			return nil, errors.Wrapf(err, "failed to update %s", fd.Key)
		}
	}
	for _, fd := range p.fieldsOf(KindFormArray) {
		target := fields.Settable(dst, fd.index)
		list := reflect.MakeSlice(target.Type(), 0, len(f.lists[fd.Key]))
		for i, child := range f.lists[fd.Key] {
			if isNil(child) {
				continue
			}
			elem, err := updatedElem(target.Type().Elem(), child)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to update %s[%d]", fd.Key, i)
			}
			list = reflect.Append(list, elem)
		}
		target.Set(list)
	}
	for _, fd := range p.fieldsOf(KindFormMap) {
		target := fields.Settable(dst, fd.index)
		entries := reflect.MakeMapWithSize(target.Type(), len(f.maps[fd.Key]))
		for key, child := range f.maps[fd.Key] {
			if isNil(child) {
				continue
			}
			elem, err := updatedElem(target.Type().Elem(), child)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to update %s.%s", fd.Key, key)
			}
			entries.SetMapIndex(reflect.ValueOf(key).Convert(target.Type().Key()), elem)
		}
		target.Set(entries)
	}
	return out, nil
}

func (f *Form[T]) updatedModel() (any, error) {
	return f.UpdatedModel()
}

func updatedElem(elemType reflect.Type, child Editable) (reflect.Value, error) {
	m, err := child.updatedModel()
	if err != nil {
		return reflect.Value{}, err
	}
	return fields.Elem(elemType, m)
}

// copyValidation carries the validation state of prev over to f and its nested forms.
func (f *Form[T]) copyValidation(prev Editable) {
	if isNil(prev) {
		return
	}
	state := prev.ValidationState()
	f.IsInvalid = state.IsInvalid
	f.ValidationMessages = append([]string(nil), state.ValidationMessages...)
	for key, msg := range state.Validation {
		f.Validation[key] = msg
	}
	old, ok := prev.(*Form[T])
	if !ok {
		return
	}
	for key, child := range f.nested {
		if !isNil(child) && !isNil(old.nested[key]) {
			child.copyValidation(old.nested[key])
		}
	}
	for key, list := range f.lists {
		oldList := old.lists[key]
		for i := 0; i < len(list) && i < len(oldList); i++ {
			if !isNil(list[i]) && !isNil(oldList[i]) {
				list[i].copyValidation(oldList[i])
			}
		}
	}
	for key, entries := range f.maps {
		oldEntries := old.maps[key]
		for entryKey, child := range entries {
			if !isNil(child) && !isNil(oldEntries[entryKey]) {
				child.copyValidation(oldEntries[entryKey])
			}
		}
	}
}
