package form

import (
	"log/slog"
	"reflect"

	"github.com/google/uuid"
	"github.com/nobl9/govy/pkg/govy"
	"github.com/pkg/errors"

	"github.com/nieomylnieja/govyform/internal/fields"
	"github.com/nieomylnieja/govyform/internal/typeinfo"
	"github.com/nieomylnieja/govyform/pkg/model"
)

// Projector is implemented by every [Projection] regardless of its model type.
// It is what nested form fields are declared with.
type Projector interface {
	// ModelType returns the projected struct type.
	ModelType() reflect.Type
	// Name returns the projection name used in validation plans.
	Name() string
	// Fields returns the declared field descriptors in declaration order.
	Fields() []Descriptor
	// Plan returns the validation plan of the projection's scalar fields.
	Plan(opts ...govy.PlanOption) (*govy.ValidatorPlan, error)

	project(data any) (Editable, error)
}

// Hook is run by [Form.Validate] after the scalar fields were checked.
// Everything reported through the [Reporter] marks the form invalid.
type Hook[T any] func(f *Form[T], report Reporter)

// Reporter adds validation errors from a [Hook].
type Reporter interface {
	// Message adds a free-floating message to [State.ValidationMessages].
	Message(msg string)
	// Field sets the message of the field under key.
	Field(key, msg string)
}

// options contains options for configuring a [Projection].
type options struct {
	registry *model.Registry
	logger   *slog.Logger
	name     string
	hook     any
}

type Option func(options options) options

// WithRegistry sets the registry used to clone models.
// Defaults to [model.Default].
func WithRegistry(registry *model.Registry) Option {
	return func(options options) options {
		options.registry = registry
		return options
	}
}

// WithLogger sets the logger used to report setup defects.
// Defaults to [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(options options) options {
		options.logger = logger
		return options
	}
}

// WithName sets the projection name, defaults to the model type name.
func WithName(name string) Option {
	return func(options options) options {
		options.name = name
		return options
	}
}

// WithHook sets the custom validation hook of the projection.
// The hook's model type must match the projection's.
func WithHook[T any](hook Hook[T]) Option {
	return func(options options) options {
		options.hook = hook
		return options
	}
}

// Projection creates editable [Form] instances of the model type T.
// Its field list is built once by the setup function passed to [New].
type Projection[T any] struct {
	name     string
	fields   []field[T]
	registry *model.Registry
	logger   *slog.Logger
	hook     Hook[T]
}

// New declares a projection of T with the fields declared by setup.
// All setup defects are logged and returned together as a [*SetupError].
func New[T any](setup func(s *Setup[T]), opts ...Option) (*Projection[T], error) {
	options := options{}
	for _, opt := range opts {
		options = opt(options)
	}
	if options.registry == nil {
		options.registry = model.Default()
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	typ := reflect.TypeFor[T]()
	info := typeinfo.Of[T]()
	if options.name == "" {
		options.name = info.Name
	}

	s := &Setup[T]{typ: typ}
	if typ.Kind() != reflect.Struct {
		s.defect("model type must be a struct")
	} else if setup != nil {
		setup(s)
	}
	var hook Hook[T]
	if options.hook != nil {
		var ok bool
		if hook, ok = options.hook.(Hook[T]); !ok {
			s.defect("hook %T does not accept %s forms", options.hook, info)
		}
	}
	if len(s.defects) > 0 {
		for _, defect := range s.defects {
			options.logger.Error("invalid form field", slog.String("type", info.String()), slog.String("defect", defect))
		}
		return nil, &SetupError{Type: info, Defects: s.defects}
	}
	return &Projection[T]{
		name:     options.name,
		fields:   s.fields,
		registry: options.registry,
		logger:   options.logger,
		hook:     hook,
	}, nil
}

// MustNew is like [New] but panics on setup defects.
func MustNew[T any](setup func(s *Setup[T]), opts ...Option) *Projection[T] {
	p, err := New(setup, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Projection[T]) ModelType() reflect.Type { return reflect.TypeFor[T]() }

func (p *Projection[T]) Name() string { return p.name }

func (p *Projection[T]) Fields() []Descriptor {
	out := make([]Descriptor, 0, len(p.fields))
	for _, f := range p.fields {
		out = append(out, f.Descriptor)
	}
	return out
}

// Label returns the label of the field under key, or the key itself if the
// field has no label or was not declared.
func (p *Projection[T]) Label(key string) string {
	if f, ok := p.field(key); ok && f.Label != "" {
		return f.Label
	}
	return key
}

func (p *Projection[T]) field(key string) (field[T], bool) {
	for _, f := range p.fields {
		if f.Key == key {
			return f, true
		}
	}
	return field[T]{}, false
}

// fieldsOf returns the fields of the given kind in declaration order.
func (p *Projection[T]) fieldsOf(kind Kind) []field[T] {
	var out []field[T]
	for _, f := range p.fields {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// FromModel projects m into a new form.
// The model is cloned first, so editing the form never changes m.
// A nil m is treated as a model built from no data.
func (p *Projection[T]) FromModel(m *T) (*Form[T], error) {
	f := &Form[T]{
		State: State{
			Validation: make(map[string]string, len(p.fields)),
		},
		id:         uuid.New(),
		projection: p,
	}
	for _, fd := range p.fields {
		f.Validation[fd.Key] = ""
	}
	if err := f.project(m); err != nil {
		return nil, err
	}
	return f, nil
}

// FromForm projects the current edits of prev into a new form and carries
// the validation state of prev over to it.
// List items are matched by index, so the carried state is only accurate
// when the lists were not reordered in between.
func (p *Projection[T]) FromForm(prev *Form[T]) (*Form[T], error) {
	if prev == nil {
		return p.FromModel(nil)
	}
	snapshot, err := prev.UpdatedModel()
	if err != nil {
		return nil, err
	}
	next, err := p.FromModel(snapshot)
	if err != nil {
		return nil, err
	}
	next.copyValidation(prev)
	return next, nil
}

func (p *Projection[T]) project(data any) (Editable, error) {
	var m *T
	switch v := data.(type) {
	case nil:
	case *T:
		m = v
	case T:
		m = &v
	default:
		return nil, errors.Errorf("cannot project %T with %s projection", data, p.name)
	}
	return p.FromModel(m)
}

// Plan returns the validation plan of the projection's scalar fields.
func (p *Projection[T]) Plan(opts ...govy.PlanOption) (*govy.ValidatorPlan, error) {
	plan := &govy.ValidatorPlan{Name: p.name}
	for _, v := range p.validators(nil, nil) {
		fieldPlan, err := govy.Plan(v, opts...)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to plan %s validation", p.name)
		}
		plan.Properties = append(plan.Properties, fieldPlan.Properties...)
	}
	return plan, nil
}

// Result is a single failed field reported by [Projection.Check].
type Result struct {
	Key     string
	Label   string
	Message string
}

// Check validates the scalar fields of m without projecting it into a form.
// Nested models and hooks are not checked.
func (p *Projection[T]) Check(m *T, settings any) []Result {
	if m == nil {
		m = new(T)
	}
	value := reflect.ValueOf(m).Elem()
	var results []Result
	for _, f := range p.fieldsOf(KindScalar) {
		if !f.hasValidators() {
			continue
		}
		var fieldValue any
		if v, ok := fields.Value(value, f.index); ok {
			fieldValue = v.Interface()
		}
		msg := f.chain(p, fieldValue, m, settings)
		if msg != "" {
			results = append(results, Result{Key: f.Key, Label: p.Label(f.Key), Message: msg})
		}
	}
	return results
}

// validators returns one govy validator per validated scalar field.
func (p *Projection[T]) validators(m *T, settings any) []govy.Validator[T] {
	var out []govy.Validator[T]
	for _, f := range p.fieldsOf(KindScalar) {
		if !f.hasValidators() {
			continue
		}
		index := f.index
		getter := func(s T) any {
			v, ok := fields.Value(reflect.ValueOf(s), index)
			if !ok {
				return nil
			}
			return v.Interface()
		}
		out = append(out, govy.New(
			govy.For(getter).
				WithName(f.Key).
				Rules(f.rule(p, m, settings)),
		).WithName(p.name))
	}
	return out
}
