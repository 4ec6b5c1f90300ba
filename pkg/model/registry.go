package model

import (
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/nieomylnieja/govyform/internal/fields"
	"github.com/nieomylnieja/govyform/internal/typeinfo"
)

var defaultRegistry = NewRegistry()

// Default returns the process wide [Registry] used when no other registry is configured.
func Default() *Registry {
	return defaultRegistry
}

// Registry maps model types to their declared associations and constructs
// typed model graphs from loosely typed data.
type Registry struct {
	mu           sync.RWMutex
	associations map[reflect.Type][]Association
	logger       *slog.Logger
}

// registryOptions contains options for configuring a [Registry].
type registryOptions struct {
	logger *slog.Logger
}

type RegistryOption func(options registryOptions) registryOptions

// WithLogger sets the logger used to report configuration defects.
// Defaults to [slog.Default].
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(options registryOptions) registryOptions {
		options.logger = logger
		return options
	}
}

// NewRegistry creates an empty [Registry].
func NewRegistry(opts ...RegistryOption) *Registry {
	options := registryOptions{}
	for _, opt := range opts {
		options = opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}
	return &Registry{
		associations: make(map[reflect.Type][]Association),
		logger:       options.logger,
	}
}

// ConfigError lists the association declarations rejected by [Registry.Register].
type ConfigError struct {
	Type    typeinfo.TypeInfo
	Defects []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid associations declared for %s: %s", e.Type, strings.Join(e.Defects, "; "))
}

// Register declares associations of the model type T on r.
func Register[T any](r *Registry, assocs ...Association) error {
	return r.Register(reflect.TypeFor[T](), assocs...)
}

// Register declares associations of the model type typ.
// Subsequent calls for the same type append to the already declared list.
//
// Invalid declarations are logged and skipped, the rest are registered.
// A non-nil error is always a [*ConfigError].
func (r *Registry) Register(typ reflect.Type, assocs ...Association) error {
	typ = structType(typ)
	if typ == nil || typ.Kind() != reflect.Struct {
		err := &ConfigError{
			Type:    typeinfo.Get(typ),
			Defects: []string{"model type must be a struct"},
		}
		r.logger.Error("invalid model registration", slog.Any("error", err))
		return err
	}
	info := typeinfo.Get(typ)
	var defects []string
	valid := make([]Association, 0, len(assocs))
	for _, a := range assocs {
		if err := checkAssociation(typ, a); err != nil {
			r.logger.Error("invalid model association",
				slog.String("type", info.String()),
				slog.String("key", a.Key),
				slog.String("kind", a.Kind.String()),
				slog.String("error", err.Error()))
			defects = append(defects, err.Error())
			continue
		}
		valid = append(valid, a)
	}

	r.mu.Lock()
	r.associations[typ] = append(r.associations[typ], valid...)
	r.mu.Unlock()

	if len(defects) > 0 {
		return &ConfigError{Type: info, Defects: defects}
	}
	return nil
}

// Associations returns the associations declared for typ in declaration order.
func (r *Registry) Associations(typ reflect.Type) []Association {
	r.mu.RLock()
	defer r.mu.RUnlock()
	declared := r.associations[structType(typ)]
	out := make([]Association, len(declared))
	copy(out, declared)
	return out
}

func checkAssociation(typ reflect.Type, a Association) error {
	field, found := fields.Lookup(typ, a.Key)
	if !found {
		return errors.Errorf("field %q not found", a.Key)
	}
	if a.Kind == AssociationCustom {
		if a.Factory == nil {
			return errors.Errorf("custom association %q has no factory", a.Key)
		}
		return nil
	}
	if a.Type == nil {
		return errors.Errorf("passed in type for %q is undefined, is it declared before %s?", a.Key, typ.Name())
	}
	if a.Type.Kind() != reflect.Struct {
		return errors.Errorf("association %q must point to a struct type, got %s", a.Key, a.Type)
	}
	ft := field.Type
	switch a.Kind {
	case AssociationOne:
		if fields.Base(ft) != a.Type || ft.Kind() == reflect.Pointer && ft.Elem().Kind() == reflect.Pointer {
			return errors.Errorf("field %q of type %s cannot hold %s", a.Key, ft, a.Type)
		}
	case AssociationMany:
		if ft.Kind() != reflect.Slice || !isElemOf(ft.Elem(), a.Type) {
			return errors.Errorf("field %q of type %s is not a slice of %s", a.Key, ft, a.Type)
		}
	case AssociationKeyed:
		if ft.Kind() != reflect.Map || ft.Key().Kind() != reflect.String || !isElemOf(ft.Elem(), a.Type) {
			return errors.Errorf("field %q of type %s is not a string keyed map of %s", a.Key, ft, a.Type)
		}
	default:
		return errors.Errorf("unknown association kind %d for %q", a.Kind, a.Key)
	}
	return nil
}

func isElemOf(elem, typ reflect.Type) bool {
	return elem == typ || elem.Kind() == reflect.Pointer && elem.Elem() == typ
}
