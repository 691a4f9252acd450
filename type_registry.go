package crate

import (
	"reflect"
	"sort"
	"sync"
)

// ServiceName identifies a class or an interface known to an Introspector.
type ServiceName string

// Kind tells classes, which can be instantiated, from interfaces, which
// need a binding.
type Kind int

const (
	// KindClass is a concrete, constructible type.
	KindClass Kind = iota + 1
	// KindInterface is an abstract type resolved through a binding.
	KindInterface
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	default:
		return "unknown"
	}
}

// Constructor builds a class instance from arguments ordered like its Params.
type Constructor func(args []any) (any, error)

// Param is one declared constructor parameter. An empty Type means the
// parameter has no resolvable declared type.
type Param struct {
	Index int
	Type  ServiceName
}

// TypeInfo describes a type the container can resolve.
type TypeInfo struct {
	Name      ServiceName
	Kind      Kind
	Params    []Param
	Construct Constructor

	// Type is the Go type behind Name when the registration came from
	// reflection. It is nil for names registered with ProvideFunc or
	// DeclareInterfaceName.
	Type reflect.Type
}

// Dependencies returns the declared parameter type names in order.
func (t TypeInfo) Dependencies() []ServiceName {
	deps := make([]ServiceName, len(t.Params))
	for i, p := range t.Params {
		deps[i] = p.Type
	}

	return deps
}

// Introspector answers the questions the container asks about type names:
// does the name exist, is it a class or an interface, what does its
// constructor take, and how is it built.
type Introspector interface {
	Lookup(name ServiceName) (TypeInfo, bool)
}

// Lister is implemented by introspectors that can enumerate their names.
// Container.Validate and Container.Services need it.
type Lister interface {
	Names() []ServiceName
}

// TypeRegistry is the default Introspector: an explicit table from type
// name to constructor metadata, populated at startup.
type TypeRegistry struct {
	types map[ServiceName]TypeInfo
	order []ServiceName
	mu    sync.RWMutex
}

// NewTypeRegistry creates an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{
		types: make(map[ServiceName]TypeInfo),
	}
}

// Register adds a type. Class entries need a Construct function.
func (r *TypeRegistry) Register(info TypeInfo) error {
	if info.Name == "" {
		return ErrInvalidConstructor("type name cannot be empty")
	}

	switch info.Kind {
	case KindClass:
		if info.Construct == nil {
			return ErrInvalidConstructor("class '" + string(info.Name) + "' has no construct function")
		}
	case KindInterface:
		if len(info.Params) > 0 || info.Construct != nil {
			return ErrInvalidConstructor("interface '" + string(info.Name) + "' cannot be constructed")
		}

		if info.Type != nil && info.Type.Kind() != reflect.Interface {
			return ErrInvalidConstructor("interface '" + string(info.Name) + "' has non-interface type " + info.Type.String())
		}
	default:
		return ErrInvalidConstructor("type '" + string(info.Name) + "' has no kind")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[info.Name]; exists {
		return ErrTypeAlreadyRegistered(info.Name)
	}

	r.types[info.Name] = info
	r.order = append(r.order, info.Name)

	return nil
}

// Lookup implements Introspector.
func (r *TypeRegistry) Lookup(name ServiceName) (TypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.types[name]

	return info, ok
}

// Has reports whether name is registered.
func (r *TypeRegistry) Has(name ServiceName) bool {
	_, ok := r.Lookup(name)

	return ok
}

// Names returns registered names in registration order.
func (r *TypeRegistry) Names() []ServiceName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]ServiceName, len(r.order))
	copy(names, r.order)

	return names
}

// ProvideFunc registers a class by name with explicit parameter type names
// and a construct function. Use an empty name in params to declare an
// untyped parameter.
//
// construct runs while the container holds its lock and must not call back
// into the container.
func (r *TypeRegistry) ProvideFunc(name ServiceName, params []ServiceName, construct Constructor) error {
	ps := make([]Param, len(params))
	for i, p := range params {
		ps[i] = Param{Index: i, Type: p}
	}

	return r.Register(TypeInfo{
		Name:      name,
		Kind:      KindClass,
		Params:    ps,
		Construct: construct,
	})
}

// DeclareInterfaceName registers an interface by name only.
func (r *TypeRegistry) DeclareInterfaceName(name ServiceName) error {
	return r.Register(TypeInfo{Name: name, Kind: KindInterface})
}

// Classes returns the registered class names, sorted.
func (r *TypeRegistry) Classes() []ServiceName {
	return r.namesOfKind(KindClass)
}

// Interfaces returns the registered interface names, sorted.
func (r *TypeRegistry) Interfaces() []ServiceName {
	return r.namesOfKind(KindInterface)
}

func (r *TypeRegistry) namesOfKind(kind Kind) []ServiceName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []ServiceName
	for name, info := range r.types {
		if info.Kind == kind {
			names = append(names, name)
		}
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}
