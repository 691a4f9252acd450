package crate

import (
	"reflect"
	"strings"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// NameOf returns the ServiceName the registry derives for the Go type T.
//
// Names are package-path qualified and carry one "*" per pointer level, so
// *app.Mailer and app.Mailer are distinct services:
//
//	crate.NameOf[*app.Mailer]() // "*example.com/app.Mailer"
func NameOf[T any]() ServiceName {
	return typeName(reflect.TypeOf((*T)(nil)).Elem())
}

// typeName returns the service name of t, or "" when t is not a type the
// container can inject.
func typeName(t reflect.Type) ServiceName {
	if t == nil {
		return ""
	}

	var stars strings.Builder
	for t.Kind() == reflect.Ptr {
		stars.WriteByte('*')
		t = t.Elem()
	}

	if !injectable(t) {
		return ""
	}

	return ServiceName(stars.String() + t.PkgPath() + "." + t.Name())
}

// injectable reports whether t (already dereferenced) is a named,
// non-builtin struct or interface. Everything else (scalars, slices, maps,
// funcs, unnamed types, error) counts as an untyped parameter.
func injectable(t reflect.Type) bool {
	if t.Name() == "" || t.PkgPath() == "" {
		return false
	}

	return t.Kind() == reflect.Struct || t.Kind() == reflect.Interface
}

// constructorInfo holds analyzed constructor metadata
type constructorInfo struct {
	fn       reflect.Value
	fnType   reflect.Type
	params   []reflect.Type
	result   reflect.Type
	hasError bool
}

// analyzeConstructor inspects a constructor function: every parameter is a
// dependency, the one non-error result is the class, and an optional
// trailing error reports construction failures.
func analyzeConstructor(constructor any) (*constructorInfo, error) {
	if constructor == nil {
		return nil, ErrInvalidConstructor("constructor cannot be nil")
	}

	fnValue := reflect.ValueOf(constructor)
	fnType := fnValue.Type()

	if fnType.Kind() != reflect.Func {
		return nil, ErrInvalidConstructor("constructor must be a function, got " + fnType.String())
	}

	if fnType.IsVariadic() {
		return nil, ErrInvalidConstructor("variadic constructors are not supported")
	}

	info := &constructorInfo{
		fn:     fnValue,
		fnType: fnType,
	}

	for i := 0; i < fnType.NumIn(); i++ {
		info.params = append(info.params, fnType.In(i))
	}

	switch fnType.NumOut() {
	case 1:
		info.result = fnType.Out(0)
	case 2:
		if fnType.Out(1) != errorType {
			return nil, ErrInvalidConstructor("second return value must be error")
		}
		info.result = fnType.Out(0)
		info.hasError = true
	default:
		return nil, ErrInvalidConstructor("constructor must return the service and an optional error")
	}

	if info.result == errorType {
		return nil, ErrInvalidConstructor("constructor must return at least one non-error value")
	}

	if info.result.Kind() == reflect.Interface {
		return nil, ErrInvalidConstructor("constructor must return a concrete type, got interface " + info.result.String())
	}

	if typeName(info.result) == "" {
		return nil, ErrInvalidConstructor("constructor result " + info.result.String() + " is not a named struct type")
	}

	return info, nil
}

// typeInfo converts the analyzed constructor into a registry entry.
func (c *constructorInfo) typeInfo() TypeInfo {
	params := make([]Param, len(c.params))
	for i, p := range c.params {
		params[i] = Param{Index: i, Type: typeName(p)}
	}

	return TypeInfo{
		Name:      typeName(c.result),
		Kind:      KindClass,
		Params:    params,
		Construct: c.call,
		Type:      c.result,
	}
}

// call invokes the constructor with the resolved arguments.
func (c *constructorInfo) call(args []any) (any, error) {
	if len(args) != len(c.params) {
		return nil, ErrInvalidConstructor("argument count mismatch")
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		want := c.params[i]

		if arg == nil {
			in[i] = reflect.Zero(want)
			continue
		}

		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(want) {
			return nil, ErrTypeMismatch(typeName(want), arg)
		}

		in[i] = v
	}

	out := c.fn.Call(in)

	if c.hasError && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}

	return out[0].Interface(), nil
}

// Provide registers a class through its Go constructor function. The
// constructor runs while the container holds its lock and must not call
// back into the container.
//
// Example:
//
//	func NewUserService(repo UserRepository, log *Logger) *UserService { ... }
//
//	reg.Provide(NewUserService)
func (r *TypeRegistry) Provide(constructor any) error {
	info, err := analyzeConstructor(constructor)
	if err != nil {
		return err
	}

	return r.Register(info.typeInfo())
}

// ProvideType registers T as a class with no declared constructor: it is
// built as its zero value (a freshly allocated struct for pointer types).
func ProvideType[T any](r *TypeRegistry) error {
	t := reflect.TypeOf((*T)(nil)).Elem()

	name := typeName(t)
	if name == "" || t.Kind() == reflect.Interface {
		return ErrInvalidConstructor(t.String() + " is not a named struct type")
	}

	if t.Kind() == reflect.Ptr && t.Elem().Kind() == reflect.Ptr {
		return ErrInvalidConstructor("multi-level pointer " + t.String() + " cannot be allocated")
	}

	return r.Register(TypeInfo{
		Name: name,
		Kind: KindClass,
		Construct: func([]any) (any, error) {
			if t.Kind() == reflect.Ptr {
				return reflect.New(t.Elem()).Interface(), nil
			}

			return reflect.Zero(t).Interface(), nil
		},
		Type: t,
	})
}

// DeclareInterface registers the Go interface I.
func DeclareInterface[I any](r *TypeRegistry) error {
	t := reflect.TypeOf((*I)(nil)).Elem()
	if t.Kind() != reflect.Interface {
		return ErrInvalidConstructor(t.String() + " is not an interface")
	}

	name := typeName(t)
	if name == "" {
		return ErrInvalidConstructor(t.String() + " is not a named interface")
	}

	return r.Register(TypeInfo{Name: name, Kind: KindInterface, Type: t})
}
