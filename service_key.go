package crate

// ServiceKey provides type-safe access to services registered by name,
// typically through TypeRegistry.ProvideFunc where the name is not derived
// from a Go type.
type ServiceKey[T any] struct {
	name ServiceName
}

// NewServiceKey creates a new typed service key.
//
// Example:
//
//	var ClockKey = crate.NewServiceKey[*Clock]("clock")
func NewServiceKey[T any](name ServiceName) ServiceKey[T] {
	return ServiceKey[T]{name: name}
}

// KeyOf returns the key for the service name derived from T.
func KeyOf[T any]() ServiceKey[T] {
	return ServiceKey[T]{name: NameOf[T]()}
}

// Name returns the service name of the key.
func (k ServiceKey[T]) Name() ServiceName {
	return k.name
}

// ProvideWithKey registers a class under the key's name. The construct
// function receives arguments ordered like params.
func ProvideWithKey[T any](r *TypeRegistry, key ServiceKey[T], params []ServiceName, construct func(args []any) (T, error)) error {
	return r.ProvideFunc(key.name, params, func(args []any) (any, error) {
		return construct(args)
	})
}

// CreateOnceWithKey calls CreateOnce with the key's name.
func CreateOnceWithKey[T any](c *Container, key ServiceKey[T]) (T, error) {
	instance, err := c.CreateOnce(key.name)
	if err != nil {
		var zero T
		return zero, err
	}

	return assertAs[T](key.name, instance)
}

// ResolveWithKey calls Resolve with the key's name.
func ResolveWithKey[T any](c *Container, key ServiceKey[T]) (T, error) {
	instance, err := c.Resolve(key.name)
	if err != nil {
		var zero T
		return zero, err
	}

	return assertAs[T](key.name, instance)
}

// IsCreatedKey reports whether the key's service is cached.
func IsCreatedKey[T any](c *Container, key ServiceKey[T]) bool {
	return c.IsCreated(key.name)
}
