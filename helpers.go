package crate

import "fmt"

// CreateOnceAs calls CreateOnce for the service name of T and asserts the
// result.
func CreateOnceAs[T any](c *Container) (T, error) {
	name := NameOf[T]()

	instance, err := c.CreateOnce(name)
	if err != nil {
		var zero T
		return zero, err
	}

	return assertAs[T](name, instance)
}

// MustCreateOnce is CreateOnceAs that panics on error - use only during startup.
func MustCreateOnce[T any](c *Container) T {
	instance, err := CreateOnceAs[T](c)
	if err != nil {
		panic(fmt.Sprintf("failed to create %s: %v", NameOf[T](), err))
	}

	return instance
}

// ResolveAs calls Resolve for the service name of T and asserts the result.
func ResolveAs[T any](c *Container) (T, error) {
	name := NameOf[T]()

	instance, err := c.Resolve(name)
	if err != nil {
		var zero T
		return zero, err
	}

	return assertAs[T](name, instance)
}

// BindInterfaceTo binds the interface I to the class T.
//
// Example:
//
//	crate.BindInterfaceTo[Mailer, *SMTPMailer](c)
func BindInterfaceTo[I, T any](c *Container) error {
	return c.BindInterface(NameOf[I](), NameOf[T]())
}

// Instance returns the cached instance of T without building anything.
// When T is a bound interface the instance of its implementation is
// returned.
func Instance[T any](c *Container) (T, bool) {
	var zero T

	name := NameOf[T]()

	c.mu.Lock()
	instance, ok := c.instances[name]
	if !ok {
		if impl, bound := c.bindings[name]; bound {
			instance, ok = c.instances[impl]
		}
	}
	c.mu.Unlock()

	if !ok {
		return zero, false
	}

	typed, ok := instance.(T)

	return typed, ok
}

func assertAs[T any](name ServiceName, instance any) (T, error) {
	typed, ok := instance.(T)
	if !ok {
		var zero T
		return zero, ErrTypeMismatch(name, instance)
	}

	return typed, nil
}
