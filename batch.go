package crate

// Binding pairs an interface with the class it resolves to.
type Binding struct {
	Interface      ServiceName
	Implementation ServiceName
}

// Bind creates a Binding for batch registration.
func Bind(iface, impl ServiceName) Binding {
	return Binding{Interface: iface, Implementation: impl}
}

// BindTo creates a Binding from Go types.
func BindTo[I, T any]() Binding {
	return Binding{Interface: NameOf[I](), Implementation: NameOf[T]()}
}

// BindInterfaces binds several interfaces in a single call, stopping at
// the first error.
//
// Example:
//
//	err := crate.BindInterfaces(c,
//	    crate.BindTo[Mailer, *SMTPMailer](),
//	    crate.BindTo[Store, *PostgresStore](),
//	)
func BindInterfaces(c *Container, bindings ...Binding) error {
	for _, b := range bindings {
		if err := c.BindInterface(b.Interface, b.Implementation); err != nil {
			return err
		}
	}
	return nil
}

// ProvideAll registers several constructor functions in a single call,
// stopping at the first error.
//
// Example:
//
//	err := crate.ProvideAll(reg, NewConfig, NewStore, NewSignupFlow)
func ProvideAll(r *TypeRegistry, constructors ...any) error {
	for _, ctor := range constructors {
		if err := r.Provide(ctor); err != nil {
			return err
		}
	}
	return nil
}
