// Package crate is a small dependency-injection container.
//
// Given a class name, the container instantiates the class and, recursively,
// everything its constructor asks for. Interfaces resolve through explicit
// bindings, and every concrete class is built at most once per container.
//
// Types are described by an Introspector. The default one, TypeRegistry,
// learns them from Go constructor functions:
//
//	reg := crate.NewTypeRegistry()
//	_ = crate.DeclareInterface[Mailer](reg)
//	_ = reg.Provide(NewSMTPMailer)  // func(*Config) *SMTPMailer
//	_ = reg.Provide(NewSignupFlow)  // func(Mailer, *Users) *SignupFlow
//	_ = crate.ProvideType[*Config](reg)
//	_ = crate.ProvideType[*Users](reg)
//
//	c := crate.New(reg)
//	_ = c.BindInterface(crate.NameOf[Mailer](), crate.NameOf[*SMTPMailer]())
//
//	flow, err := crate.CreateOnceAs[*SignupFlow](c)
//
// Dependency cycles are reported as CYCLIC_DEPENDENCY errors rather than
// recursing without bound.
package crate
