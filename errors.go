package crate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeAlreadyRequested indicates CreateOnce was called twice for a name
	CodeAlreadyRequested = "ALREADY_REQUESTED"

	// CodeAlreadyCreated indicates an instance is already cached for a name
	CodeAlreadyCreated = "ALREADY_CREATED"

	// CodeUnknownType indicates a name is neither a known class nor interface
	CodeUnknownType = "UNKNOWN_TYPE"

	// CodeUnboundInterface indicates an interface has no implementation bound
	CodeUnboundInterface = "UNBOUND_INTERFACE"

	// CodeUntypedParameter indicates a constructor parameter has no resolvable type
	CodeUntypedParameter = "UNTYPED_PARAMETER"

	// CodeDuplicateBinding indicates an interface is already bound
	CodeDuplicateBinding = "DUPLICATE_BINDING"

	// CodeCyclicDependency indicates the dependency graph contains a cycle
	CodeCyclicDependency = "CYCLIC_DEPENDENCY"

	// CodeInvalidBinding indicates a binding target cannot stand in for its interface
	CodeInvalidBinding = "INVALID_BINDING"

	// CodeConstructionFailed indicates a constructor returned an error
	CodeConstructionFailed = "CONSTRUCTION_FAILED"

	// CodeTypeAlreadyRegistered indicates a type name is already in the registry
	CodeTypeAlreadyRegistered = "TYPE_ALREADY_REGISTERED"

	// CodeInvalidConstructor indicates a constructor has an unsupported shape
	CodeInvalidConstructor = "INVALID_CONSTRUCTOR"

	// CodeInvalidInstance indicates no service name can be derived for an instance
	CodeInvalidInstance = "INVALID_INSTANCE"

	// CodeTypeMismatch indicates a resolved instance is not of the requested Go type
	CodeTypeMismatch = "TYPE_MISMATCH"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// Sentinels match any error carrying the same code when used with errors.Is.
var (
	ErrAlreadyRequestedSentinel      = &errs.Error{Code: CodeAlreadyRequested}
	ErrAlreadyCreatedSentinel        = &errs.Error{Code: CodeAlreadyCreated}
	ErrUnknownTypeSentinel           = &errs.Error{Code: CodeUnknownType}
	ErrUnboundInterfaceSentinel      = &errs.Error{Code: CodeUnboundInterface}
	ErrUntypedParameterSentinel      = &errs.Error{Code: CodeUntypedParameter}
	ErrDuplicateBindingSentinel      = &errs.Error{Code: CodeDuplicateBinding}
	ErrCyclicDependencySentinel      = &errs.Error{Code: CodeCyclicDependency}
	ErrInvalidBindingSentinel        = &errs.Error{Code: CodeInvalidBinding}
	ErrConstructionFailedSentinel    = &errs.Error{Code: CodeConstructionFailed}
	ErrTypeAlreadyRegisteredSentinel = &errs.Error{Code: CodeTypeAlreadyRegistered}
	ErrInvalidConstructorSentinel    = &errs.Error{Code: CodeInvalidConstructor}
	ErrTypeMismatchSentinel          = &errs.Error{Code: CodeTypeMismatch}
)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrAlreadyRequested creates an error for a second CreateOnce of the same name.
func ErrAlreadyRequested(name ServiceName) *errs.Error {
	return errs.NewError(
		CodeAlreadyRequested,
		fmt.Sprintf("service '%s' can be created only once", name),
		nil,
	).WithContext("service", string(name)).(*errs.Error)
}

// ErrAlreadyCreated creates an error for seeding a name that is already cached.
func ErrAlreadyCreated(name ServiceName) *errs.Error {
	return errs.NewError(
		CodeAlreadyCreated,
		fmt.Sprintf("service '%s' is already created", name),
		nil,
	).WithContext("service", string(name)).(*errs.Error)
}

// ErrUnknownType creates an error for a name the registry does not know.
func ErrUnknownType(name ServiceName) *errs.Error {
	return errs.NewError(
		CodeUnknownType,
		fmt.Sprintf("class '%s' is not defined", name),
		nil,
	).WithContext("service", string(name)).(*errs.Error)
}

// ErrUnboundInterface creates an error for an interface with no implementation.
func ErrUnboundInterface(name ServiceName) *errs.Error {
	return errs.NewError(
		CodeUnboundInterface,
		fmt.Sprintf("implementation of interface '%s' is not defined", name),
		nil,
	).WithContext("service", string(name)).(*errs.Error)
}

// ErrUntypedParameter creates an error for a constructor parameter of owner
// that has no resolvable declared type.
func ErrUntypedParameter(owner ServiceName, index int) *errs.Error {
	return errs.NewError(
		CodeUntypedParameter,
		fmt.Sprintf("constructor parameter %d of class '%s' is not typed", index, owner),
		nil,
	).WithContext("service", string(owner)).
		WithContext("owner", string(owner)).
		WithContext("parameter", index).(*errs.Error)
}

// ErrDuplicateBinding creates an error for rebinding an interface.
func ErrDuplicateBinding(iface ServiceName) *errs.Error {
	return errs.NewError(
		CodeDuplicateBinding,
		fmt.Sprintf("implementation of interface '%s' is already defined", iface),
		nil,
	).WithContext("service", string(iface)).(*errs.Error)
}

// ErrCyclicDependency creates an error describing the cycle path. The last
// element repeats the first.
func ErrCyclicDependency(cycle []ServiceName) *errs.Error {
	parts := make([]string, len(cycle))
	for i, name := range cycle {
		parts[i] = string(name)
	}

	var head string
	if len(parts) > 0 {
		head = parts[0]
	}

	return errs.NewError(
		CodeCyclicDependency,
		"cyclic dependency detected: "+strings.Join(parts, " -> "),
		nil,
	).WithContext("service", head).
		WithContext("cycle", parts).(*errs.Error)
}

// ErrInvalidBinding creates an error for an implementation that cannot
// satisfy the interface it is bound to.
func ErrInvalidBinding(iface, impl ServiceName, reason string) *errs.Error {
	return errs.NewError(
		CodeInvalidBinding,
		fmt.Sprintf("interface '%s' cannot be bound to '%s': %s", iface, impl, reason),
		nil,
	).WithContext("service", string(iface)).
		WithContext("implementation", string(impl)).(*errs.Error)
}

// ErrConstructionFailed wraps an error returned by a constructor.
func ErrConstructionFailed(name ServiceName, cause error) *errs.Error {
	return errs.NewError(
		CodeConstructionFailed,
		fmt.Sprintf("constructor of '%s' failed", name),
		cause,
	).WithContext("service", string(name)).(*errs.Error)
}

// ErrTypeAlreadyRegistered creates an error for a duplicate registry entry.
func ErrTypeAlreadyRegistered(name ServiceName) *errs.Error {
	return errs.NewError(
		CodeTypeAlreadyRegistered,
		fmt.Sprintf("type '%s' is already registered", name),
		nil,
	).WithContext("service", string(name)).(*errs.Error)
}

// ErrInvalidConstructor creates an error for an unusable constructor.
func ErrInvalidConstructor(reason string) *errs.Error {
	return errs.NewError(CodeInvalidConstructor, "invalid constructor: "+reason, nil)
}

// ErrInvalidInstance creates an error for an instance whose Go type has no
// service name.
func ErrInvalidInstance(instance any) *errs.Error {
	return errs.NewError(
		CodeInvalidInstance,
		fmt.Sprintf("cannot derive a service name for %T", instance),
		nil,
	)
}

// ErrTypeMismatch creates an error for a typed helper whose assertion failed.
func ErrTypeMismatch(name ServiceName, actual any) *errs.Error {
	return errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("service '%s' type mismatch: got %T", name, actual),
		nil,
	).WithContext("service", string(name)).
		WithContext("actual_type", fmt.Sprintf("%T", actual)).(*errs.Error)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsAlreadyRequested reports whether err is an ALREADY_REQUESTED error.
func IsAlreadyRequested(err error) bool {
	return errors.Is(err, ErrAlreadyRequestedSentinel)
}

// IsUnknownType reports whether err is an UNKNOWN_TYPE error.
func IsUnknownType(err error) bool {
	return errors.Is(err, ErrUnknownTypeSentinel)
}

// IsCyclicDependency reports whether err is a CYCLIC_DEPENDENCY error.
func IsCyclicDependency(err error) bool {
	return errors.Is(err, ErrCyclicDependencySentinel)
}

// ServiceOf returns the service name an error from this package refers to,
// or "" when err carries none.
func ServiceOf(err error) ServiceName {
	var e *errs.Error
	if !errors.As(err, &e) {
		return ""
	}

	name, _ := e.GetContext()["service"].(string)

	return ServiceName(name)
}
