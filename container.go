package crate

import (
	"reflect"
	"sync"

	"github.com/xraph/go-utils/log"
)

// Container builds services by walking their constructor dependencies and
// keeps every instance it creates for its own lifetime. Each concrete class
// is instantiated at most once.
//
// Configuration code usually embeds *Container and binds interfaces in its
// own constructor:
//
//	type AppContainer struct {
//	    *crate.Container
//	}
//
//	func NewAppContainer(types crate.Introspector) (*AppContainer, error) {
//	    c := crate.New(types)
//	    if err := c.BindInterface(crate.NameOf[Mailer](), crate.NameOf[*SMTPMailer]()); err != nil {
//	        return nil, err
//	    }
//	    return &AppContainer{Container: c}, nil
//	}
//
// Every public method takes the container lock, so a Container may be
// shared between goroutines; resolutions are serialised.
type Container struct {
	types      Introspector
	instances  map[ServiceName]any
	requested  map[ServiceName]struct{}
	bindings   map[ServiceName]ServiceName
	resolving  map[ServiceName]int // class -> position in stack
	stack      []ServiceName
	middleware *middlewareChain
	logger     log.Logger
	mu         sync.Mutex
}

// New creates an empty container that looks types up in types.
func New(types Introspector, opts ...Option) *Container {
	c := &Container{
		types:      types,
		instances:  make(map[ServiceName]any),
		requested:  make(map[ServiceName]struct{}),
		bindings:   make(map[ServiceName]ServiceName),
		resolving:  make(map[ServiceName]int),
		middleware: newMiddlewareChain(),
		logger:     log.NewNoopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// CreateOnce resolves name and returns the fully built instance. Each name
// may be passed to CreateOnce a single time; a second call fails with
// ALREADY_REQUESTED before any resolution runs, even when the first call
// failed. Instances created earlier as dependencies are returned as is.
func (c *Container) CreateOnce(name ServiceName) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, done := c.requested[name]; done {
		return nil, ErrAlreadyRequested(name)
	}
	c.requested[name] = struct{}{}

	instance, err := c.resolve(name, 0)
	if err != nil {
		c.logger.Warn("service creation failed",
			log.String("service", string(name)),
			log.Error(err),
		)

		return nil, err
	}

	return instance, nil
}

// Resolve returns the instance for name, building it and its dependencies
// when needed. Unlike CreateOnce it may be called any number of times; it
// is meant for configuration code that embeds the container.
func (c *Container) Resolve(name ServiceName) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.resolve(name, 0)
}

// BindInterface makes iface resolve to impl. Each interface can be bound
// once. Neither name is checked here; a bad binding fails when it is
// resolved.
func (c *Container) BindInterface(iface, impl ServiceName) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.bindings[iface]; exists {
		return ErrDuplicateBinding(iface)
	}

	c.bindings[iface] = impl

	c.logger.Debug("interface bound",
		log.String("interface", string(iface)),
		log.String("implementation", string(impl)),
	)

	return nil
}

// RegisterInstance seeds the cache with a prebuilt instance under the
// service name of its Go type.
func (c *Container) RegisterInstance(instance any) error {
	name := typeName(reflect.TypeOf(instance))
	if name == "" {
		return ErrInvalidInstance(instance)
	}

	return c.RegisterNamedInstance(name, instance)
}

// RegisterNamedInstance seeds the cache with a prebuilt instance under name.
func (c *Container) RegisterNamedInstance(name ServiceName, instance any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.instances[name]; exists {
		return ErrAlreadyCreated(name)
	}

	c.instances[name] = instance

	c.logger.Debug("instance registered", log.String("service", string(name)))

	return nil
}

// IsCreated reports whether an instance is cached under name.
func (c *Container) IsCreated(name ServiceName) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.instances[name]

	return ok
}

// IsRequested reports whether name has been passed to CreateOnce.
func (c *Container) IsRequested(name ServiceName) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.requested[name]

	return ok
}

// Binding returns the implementation bound to iface.
func (c *Container) Binding(iface ServiceName) (ServiceName, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	impl, ok := c.bindings[iface]

	return impl, ok
}

// Use adds middleware to the container.
// Middleware is called in the order they are added.
func (c *Container) Use(middleware Middleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.middleware.add(middleware)
}

// resolve runs one frame of the recursive resolver and caches what it
// built. Callers hold c.mu.
func (c *Container) resolve(name ServiceName, depth int) (any, error) {
	if err := c.middleware.beforeResolve(name, depth); err != nil {
		return nil, err
	}

	instance, concrete, cached, err := c.build(name, depth)

	event := ResolveEvent{
		Name:     name,
		Concrete: concrete,
		Cached:   cached,
		Instance: instance,
		Err:      err,
		Depth:    depth,
	}
	if mwErr := c.middleware.afterResolve(event); mwErr != nil && err == nil {
		err = mwErr
	}

	if err != nil {
		return nil, err
	}

	if !cached {
		c.instances[concrete] = instance

		c.logger.Debug("service created",
			log.String("service", string(name)),
			log.String("class", string(concrete)),
			log.Int("depth", depth),
		)
	}

	return instance, nil
}

// build returns the cached instance for name or constructs a new one. It
// never writes the cache itself.
func (c *Container) build(name ServiceName, depth int) (instance any, concrete ServiceName, cached bool, err error) {
	if instance, ok := c.instances[name]; ok {
		return instance, name, true, nil
	}

	info, err := c.concreteType(name)
	if err != nil {
		return nil, "", false, err
	}

	// An interface lands on its implementation, which may already exist.
	if info.Name != name {
		if instance, ok := c.instances[info.Name]; ok {
			return instance, info.Name, true, nil
		}
	}

	if pos, ok := c.resolving[info.Name]; ok {
		cycle := append([]ServiceName{}, c.stack[pos:]...)
		cycle = append(cycle, info.Name)

		return nil, info.Name, false, ErrCyclicDependency(cycle)
	}

	for _, p := range info.Params {
		if p.Type == "" {
			return nil, info.Name, false, ErrUntypedParameter(info.Name, p.Index)
		}
	}

	c.resolving[info.Name] = len(c.stack)
	c.stack = append(c.stack, info.Name)
	defer func() {
		c.stack = c.stack[:len(c.stack)-1]
		delete(c.resolving, info.Name)
	}()

	args := make([]any, len(info.Params))
	for i, p := range info.Params {
		arg, err := c.resolve(p.Type, depth+1)
		if err != nil {
			return nil, info.Name, false, err
		}

		args[i] = arg
	}

	instance, err = info.Construct(args)
	if err != nil {
		return nil, info.Name, false, ErrConstructionFailed(info.Name, err)
	}

	return instance, info.Name, false, nil
}

// concreteType looks name up and follows an interface to its bound class.
func (c *Container) concreteType(name ServiceName) (TypeInfo, error) {
	info, ok := c.types.Lookup(name)
	if !ok {
		return TypeInfo{}, ErrUnknownType(name)
	}

	if info.Kind != KindInterface {
		return info, nil
	}

	implName, ok := c.bindings[name]
	if !ok {
		return TypeInfo{}, ErrUnboundInterface(name)
	}

	impl, ok := c.types.Lookup(implName)
	if !ok {
		return TypeInfo{}, ErrUnknownType(implName)
	}

	if err := checkBinding(info, impl); err != nil {
		return TypeInfo{}, err
	}

	return impl, nil
}

// checkBinding verifies impl can stand in for iface.
func checkBinding(iface, impl TypeInfo) error {
	if impl.Kind != KindClass {
		return ErrInvalidBinding(iface.Name, impl.Name, "implementation is not a class")
	}

	if iface.Type != nil && impl.Type != nil && !impl.Type.Implements(iface.Type) {
		return ErrInvalidBinding(iface.Name, impl.Name, impl.Type.String()+" does not implement "+iface.Type.String())
	}

	return nil
}
