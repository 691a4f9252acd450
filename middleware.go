package crate

// ResolveEvent describes one frame of a resolution.
type ResolveEvent struct {
	// Name is the name the frame was asked for. It can be an interface.
	Name ServiceName

	// Concrete is the class that backs Name. It is empty when the frame
	// failed before the class was known.
	Concrete ServiceName

	// Cached is true when the instance came from the cache.
	Cached bool

	Instance any
	Err      error

	// Depth is 0 for the name passed to CreateOnce or Resolve.
	Depth int
}

// Middleware provides hooks around every frame of the recursive resolver.
// Middleware can be used for logging, metrics, testing, etc. Hooks run
// while the container holds its lock and must not call back into it.
type Middleware interface {
	// BeforeResolve is called before a name is resolved.
	// Return error to abort resolution.
	BeforeResolve(name ServiceName, depth int) error

	// AfterResolve is called after a name is resolved.
	// Called even if resolution failed. A returned error replaces a nil
	// resolution error; it never replaces an existing one.
	AfterResolve(event ResolveEvent) error
}

// middlewareChain manages multiple middleware.
type middlewareChain struct {
	middleware []Middleware
}

// newMiddlewareChain creates a new middleware chain.
func newMiddlewareChain() *middlewareChain {
	return &middlewareChain{
		middleware: make([]Middleware, 0),
	}
}

// add appends middleware to the chain.
func (m *middlewareChain) add(middleware Middleware) {
	m.middleware = append(m.middleware, middleware)
}

// beforeResolve calls BeforeResolve on all middleware.
func (m *middlewareChain) beforeResolve(name ServiceName, depth int) error {
	for _, mw := range m.middleware {
		if err := mw.BeforeResolve(name, depth); err != nil {
			return err
		}
	}
	return nil
}

// afterResolve calls AfterResolve on all middleware.
func (m *middlewareChain) afterResolve(event ResolveEvent) error {
	for _, mw := range m.middleware {
		if mwErr := mw.AfterResolve(event); mwErr != nil {
			return mwErr
		}
	}
	return nil
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeResolveFunc func(name ServiceName, depth int) error
	AfterResolveFunc  func(event ResolveEvent) error
}

// BeforeResolve implements Middleware.
func (f *FuncMiddleware) BeforeResolve(name ServiceName, depth int) error {
	if f.BeforeResolveFunc != nil {
		return f.BeforeResolveFunc(name, depth)
	}
	return nil
}

// AfterResolve implements Middleware.
func (f *FuncMiddleware) AfterResolve(event ResolveEvent) error {
	if f.AfterResolveFunc != nil {
		return f.AfterResolveFunc(event)
	}
	return nil
}
