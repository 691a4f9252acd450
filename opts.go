package crate

import "github.com/xraph/go-utils/log"

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the logger used for binding, creation and failure
// events. A nil logger keeps the default no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger.Named("crate")
		}
	}
}

// WithMiddleware adds middleware, in order, at construction time.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Container) {
		for _, mw := range middleware {
			c.middleware.add(mw)
		}
	}
}
