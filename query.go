package crate

import (
	"fmt"
	"sort"
)

// ServiceInfo contains diagnostic information about a service name.
type ServiceInfo struct {
	Name ServiceName

	// Kind is zero when the introspector does not know the name, e.g. for
	// instances seeded under an arbitrary name.
	Kind Kind

	// Implementation is the bound class of an interface.
	Implementation ServiceName

	Dependencies []ServiceName
	Created      bool
	Requested    bool

	// Type is the Go type of the cached instance, "unknown" when not created.
	Type string
}

// Inspect returns diagnostic information about a service.
func (c *Container) Inspect(name ServiceName) ServiceInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.inspect(name)
}

func (c *Container) inspect(name ServiceName) ServiceInfo {
	info := ServiceInfo{Name: name, Type: "unknown"}

	if t, ok := c.types.Lookup(name); ok {
		info.Kind = t.Kind
		info.Dependencies = t.Dependencies()
	}

	if impl, ok := c.bindings[name]; ok {
		info.Implementation = impl
	}

	if instance, ok := c.instances[name]; ok {
		info.Created = true
		info.Type = fmt.Sprintf("%T", instance)
	}

	_, info.Requested = c.requested[name]

	return info
}

// Services returns every name the container knows about: the
// introspector's names when it implements Lister, bound interfaces and
// cached instances. The result is sorted.
func (c *Container) Services() []ServiceName {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.serviceNames()
}

func (c *Container) serviceNames() []ServiceName {
	seen := make(map[ServiceName]struct{})

	if lister, ok := c.types.(Lister); ok {
		for _, name := range lister.Names() {
			seen[name] = struct{}{}
		}
	}

	for name := range c.bindings {
		seen[name] = struct{}{}
	}

	for name := range c.instances {
		seen[name] = struct{}{}
	}

	names := make([]ServiceName, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}

// ServiceQuery defines criteria for querying services.
type ServiceQuery struct {
	// Kind filters by class or interface. Zero matches all.
	Kind Kind

	// Created filters by whether an instance is cached.
	// nil matches all services.
	Created *bool

	// Requested filters by whether the name went through CreateOnce.
	// nil matches all services.
	Requested *bool
}

// Query returns information about services matching the query criteria.
//
// Example:
//
//	created := true
//	classes := crate.Query(c, crate.ServiceQuery{
//	    Kind:    crate.KindClass,
//	    Created: &created,
//	})
func Query(c *Container, query ServiceQuery) []ServiceInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	var results []ServiceInfo

	for _, name := range c.serviceNames() {
		info := c.inspect(name)

		if query.Kind != 0 && info.Kind != query.Kind {
			continue
		}

		if query.Created != nil && info.Created != *query.Created {
			continue
		}

		if query.Requested != nil && info.Requested != *query.Requested {
			continue
		}

		results = append(results, info)
	}

	return results
}

// QueryNames returns the names of services matching the query criteria.
func QueryNames(c *Container, query ServiceQuery) []ServiceName {
	results := Query(c, query)
	names := make([]ServiceName, len(results))
	for i, info := range results {
		names[i] = info.Name
	}
	return names
}

// FindCreated returns all services with a cached instance.
func FindCreated(c *Container) []ServiceInfo {
	created := true
	return Query(c, ServiceQuery{Created: &created})
}
