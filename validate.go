package crate

import (
	"go.uber.org/multierr"
)

// Validate checks, without instantiating anything, that every class the
// introspector lists could be resolved with the current bindings. It
// reports every unknown type, unbound interface, untyped parameter,
// invalid binding and cycle, combined into one error (see
// multierr.Errors). Classes whose instance is already cached are not
// checked. An introspector that does not implement Lister is only checked
// through the bound interfaces.
func (c *Container) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var (
		result error
		seen   = make(map[string]struct{})
		graph  = NewDependencyGraph()
	)

	report := func(err error) {
		if _, dup := seen[err.Error()]; dup {
			return
		}
		seen[err.Error()] = struct{}{}
		result = multierr.Append(result, err)
	}

	for _, name := range c.serviceNames() {
		if _, cached := c.instances[name]; cached {
			continue
		}

		info, ok := c.types.Lookup(name)
		if !ok {
			// A binding key the introspector has never heard of.
			report(ErrUnknownType(name))
			continue
		}

		if info.Kind == KindInterface {
			if _, bound := c.bindings[name]; bound {
				if _, err := c.concreteType(name); err != nil {
					report(err)
				}
			}
			continue
		}

		var deps []ServiceName
		for _, p := range info.Params {
			target, edge, err := c.edgeTarget(info, p)
			if err != nil {
				report(err)
				continue
			}
			if edge {
				deps = append(deps, target)
			}
		}

		graph.AddNode(info.Name, deps)
	}

	if _, err := graph.TopologicalSort(); err != nil {
		report(err)
	}

	return result
}

// Plan returns the classes a resolution of name would instantiate, in the
// order they would be built: dependencies first, left to right, name's
// class last. Cached classes are left out, so a cached name yields an empty
// plan. Plan fails with the first error the resolution would hit.
func (c *Container) Plan(name ServiceName) ([]ServiceName, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, cached := c.instances[name]; cached {
		return nil, nil
	}

	root, err := c.concreteType(name)
	if err != nil {
		return nil, err
	}

	if _, cached := c.instances[root.Name]; cached {
		return nil, nil
	}

	graph := NewDependencyGraph()
	if err := c.planNode(graph, root); err != nil {
		return nil, err
	}

	return graph.SortFrom(root.Name)
}

// planNode adds info and everything it would build to graph.
func (c *Container) planNode(graph *DependencyGraph, info TypeInfo) error {
	for _, p := range info.Params {
		if p.Type == "" {
			return ErrUntypedParameter(info.Name, p.Index)
		}
	}

	var deps []ServiceName
	graph.AddNode(info.Name, nil)

	for _, p := range info.Params {
		target, edge, err := c.edgeTarget(info, p)
		if err != nil {
			return err
		}
		if !edge {
			continue
		}

		deps = append(deps, target)
		graph.AddNode(info.Name, deps)

		if graph.HasNode(target) {
			// Already planned, or on the current path: SortFrom reports cycles.
			continue
		}

		dep, _ := c.types.Lookup(target)
		if err := c.planNode(graph, dep); err != nil {
			return err
		}
	}

	return nil
}

// edgeTarget maps a constructor parameter to the class it would build.
// edge is false when the parameter is satisfied by a cached instance.
func (c *Container) edgeTarget(owner TypeInfo, p Param) (target ServiceName, edge bool, err error) {
	if p.Type == "" {
		return "", false, ErrUntypedParameter(owner.Name, p.Index)
	}

	if _, cached := c.instances[p.Type]; cached {
		return "", false, nil
	}

	info, err := c.concreteType(p.Type)
	if err != nil {
		return "", false, err
	}

	if _, cached := c.instances[info.Name]; cached {
		return "", false, nil
	}

	return info.Name, true, nil
}
