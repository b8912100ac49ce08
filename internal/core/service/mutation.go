package service

import (
	"fmt"
	"sort"
)

// =============================================================================
// Mutations - Two-Phase Cross-Service Contributions
// =============================================================================

// Mutation is a pending change one service registers on a peer. All
// mutations are collected first and applied before any fragment is built, so
// the outcome does not depend on traversal order.
type Mutation struct {
	Source string // name of the contributing service
	Target string // name of the service being changed

	Volumes     []string
	StaticFiles map[string]string
	Labels      map[string]string
}

// Contributions is the default for services with a Route: ask every reverse
// proxy in the registry for the mutation that publishes this service.
func (d *Descriptor) Contributions() ([]Mutation, error) {
	if d.Route == "" || d.Registry == nil {
		return nil, nil
	}

	var out []Mutation
	for _, proxy := range d.Registry.WithCapability(CapReverseProxy) {
		router, ok := proxy.(Router)
		if !ok {
			continue
		}
		m, err := router.RouteTo(d)
		if err != nil {
			return nil, fmt.Errorf("route %s through %s: %w", d.Name, proxy.Describe().Name, err)
		}
		if m.Source == "" {
			m.Source = d.Name
		}
		out = append(out, m)
	}
	return out, nil
}

// CollectMutations runs phase 1: every Contributor in the registry, in
// order, registers its mutations.
func CollectMutations(r *Registry) ([]Mutation, error) {
	var out []Mutation
	for _, s := range r.All() {
		c, ok := s.(Contributor)
		if !ok {
			continue
		}
		ms, err := c.Contributions()
		if err != nil {
			return nil, err
		}
		out = append(out, ms...)
	}
	return out, nil
}

// ApplyMutations runs phase 2: each mutation is applied to its target in
// registration order. Volumes are appended, files and labels are merged with
// later mutations winning.
func ApplyMutations(r *Registry, mutations []Mutation) error {
	for _, m := range mutations {
		target, ok := r.Lookup(m.Target)
		if !ok {
			return fmt.Errorf("%w: %q (from %s)", ErrUnknownTarget, m.Target, m.Source)
		}
		d := target.Describe()

		d.Volumes = append(d.Volumes, m.Volumes...)

		for _, p := range sortedPaths(m.StaticFiles) {
			if d.StaticFiles == nil {
				d.StaticFiles = make(map[string]string)
			}
			d.StaticFiles[p] = m.StaticFiles[p]
		}

		keys := make([]string, 0, len(m.Labels))
		for k := range m.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if d.Labels == nil {
				d.Labels = make(map[string]string)
			}
			d.Labels[k] = m.Labels[k]
		}
	}
	return nil
}
