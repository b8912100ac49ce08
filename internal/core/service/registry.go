package service

// =============================================================================
// Registry - All Services of One Run
// =============================================================================

// Registry is the ordered set of every service taking part in a run,
// queryable by peers. It does not own the services.
type Registry struct {
	Project string

	services []Behavior
	byName   map[string]Behavior
	vars     map[string]string
}

// NewRegistry creates a registry over services, keeping their order.
// A later service with an already registered name does not replace the
// earlier one; duplicates are rejected by planning before this point.
func NewRegistry(project string, vars map[string]string, services []Behavior) *Registry {
	r := &Registry{
		Project: project,
		byName:  make(map[string]Behavior, len(services)),
		vars:    make(map[string]string, len(vars)),
	}
	for k, v := range vars {
		r.vars[k] = v
	}
	for _, s := range services {
		name := s.Describe().Name
		if _, ok := r.byName[name]; ok {
			continue
		}
		r.byName[name] = s
		r.services = append(r.services, s)
	}
	return r
}

// All returns every service in order.
func (r *Registry) All() []Behavior {
	out := make([]Behavior, len(r.services))
	copy(out, r.services)
	return out
}

// Names returns every service name in order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.services))
	for _, s := range r.services {
		names = append(names, s.Describe().Name)
	}
	return names
}

// Lookup returns the service registered under name.
func (r *Registry) Lookup(name string) (Behavior, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// WithCapability returns the services offering c, in order.
func (r *Registry) WithCapability(c Capability) []Behavior {
	var out []Behavior
	for _, s := range r.services {
		if s.Describe().HasCapability(c) {
			out = append(out, s)
		}
	}
	return out
}

// RunVars returns a copy of the run-level substitution values.
// A nil registry has none.
func (r *Registry) RunVars() map[string]string {
	if r == nil {
		return nil
	}
	out := make(map[string]string, len(r.vars))
	for k, v := range r.vars {
		out[k] = v
	}
	return out
}
