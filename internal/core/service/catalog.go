package service

import (
	"fmt"
	"sort"
)

// =============================================================================
// Catalog - Kinds and Their Defaults
// =============================================================================

// KindInfo describes a service kind for listing.
type KindInfo struct {
	Kind        Kind
	Role        string
	DefaultName string
	DefaultPort int
}

type catalogEntry struct {
	info KindInfo
	new  func(spec Spec) Behavior
}

// defaultPorts is kept apart from catalog: constructors read it, and catalog
// refers to the constructors.
var defaultPorts = map[Kind]int{
	KindFastAPI:       8080,
	KindDjango:        8000,
	KindRestFramework: 8000,
	KindVue:           8081,
	KindPostgres:      5432,
	KindRedis:         6379,
	KindNginx:         80,
	KindTraefik:       80,
}

var catalog = map[Kind]catalogEntry{
	KindGeneric: {
		info: KindInfo{Kind: KindGeneric, Role: "generic", DefaultName: "service"},
		new:  func(s Spec) Behavior { return NewGeneric(s.Name, s.Port, s.Image) },
	},
	KindFastAPI: {
		info: KindInfo{Kind: KindFastAPI, Role: string(CapAPI), DefaultName: "backend", DefaultPort: defaultPorts[KindFastAPI]},
		new:  func(s Spec) Behavior { return NewFastAPI(s.Name, s.Port).WithPackages(s.Packages...) },
	},
	KindDjango: {
		info: KindInfo{Kind: KindDjango, Role: string(CapAPI), DefaultName: "backend", DefaultPort: defaultPorts[KindDjango]},
		new:  func(s Spec) Behavior { return NewDjango(s.Name, s.Port).WithPackages(s.Packages...) },
	},
	KindRestFramework: {
		info: KindInfo{Kind: KindRestFramework, Role: string(CapAPI), DefaultName: "backend", DefaultPort: defaultPorts[KindRestFramework]},
		new:  func(s Spec) Behavior { return NewRestFramework(s.Name, s.Port).WithPackages(s.Packages...) },
	},
	KindVue: {
		info: KindInfo{Kind: KindVue, Role: string(CapFrontend), DefaultName: "front", DefaultPort: defaultPorts[KindVue]},
		new:  func(s Spec) Behavior { return NewVue(s.Name, s.Port) },
	},
	KindPostgres: {
		info: KindInfo{Kind: KindPostgres, Role: string(CapDatastore), DefaultName: "db", DefaultPort: defaultPorts[KindPostgres]},
		new:  func(s Spec) Behavior { return NewPostgres(s.Name, s.Port) },
	},
	KindRedis: {
		info: KindInfo{Kind: KindRedis, Role: string(CapDatastore), DefaultName: "cache", DefaultPort: defaultPorts[KindRedis]},
		new:  func(s Spec) Behavior { return NewRedis(s.Name, s.Port) },
	},
	KindNginx: {
		info: KindInfo{Kind: KindNginx, Role: string(CapReverseProxy), DefaultName: "proxy", DefaultPort: defaultPorts[KindNginx]},
		new:  func(s Spec) Behavior { return NewNginx(s.Name, s.Port) },
	},
	KindTraefik: {
		info: KindInfo{Kind: KindTraefik, Role: string(CapReverseProxy), DefaultName: "proxy", DefaultPort: defaultPorts[KindTraefik]},
		new: func(s Spec) Behavior {
			t := NewTraefik(s.Name, s.Port)
			t.Hostname = s.Hostname
			if s.TLS {
				t.EnableTLS()
			}
			return t
		},
	},
}

// withDefaultPort returns port, or the kind's default port when zero.
func withDefaultPort(k Kind, port int) int {
	if port != 0 {
		return port
	}
	return defaultPorts[k]
}

// Kinds lists every known kind, sorted by name.
func Kinds() []KindInfo {
	out := make([]KindInfo, 0, len(catalog))
	for _, e := range catalog {
		out = append(out, e.info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

// =============================================================================
// Spec - Declarative Service Definition
// =============================================================================

// Spec is the declarative form of a service, as read from configuration.
type Spec struct {
	Kind    string   `mapstructure:"kind"`
	Name    string   `mapstructure:"name"`
	Port    int      `mapstructure:"port"`
	Image   string   `mapstructure:"image"`
	Command string   `mapstructure:"command"`
	Ports   []string `mapstructure:"ports"`
	Volumes []string `mapstructure:"volumes"`

	// Route overrides the proxy route; NoRoute keeps the service off every
	// reverse proxy.
	Route   string `mapstructure:"route"`
	NoRoute bool   `mapstructure:"no_route"`

	// Traefik only.
	Hostname string `mapstructure:"hostname"`
	TLS      bool   `mapstructure:"tls"`

	// Python backends only: extra packages for poetry add.
	Packages []string `mapstructure:"packages"`

	// Dependencies are owned by this service and injected after it.
	Dependencies []Spec `mapstructure:"dependencies"`

	// DependsOn references services declared elsewhere in the same run
	// by name. A shared service is injected once.
	DependsOn []string `mapstructure:"depends_on"`
}

// DefaultSpecs is the run used when no services are configured: a FastAPI
// backend and a Vue frontend.
func DefaultSpecs() []Spec {
	return []Spec{
		{Kind: string(KindFastAPI), Name: "backend", Port: 8080},
		{Kind: string(KindVue), Name: "front", Port: 8081},
	}
}

// New creates the service described by spec and its owned dependencies.
// DependsOn references are not resolved; use Build for a whole run.
func New(spec Spec) (Behavior, error) {
	var built []builtSpec
	return newService(spec, &built)
}

// Build creates the top-level services of a run and resolves every
// DependsOn reference against the names declared anywhere in specs.
func Build(specs []Spec) ([]Behavior, error) {
	var built []builtSpec
	top := make([]Behavior, 0, len(specs))
	for _, spec := range specs {
		b, err := newService(spec, &built)
		if err != nil {
			return nil, err
		}
		top = append(top, b)
	}

	byName := make(map[string]Behavior, len(built))
	for _, bs := range built {
		name := bs.service.Describe().Name
		if _, ok := byName[name]; !ok {
			byName[name] = bs.service
		}
	}

	for _, bs := range built {
		for _, ref := range bs.spec.DependsOn {
			dep, ok := byName[ref]
			if !ok {
				return nil, fmt.Errorf("%w: service %s depends on unknown service %q",
					ErrInvalidSpec, bs.service.Describe().Name, ref)
			}
			bs.service.Describe().AddDependency(dep)
		}
	}

	return top, nil
}

type builtSpec struct {
	spec    Spec
	service Behavior
}

func newService(spec Spec, built *[]builtSpec) (Behavior, error) {
	kind := Kind(spec.Kind)
	if kind == "" {
		kind = KindGeneric
	}
	entry, ok := catalog[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, spec.Kind)
	}
	if spec.Name == "" {
		spec.Name = entry.info.DefaultName
	}

	b := entry.new(spec)
	d := b.Describe()

	if spec.Image != "" {
		d.Image = spec.Image
	}
	if spec.Command != "" {
		d.Command = spec.Command
	}
	if spec.Ports != nil {
		ports := make([]PortMapping, 0, len(spec.Ports))
		for _, p := range spec.Ports {
			pm, err := ParsePortMapping(p)
			if err != nil {
				return nil, fmt.Errorf("service %s: %w", spec.Name, err)
			}
			ports = append(ports, pm)
		}
		d.Ports = ports
	}
	d.Volumes = append(d.Volumes, spec.Volumes...)
	if spec.Route != "" {
		d.Route = spec.Route
	}
	if spec.NoRoute {
		d.Route = ""
	}

	*built = append(*built, builtSpec{spec: spec, service: b})

	for _, depSpec := range spec.Dependencies {
		dep, err := newService(depSpec, built)
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", spec.Name, err)
		}
		d.AddDependency(dep)
	}

	return b, nil
}
