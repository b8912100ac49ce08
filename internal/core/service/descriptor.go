// Package service models the deployable services of a generation run: their
// static identity, the fragment each contributes to the compose document, and
// the files each materializes.
package service

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// Kinds and Capabilities
// =============================================================================

// Kind names a service variant.
type Kind string

const (
	KindGeneric       Kind = "service"
	KindFastAPI       Kind = "fastapi"
	KindDjango        Kind = "django"
	KindRestFramework Kind = "rest_framework"
	KindVue           Kind = "vue"
	KindPostgres      Kind = "postgres"
	KindRedis         Kind = "redis"
	KindNginx         Kind = "nginx"
	KindTraefik       Kind = "traefik"
)

// Capability is a role peers can look a service up by.
type Capability string

const (
	CapAPI          Capability = "api"
	CapFrontend     Capability = "frontend"
	CapDatastore    Capability = "datastore"
	CapReverseProxy Capability = "reverse-proxy"
)

// =============================================================================
// PortMapping
// =============================================================================

// PortMapping publishes a container port on the host.
type PortMapping struct {
	Host      int
	Container int
}

// String formats the mapping as HOST:CONTAINER.
func (p PortMapping) String() string {
	return fmt.Sprintf("%d:%d", p.Host, p.Container)
}

// ParsePortMapping parses HOST:CONTAINER.
//
// Example:
//
//	ParsePortMapping("8080:80") // returns PortMapping{Host: 8080, Container: 80}
func ParsePortMapping(s string) (PortMapping, error) {
	host, container, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return PortMapping{}, fmt.Errorf("%w: %q is not HOST:CONTAINER", ErrInvalidSpec, s)
	}
	h, err := strconv.Atoi(host)
	if err != nil {
		return PortMapping{}, fmt.Errorf("%w: host port %q", ErrInvalidSpec, host)
	}
	c, err := strconv.Atoi(container)
	if err != nil {
		return PortMapping{}, fmt.Errorf("%w: container port %q", ErrInvalidSpec, container)
	}
	return PortMapping{Host: h, Container: c}, nil
}

// =============================================================================
// Descriptor
// =============================================================================

// Descriptor holds the static identity and configuration of one service.
// Every container field is owned by its instance; constructors never share
// slices or maps between descriptors.
type Descriptor struct {
	Name    string
	Kind    Kind
	Port    int
	Command string // substitution template
	Image   string // set: image-backed; empty: built from ./<Name>

	// Volumes may be extended by peers through mutations before the
	// fragment is built.
	Volumes []string

	// Ports publishes on the host; nil means expose only.
	Ports []PortMapping

	// Files maps a relative path template to a content template.
	Files map[string]string

	// StaticFiles are written as-is, without substitution.
	StaticFiles map[string]string

	Labels map[string]string

	// Route is the HTTP path prefix under which a reverse proxy should
	// publish this service. Empty means not routed.
	Route string

	Capabilities []Capability
	Lifecycle    *Lifecycle

	// Registry and EnvNames are attached by the driver once per run.
	Registry *Registry
	EnvNames []string

	deps []Behavior
}

// NewDescriptor creates a descriptor with per-instance empty containers.
func NewDescriptor(kind Kind, name string, port int) *Descriptor {
	return &Descriptor{
		Name:        name,
		Kind:        kind,
		Port:        port,
		Volumes:     []string{},
		Files:       make(map[string]string),
		StaticFiles: make(map[string]string),
		Labels:      make(map[string]string),
	}
}

// Describe returns the descriptor itself; it lets variants that embed a
// Descriptor satisfy Behavior.
func (d *Descriptor) Describe() *Descriptor {
	return d
}

// HasCapability reports whether the service offers capability c.
func (d *Descriptor) HasCapability(c Capability) bool {
	for _, have := range d.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// AddDependency declares a dependency injected after this service.
func (d *Descriptor) AddDependency(b Behavior) {
	d.deps = append(d.deps, b)
}

// EnvVars is the default: no contribution to the env template.
func (d *Descriptor) EnvVars() *EnvMap {
	return nil
}

// Environment is the default: no container environment block.
func (d *Descriptor) Environment() *EnvMap {
	return nil
}

// Dependencies returns the declared dependencies in order.
func (d *Descriptor) Dependencies() []Behavior {
	out := make([]Behavior, len(d.deps))
	copy(out, d.deps)
	return out
}
