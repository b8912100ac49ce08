package service

import (
	"context"

	"github.com/artpar/stackgen/internal/core/compose"
)

// EnvMap is the ordered KEY=VALUE mapping shared with the compose package.
type EnvMap = compose.EnvMap

// =============================================================================
// Behavior - Service Capability Interface
// =============================================================================

// Behavior is implemented by every service variant.
//
// Variants embed a Descriptor for identity and the default EnvVars,
// Environment and Dependencies, and implement BuildFragment and
// MaterializeFiles themselves (usually by calling the package-level
// BuildFragment and MaterializeFiles with the variant as argument, so that
// the variant's overrides are the ones consulted).
type Behavior interface {
	Describe() *Descriptor

	// BuildFragment produces this service's entry in the compose document.
	BuildFragment() (*compose.Fragment, error)

	// EnvVars contributes static pairs to the shared env template.
	EnvVars() *EnvMap

	// Environment is the container's own environment block.
	Environment() *EnvMap

	// Dependencies are injected after this service, depth-first.
	Dependencies() []Behavior

	// MaterializeFiles writes the service's files into its own directory.
	MaterializeFiles(ctx context.Context, ws Workspace) error
}

// Contributor is implemented by services that register mutations on peers
// before any fragment is built.
type Contributor interface {
	Contributions() ([]Mutation, error)
}

// Router is implemented by reverse proxies. RouteTo returns the mutation that
// publishes target through the proxy.
type Router interface {
	RouteTo(target *Descriptor) (Mutation, error)
}

// ConnectionProvider is implemented by datastores. The returned pairs are
// added to the environment of services that depend on the datastore.
type ConnectionProvider interface {
	ConnectionEnv() *EnvMap
}

// =============================================================================
// Workspace - Where Services Materialize
// =============================================================================

// File is one rendered file, relative to its service's directory.
type File struct {
	Path    string
	Content string
}

// Workspace is the run-level side of materialization, implemented by the
// generator on top of the filesystem and the external toolchain.
type Workspace interface {
	// WriteFiles writes files inside the directory of the named service.
	WriteFiles(service string, files []File) error

	// Run executes an external tool inside the directory of the named service.
	Run(ctx context.Context, service string, argv []string) error

	// Vars returns run-level substitution values, e.g. python_version.
	Vars() map[string]string
}
