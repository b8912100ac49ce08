package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/artpar/stackgen/internal/core/compose"
)

// =============================================================================
// Datastore - postgres, redis
// =============================================================================

// Datastore is an image-backed stateful service. Services that depend on it
// receive its connection pairs in their environment.
type Datastore struct {
	Descriptor

	env  *EnvMap
	conn *EnvMap
}

// NewPostgres creates a postgres service with a named data volume and the
// credentials contributed to the env template.
func NewPostgres(name string, port int) *Datastore {
	port = withDefaultPort(KindPostgres, port)
	s := newDatastore(KindPostgres, name, port, "postgres:15.1")
	s.Volumes = append(s.Volumes, fmt.Sprintf("%s_data:/var/lib/postgresql/data/", name))
	s.env = compose.NewEnvMap(
		"POSTGRES_USER", "postgres",
		"POSTGRES_PASSWORD", "postgres",
		"POSTGRES_DB", name,
		"POSTGRES_PORT", strconv.Itoa(port),
	)
	s.conn = compose.NewEnvMap(
		"POSTGRES_HOST", name,
		"POSTGRES_PORT", strconv.Itoa(port),
	)
	return s
}

// NewRedis creates a redis service.
func NewRedis(name string, port int) *Datastore {
	port = withDefaultPort(KindRedis, port)
	s := newDatastore(KindRedis, name, port, "redis:7")
	s.conn = compose.NewEnvMap(
		"REDIS_URL", fmt.Sprintf("redis://%s:%d/0", name, port),
	)
	return s
}

func newDatastore(kind Kind, name string, port int, image string) *Datastore {
	s := &Datastore{Descriptor: *NewDescriptor(kind, name, port)}
	s.Image = image
	s.Capabilities = []Capability{CapDatastore}
	return s
}

// EnvVars returns a copy of the pairs contributed to the env template.
func (s *Datastore) EnvVars() *EnvMap {
	env := compose.NewEnvMap()
	env.Merge(s.env)
	return env
}

// ConnectionEnv returns the pairs a dependent needs to reach the datastore.
func (s *Datastore) ConnectionEnv() *EnvMap {
	env := compose.NewEnvMap()
	env.Merge(s.conn)
	return env
}

// BuildFragment implements Behavior.
func (s *Datastore) BuildFragment() (*compose.Fragment, error) {
	return BuildFragment(s)
}

// MaterializeFiles implements Behavior.
func (s *Datastore) MaterializeFiles(ctx context.Context, ws Workspace) error {
	return MaterializeFiles(ctx, s, ws)
}

// =============================================================================
// Generic
// =============================================================================

// Generic is a plain service with no files of its own.
type Generic struct {
	Descriptor
}

// NewGeneric creates a generic service. An empty image builds from ./<name>.
func NewGeneric(name string, port int, image string) *Generic {
	g := &Generic{Descriptor: *NewDescriptor(KindGeneric, name, port)}
	g.Image = image
	return g
}

// BuildFragment implements Behavior.
func (g *Generic) BuildFragment() (*compose.Fragment, error) {
	return BuildFragment(g)
}

// MaterializeFiles implements Behavior.
func (g *Generic) MaterializeFiles(ctx context.Context, ws Workspace) error {
	return MaterializeFiles(ctx, g, ws)
}
