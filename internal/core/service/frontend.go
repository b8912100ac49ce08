package service

import (
	"context"

	"github.com/artpar/stackgen/internal/core/compose"
)

// =============================================================================
// Frontend - vue
// =============================================================================

// Frontend is a Vue single-page app scaffolded with the Vue CLI.
type Frontend struct {
	Descriptor
}

// NewVue creates a Vue frontend. Requires yarn on the host.
func NewVue(name string, port int) *Frontend {
	f := &Frontend{Descriptor: *NewDescriptor(KindVue, name, withDefaultPort(KindVue, port))}
	f.Capabilities = []Capability{CapFrontend}
	f.Route = "/"
	f.Command = "yarn serve -- --port {port}"
	f.Files[".dockerignore"] = mustTemplate("vue.ignore")
	f.Files[".gitignore"] = mustTemplate("vue.ignore")
	f.Files["Dockerfile"] = mustTemplate("vue.Dockerfile")
	f.Lifecycle = &Lifecycle{Steps: []string{
		"yarn global add @vue/cli",
		"vue create --default {name}",
	}}
	return f
}

// Environment points the frontend at the datastores it depends on.
func (f *Frontend) Environment() *EnvMap {
	return connectionEnv(f.Dependencies())
}

// BuildFragment implements Behavior.
func (f *Frontend) BuildFragment() (*compose.Fragment, error) {
	return BuildFragment(f)
}

// MaterializeFiles implements Behavior.
func (f *Frontend) MaterializeFiles(ctx context.Context, ws Workspace) error {
	return MaterializeFiles(ctx, f, ws)
}
