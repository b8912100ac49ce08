package service

import (
	"context"

	"github.com/artpar/stackgen/internal/core/compose"
)

// =============================================================================
// APIBackend - fastapi, django, rest_framework
// =============================================================================

const startDjangoProject = "poetry run django-admin startproject config ."

// APIBackend is a Python API service built from source and managed by poetry.
type APIBackend struct {
	Descriptor

	packages   []string
	extraSteps []string
}

// NewFastAPI creates a FastAPI backend served by uvicorn with reload.
func NewFastAPI(name string, port int) *APIBackend {
	b := newAPIBackend(KindFastAPI, name, port, "fastapi[standard]")
	b.Command = "uvicorn main:app --reload --host 0.0.0.0 --port {port} --proxy-headers"
	b.Files[".dockerignore"] = mustTemplate("python.ignore")
	b.Files[".gitignore"] = mustTemplate("python.ignore")
	b.Files["Dockerfile"] = mustTemplate("fastapi.Dockerfile")
	b.Files["main.py"] = mustTemplate("fastapi.main.py")
	b.Files["pyproject.toml"] = mustTemplate("pyproject.toml")
	return b
}

// NewDjango creates a Django backend. Requires poetry on the host.
func NewDjango(name string, port int) *APIBackend {
	b := newAPIBackend(KindDjango, name, port, "django")
	b.extraSteps = []string{startDjangoProject}
	b.rebuildLifecycle()
	b.Command = "python manage.py runserver 0.0.0.0:{port}"
	b.Files[".dockerignore"] = mustTemplate("python.ignore")
	b.Files[".gitignore"] = mustTemplate("python.ignore")
	b.Files["Dockerfile"] = mustTemplate("django.Dockerfile")
	b.Files["pyproject.toml"] = mustTemplate("pyproject.toml")
	return b
}

// NewRestFramework creates a Django REST framework backend.
func NewRestFramework(name string, port int) *APIBackend {
	b := NewDjango(name, port)
	b.Kind = KindRestFramework
	b.packages = []string{"django", "djangorestframework", "markdown", "django-filter"}
	b.rebuildLifecycle()
	return b
}

func newAPIBackend(kind Kind, name string, port int, packages ...string) *APIBackend {
	b := &APIBackend{
		Descriptor: *NewDescriptor(kind, name, withDefaultPort(kind, port)),
		packages:   append([]string{}, packages...),
	}
	b.Capabilities = []Capability{CapAPI}
	b.Route = "/" + name + "/"
	b.rebuildLifecycle()
	return b
}

// WithPackages adds packages to the poetry install.
func (b *APIBackend) WithPackages(packages ...string) *APIBackend {
	b.packages = append(b.packages, packages...)
	b.rebuildLifecycle()
	return b
}

func (b *APIBackend) rebuildLifecycle() {
	b.Lifecycle = PoetryLifecycle(b.packages...).Then(b.extraSteps...)
}

// Environment points the backend at the datastores it depends on.
func (b *APIBackend) Environment() *EnvMap {
	return connectionEnv(b.Dependencies())
}

// BuildFragment implements Behavior.
func (b *APIBackend) BuildFragment() (*compose.Fragment, error) {
	return BuildFragment(b)
}

// MaterializeFiles implements Behavior.
func (b *APIBackend) MaterializeFiles(ctx context.Context, ws Workspace) error {
	return MaterializeFiles(ctx, b, ws)
}

// connectionEnv merges the connection pairs of every datastore in deps.
func connectionEnv(deps []Behavior) *EnvMap {
	env := compose.NewEnvMap()
	for _, dep := range deps {
		if cp, ok := dep.(ConnectionProvider); ok {
			env.Merge(cp.ConnectionEnv())
		}
	}
	return env
}
