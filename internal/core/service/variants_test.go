package service

import (
	"context"
	"errors"
	"testing"

	"github.com/artpar/stackgen/internal/core/template"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// APIBackend Tests
// =============================================================================

func TestFastAPI_MaterializeFiles(t *testing.T) {
	ws := newFakeWorkspace()
	api := NewFastAPI("backend", 8080)

	require.NoError(t, api.MaterializeFiles(context.Background(), ws))

	var paths []string
	for _, f := range ws.written["backend"] {
		paths = append(paths, f.Path)
	}
	assert.Equal(t, []string{".dockerignore", ".gitignore", "Dockerfile", "main.py", "pyproject.toml"}, paths)

	dockerfile, _ := ws.file("backend", "Dockerfile")
	assert.Contains(t, dockerfile, "FROM python:3.12")
	assert.Contains(t, dockerfile, `"--port", "8080"`)

	mainPy, _ := ws.file("backend", "main.py")
	assert.Contains(t, mainPy, `return {"message": "Hello World", "service": "backend"}`)

	pyproject, _ := ws.file("backend", "pyproject.toml")
	assert.Contains(t, pyproject, `name = "backend"`)
	assert.Contains(t, pyproject, `python = "^3.12"`)

	assert.Equal(t, []string{
		"backend: poetry add fastapi[standard]",
		"backend: poetry export -f requirements.txt --output requirements.txt",
	}, ws.runs)
}

func TestFastAPI_MissingRunVarWritesNothing(t *testing.T) {
	ws := newFakeWorkspace()
	ws.vars = map[string]string{}

	err := NewFastAPI("backend", 8080).MaterializeFiles(context.Background(), ws)

	var missing *template.MissingKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "python_version", missing.Key)
	assert.Empty(t, ws.written)
	assert.Empty(t, ws.runs)
}

func TestFastAPI_WithPackages(t *testing.T) {
	api := NewFastAPI("backend", 0).WithPackages("sqlalchemy", "psycopg[binary]")

	assert.Equal(t, 8080, api.Port)
	assert.Equal(t, "poetry add 'fastapi[standard]' sqlalchemy 'psycopg[binary]'", api.Lifecycle.Steps[0])
}

func TestDjango_Lifecycle(t *testing.T) {
	ws := newFakeWorkspace()
	require.NoError(t, NewDjango("api", 0).MaterializeFiles(context.Background(), ws))

	assert.Equal(t, []string{
		"api: poetry add django",
		"api: poetry export -f requirements.txt --output requirements.txt",
		"api: poetry run django-admin startproject config .",
	}, ws.runs)

	f, err := NewDjango("api", 0).BuildFragment()
	require.NoError(t, err)
	cmd, _ := f.Get("command")
	assert.Equal(t, "python manage.py runserver 0.0.0.0:8000", cmd)
}

func TestRestFramework_Lifecycle(t *testing.T) {
	rf := NewRestFramework("api", 0)

	assert.Equal(t, KindRestFramework, rf.Kind)
	assert.Equal(t, []string{
		"poetry add django djangorestframework markdown django-filter",
		"poetry export -f requirements.txt --output requirements.txt",
		"poetry run django-admin startproject config .",
	}, rf.Lifecycle.Steps)
}

func TestLifecycle_StopsAtFirstFailure(t *testing.T) {
	ws := newFakeWorkspace()
	ws.runErr = errors.New("exit status 1")

	err := NewDjango("api", 0).MaterializeFiles(context.Background(), ws)

	require.Error(t, err)
	assert.Len(t, ws.runs, 1)
	assert.NotEmpty(t, ws.written["api"])
}

// =============================================================================
// Frontend Tests
// =============================================================================

func TestVue_MaterializeFiles(t *testing.T) {
	ws := newFakeWorkspace()
	vue := NewVue("front", 0)

	require.NoError(t, vue.MaterializeFiles(context.Background(), ws))

	assert.Equal(t, 8081, vue.Port)
	dockerfile, _ := ws.file("front", "Dockerfile")
	assert.Contains(t, dockerfile, "COPY ./front /app/")
	assert.Contains(t, dockerfile, `"-p", "8081"`)
	assert.Equal(t, []string{
		"front: yarn global add @vue/cli",
		"front: vue create --default front",
	}, ws.runs)

	f, err := vue.BuildFragment()
	require.NoError(t, err)
	cmd, _ := f.Get("command")
	assert.Equal(t, "yarn serve -- --port 8081", cmd)
}

// =============================================================================
// Datastore Tests
// =============================================================================

func TestPostgres(t *testing.T) {
	pg := NewPostgres("db", 0)

	assert.Equal(t, []string{"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "POSTGRES_PORT"}, pg.EnvVars().Keys())
	port, _ := pg.EnvVars().Get("POSTGRES_PORT")
	assert.Equal(t, "5432", port)
	dbName, _ := NewPostgres("orders", 0).EnvVars().Get("POSTGRES_DB")
	assert.Equal(t, "orders", dbName)

	f, err := pg.BuildFragment()
	require.NoError(t, err)
	image, _ := f.Get("image")
	assert.Equal(t, "postgres:15.1", image)
	volumes, _ := f.Get("volumes")
	assert.Equal(t, []string{"db_data:/var/lib/postgresql/data/"}, volumes)

	// Callers get copies.
	pg.EnvVars().Set("POSTGRES_USER", "root")
	user, _ := pg.EnvVars().Get("POSTGRES_USER")
	assert.Equal(t, "postgres", user)
}

func TestRedis(t *testing.T) {
	r := NewRedis("cache", 0)

	assert.Equal(t, 0, r.EnvVars().Len())
	url, _ := r.ConnectionEnv().Get("REDIS_URL")
	assert.Equal(t, "redis://cache:6379/0", url)
	assert.True(t, r.HasCapability(CapDatastore))
	assert.NoError(t, r.MaterializeFiles(context.Background(), newFakeWorkspace()))
}

// =============================================================================
// Reverse Proxy Tests
// =============================================================================

func TestNginx_RouteTo(t *testing.T) {
	proxy := NewNginx("proxy", 0)
	api := NewFastAPI("backend", 8080)

	m, err := proxy.RouteTo(&api.Descriptor)
	require.NoError(t, err)

	assert.Equal(t, "backend", m.Source)
	assert.Equal(t, "proxy", m.Target)
	assert.Equal(t, []string{"./proxy/endpoints/backend.conf:/etc/nginx/endpoints/backend.conf:ro"}, m.Volumes)
	conf := m.StaticFiles["endpoints/backend.conf"]
	assert.Contains(t, conf, "location /backend/ {")
	assert.Contains(t, conf, "proxy_pass http://backend:8080/;")
	assert.Contains(t, conf, "proxy_set_header Host $host;")
}

func TestNginx_Fragment(t *testing.T) {
	f, err := NewNginx("proxy", 0).BuildFragment()
	require.NoError(t, err)

	ports, _ := f.Get("ports")
	assert.Equal(t, []string{"80:80", "443:443"}, ports)
	volumes, _ := f.Get("volumes")
	assert.Equal(t, []string{"./proxy/nginx.conf:/etc/nginx/nginx.conf:ro"}, volumes)
	assert.False(t, f.Has("expose"))
}

func TestNginx_MaterializeConfig(t *testing.T) {
	ws := newFakeWorkspace()
	require.NoError(t, NewNginx("proxy", 0).MaterializeFiles(context.Background(), ws))

	conf, ok := ws.file("proxy", "nginx.conf")
	require.True(t, ok)
	assert.Contains(t, conf, "listen 80;")
	assert.Contains(t, conf, "include /etc/nginx/endpoints/*.conf;")
}

func TestTraefik_RouteTo(t *testing.T) {
	proxy := NewTraefik("proxy", 0)
	api := NewFastAPI("backend", 8080)
	proxy.Registry = NewRegistry("shop", nil, []Behavior{proxy, api})

	m, err := proxy.RouteTo(&api.Descriptor)
	require.NoError(t, err)

	assert.Equal(t, "backend", m.Target)
	assert.Equal(t, "true", m.Labels["traefik.enable"])
	assert.Equal(t, "PathPrefix(`/backend/`)", m.Labels["traefik.http.routers.shop-backend.rule"])
	assert.Equal(t, "8080", m.Labels["traefik.http.services.shop-backend.loadbalancer.server.port"])
}

func TestTraefik_EnableTLS(t *testing.T) {
	proxy := NewTraefik("proxy", 0).EnableTLS().EnableTLS()

	assert.Contains(t, proxy.Command, "--entrypoints.websecure.address=:443")
	assert.Equal(t, []PortMapping{{80, 80}, {8080, 8080}, {443, 443}}, proxy.Ports)
	assert.Equal(t, []string{
		"/var/run/docker.sock:/var/run/docker.sock:ro",
		"proxy_letsencrypt:/letsencrypt",
	}, proxy.Volumes)

	f, err := proxy.BuildFragment()
	require.NoError(t, err)
	cmd, _ := f.Get("command")
	assert.Contains(t, cmd, "--entrypoints.web.address=:80")
}
