package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/artpar/stackgen/internal/core/compose"
	"github.com/artpar/stackgen/internal/core/template"
	"github.com/artpar/stackgen/internal/core/traefik"
)

// =============================================================================
// Nginx
// =============================================================================

// Nginx is a reverse proxy configured through one endpoint file per routed
// service, included by its nginx.conf.
type Nginx struct {
	Descriptor
}

// NewNginx creates an nginx reverse proxy publishing ports 80 and 443.
func NewNginx(name string, port int) *Nginx {
	port = withDefaultPort(KindNginx, port)
	n := &Nginx{Descriptor: *NewDescriptor(KindNginx, name, port)}
	n.Image = "nginx:latest"
	n.Capabilities = []Capability{CapReverseProxy}
	n.Ports = []PortMapping{{Host: 80, Container: port}, {Host: 443, Container: 443}}
	n.Volumes = append(n.Volumes, fmt.Sprintf("./%s/nginx.conf:/etc/nginx/nginx.conf:ro", name))
	n.Files["nginx.conf"] = mustTemplate("nginx.conf")
	return n
}

// RouteTo adds an endpoint file for target to the proxy's own directory and
// mounts it where nginx.conf includes it.
func (n *Nginx) RouteTo(target *Descriptor) (Mutation, error) {
	content, err := template.Render(mustTemplate("nginx.endpoint.conf"), Attributes(target, n.Registry.RunVars()))
	if err != nil {
		return Mutation{}, err
	}
	file := fmt.Sprintf("endpoints/%s.conf", target.Name)
	return Mutation{
		Source:      target.Name,
		Target:      n.Name,
		Volumes:     []string{fmt.Sprintf("./%s/%s:/etc/nginx/%s:ro", n.Name, file, file)},
		StaticFiles: map[string]string{file: content},
	}, nil
}

// BuildFragment implements Behavior.
func (n *Nginx) BuildFragment() (*compose.Fragment, error) {
	return BuildFragment(n)
}

// MaterializeFiles implements Behavior.
func (n *Nginx) MaterializeFiles(ctx context.Context, ws Workspace) error {
	return MaterializeFiles(ctx, n, ws)
}

// =============================================================================
// Traefik
// =============================================================================

// Traefik is a reverse proxy that discovers routes from container labels.
// Routed services receive their labels through mutations.
type Traefik struct {
	Descriptor

	Hostname string
	TLS      bool
}

var traefikFlags = []string{
	"--api.insecure=true",
	"--providers.docker=true",
	"--providers.docker.exposedbydefault=false",
	"--entrypoints.web.address=:{port}",
}

// NewTraefik creates a Traefik proxy with the docker provider. The dashboard
// is published on 8080.
func NewTraefik(name string, port int) *Traefik {
	port = withDefaultPort(KindTraefik, port)
	t := &Traefik{Descriptor: *NewDescriptor(KindTraefik, name, port)}
	t.Image = "traefik:v3.1"
	t.Capabilities = []Capability{CapReverseProxy}
	t.Command = strings.Join(traefikFlags, " ")
	t.Ports = []PortMapping{{Host: 80, Container: port}, {Host: 8080, Container: 8080}}
	t.Volumes = append(t.Volumes, "/var/run/docker.sock:/var/run/docker.sock:ro")
	return t
}

// EnableTLS adds a websecure entrypoint on 443 with an ACME resolver whose
// state lives in a named volume.
func (t *Traefik) EnableTLS() *Traefik {
	if t.TLS {
		return t
	}
	t.TLS = true
	t.Command = strings.Join(append(append([]string{}, traefikFlags...),
		"--entrypoints.websecure.address=:443",
		fmt.Sprintf("--certificatesresolvers.%s.acme.tlschallenge=true", traefik.CertResolver),
		fmt.Sprintf("--certificatesresolvers.%s.acme.storage=/letsencrypt/acme.json", traefik.CertResolver),
	), " ")
	t.Ports = append(t.Ports, PortMapping{Host: 443, Container: 443})
	t.Volumes = append(t.Volumes, fmt.Sprintf("%s_letsencrypt:/letsencrypt", t.Name))
	return t
}

// RouteTo labels target so that this proxy routes its Route to it.
func (t *Traefik) RouteTo(target *Descriptor) (Mutation, error) {
	project := ""
	if t.Registry != nil {
		project = t.Registry.Project
	}
	return Mutation{
		Source: target.Name,
		Target: target.Name,
		Labels: traefik.GenerateLabels(traefik.LabelParams{
			Project:     project,
			ServiceName: target.Name,
			Hostname:    t.Hostname,
			PathPrefix:  target.Route,
			Port:        target.Port,
			EnableTLS:   t.TLS,
		}),
	}, nil
}

// BuildFragment implements Behavior.
func (t *Traefik) BuildFragment() (*compose.Fragment, error) {
	return BuildFragment(t)
}

// MaterializeFiles implements Behavior.
func (t *Traefik) MaterializeFiles(ctx context.Context, ws Workspace) error {
	return MaterializeFiles(ctx, t, ws)
}
