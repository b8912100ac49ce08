package traefik

import (
	"fmt"
	"strings"
)

// =============================================================================
// Traefik Label Generation Functions
// =============================================================================

// CertResolver is the certificate resolver the traefik service configures
// when TLS is enabled.
const CertResolver = "letsencrypt"

// RouterName returns the router/service name for a routed service:
// {project}-{service}, or the service name alone without a project.
func RouterName(project, service string) string {
	if project == "" {
		return service
	}
	return fmt.Sprintf("%s-%s", project, service)
}

// Rule builds the router rule matching hostname and path prefix.
//
// Example:
//
//	Rule("shop.example.com", "/api/") // "Host(`shop.example.com`) && PathPrefix(`/api/`)"
//	Rule("", "")                      // "PathPrefix(`/`)"
func Rule(hostname, prefix string) string {
	if prefix == "" {
		prefix = "/"
	}
	var parts []string
	if hostname != "" {
		parts = append(parts, fmt.Sprintf("Host(`%s`)", hostname))
	}
	if prefix != "/" || hostname == "" {
		parts = append(parts, fmt.Sprintf("PathPrefix(`%s`)", prefix))
	}
	return strings.Join(parts, " && ")
}

// GenerateLabels generates Traefik reverse proxy labels for a service.
//
// The generated labels configure Traefik to route HTTP(S) traffic to the container:
//   - Enables Traefik for the container
//   - Creates a router with the Host/PathPrefix rule
//   - Strips a non-root path prefix before forwarding
//   - Configures the service loadbalancer port
//   - If TLS is enabled, creates an additional secure router
//
// Example (HTTP only):
//
//	labels := GenerateLabels(LabelParams{
//	    Project:     "shop",
//	    ServiceName: "front",
//	    Port:        8081,
//	})
//	// Returns:
//	// {
//	//   "traefik.enable": "true",
//	//   "traefik.http.routers.shop-front.rule": "PathPrefix(`/`)",
//	//   "traefik.http.routers.shop-front.entrypoints": "web",
//	//   "traefik.http.routers.shop-front.service": "shop-front",
//	//   "traefik.http.services.shop-front.loadbalancer.server.port": "8081",
//	// }
func GenerateLabels(params LabelParams) map[string]string {
	name := RouterName(params.Project, params.ServiceName)
	rule := Rule(params.Hostname, params.PathPrefix)

	labels := map[string]string{
		"traefik.enable": "true",

		// HTTP router
		fmt.Sprintf("traefik.http.routers.%s.rule", name):        rule,
		fmt.Sprintf("traefik.http.routers.%s.entrypoints", name): "web",
		fmt.Sprintf("traefik.http.routers.%s.service", name):     name,

		// Service (loadbalancer port)
		fmt.Sprintf("traefik.http.services.%s.loadbalancer.server.port", name): fmt.Sprintf("%d", params.Port),
	}

	var middleware string
	if params.PathPrefix != "" && params.PathPrefix != "/" {
		middleware = name + "-strip"
		labels[fmt.Sprintf("traefik.http.middlewares.%s.stripprefix.prefixes", middleware)] = strings.TrimSuffix(params.PathPrefix, "/")
		labels[fmt.Sprintf("traefik.http.routers.%s.middlewares", name)] = middleware
	}

	if params.EnableTLS {
		secureName := name + "-secure"
		labels[fmt.Sprintf("traefik.http.routers.%s.rule", secureName)] = rule
		labels[fmt.Sprintf("traefik.http.routers.%s.entrypoints", secureName)] = "websecure"
		labels[fmt.Sprintf("traefik.http.routers.%s.service", secureName)] = name
		labels[fmt.Sprintf("traefik.http.routers.%s.tls", secureName)] = "true"
		labels[fmt.Sprintf("traefik.http.routers.%s.tls.certresolver", secureName)] = CertResolver
		if middleware != "" {
			labels[fmt.Sprintf("traefik.http.routers.%s.middlewares", secureName)] = middleware
		}
	}

	return labels
}
