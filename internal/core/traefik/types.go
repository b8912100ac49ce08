package traefik

// =============================================================================
// Traefik Label Generation Types
// =============================================================================

// LabelParams contains parameters for generating Traefik labels.
type LabelParams struct {
	// Project is the compose project name; it keeps router names unique
	// when several stacks share one Traefik.
	Project string

	// ServiceName is the name of the routed service (e.g., "backend").
	ServiceName string

	// Hostname restricts routing to one host. Empty matches any host.
	Hostname string

	// PathPrefix routes a path subtree (e.g., "/backend/"). Empty or "/"
	// routes everything. A non-root prefix is stripped before forwarding.
	PathPrefix string

	// Port is the container port to route traffic to.
	Port int

	// EnableTLS enables HTTPS routing with TLS termination.
	EnableTLS bool
}
