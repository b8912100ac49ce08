// Package traefik provides pure functions for generating Traefik reverse proxy labels.
//
// A Traefik service in a generated stack discovers its routes from the labels
// of the containers it fronts. The labels are computed here and pushed onto
// routed services by the traefik service variant.
//
// # Functions
//
//   - GenerateLabels: Generate Traefik labels for HTTP/HTTPS routing
//   - Rule: Build the router rule for a hostname and path prefix
//   - RouterName: Build the router/service name for a routed service
//
// # Usage
//
//	labels := traefik.GenerateLabels(traefik.LabelParams{
//	    Project:     "shop",
//	    ServiceName: "backend",
//	    PathPrefix:  "/backend/",
//	    Port:        8080,
//	})
//	for k, v := range labels {
//	    descriptor.Labels[k] = v
//	}
package traefik
