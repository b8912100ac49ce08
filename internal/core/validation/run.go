package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artpar/stackgen/internal/core/service"
	"github.com/distribution/reference"
	"github.com/docker/go-connections/nat"
)

// =============================================================================
// Port and Image Validation
// =============================================================================

// ValidatePort checks that port is a usable TCP port.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w: %d is outside 1-65535", ErrInvalidPort, port)
	}
	return nil
}

// ValidatePortMapping checks both sides of a publish entry and that docker
// accepts its HOST:CONTAINER form.
func ValidatePortMapping(pm service.PortMapping) error {
	if err := ValidatePort(pm.Host); err != nil {
		return fmt.Errorf("host side: %w", err)
	}
	if err := ValidatePort(pm.Container); err != nil {
		return fmt.Errorf("container side: %w", err)
	}
	if _, err := nat.ParsePortSpec(pm.String()); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPort, pm, err)
	}
	return nil
}

// ValidateImage checks that image is a valid docker reference.
//
// Example:
//
//	ValidateImage("redis:7")             // nil
//	ValidateImage("ghcr.io/acme/api:1")  // nil
//	ValidateImage("Redis:latest")        // ErrInvalidImage
func ValidateImage(image string) error {
	if _, err := reference.ParseNormalizedNamed(image); err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidImage, image, err)
	}
	return nil
}

// ValidateRoute checks that route is an absolute path prefix.
func ValidateRoute(route string) error {
	if !strings.HasPrefix(route, "/") {
		return fmt.Errorf("%w: %q must start with /", ErrInvalidRoute, route)
	}
	if strings.ContainsAny(route, " \t\n{};") {
		return fmt.Errorf("%w: %q contains whitespace or nginx syntax", ErrInvalidRoute, route)
	}
	return nil
}

// =============================================================================
// Run Validation
// =============================================================================

// ValidateRun checks every service of a planned run and reports all problems
// at once. Name uniqueness is settled by planning; this checks the rest.
//
// Per service: name, port (unless host ports are published explicitly),
// each published port, image when set, route when set.
// Across services: no host port published twice and, when the run has a
// reverse proxy, no route claimed twice.
func ValidateRun(services []service.Behavior) error {
	var errs []error
	hostPorts := make(map[int]string)
	routes := make(map[string]string)

	proxied := false
	for _, s := range services {
		if s.Describe().HasCapability(service.CapReverseProxy) {
			proxied = true
		}
	}

	for _, s := range services {
		d := s.Describe()

		if err := ValidateName(d.Name); err != nil {
			errs = append(errs, NewValidationError(d.Name, "name", err.Error(), err))
		}

		if d.Ports == nil {
			if err := ValidatePort(d.Port); err != nil {
				errs = append(errs, NewValidationError(d.Name, "port", err.Error(), err))
			}
		}
		for _, pm := range d.Ports {
			if err := ValidatePortMapping(pm); err != nil {
				errs = append(errs, NewValidationError(d.Name, "ports", err.Error(), err))
				continue
			}
			if owner, ok := hostPorts[pm.Host]; ok {
				errs = append(errs, NewValidationError(d.Name, "ports",
					fmt.Sprintf("host port %d is also published by %s", pm.Host, owner), ErrPortConflict))
				continue
			}
			hostPorts[pm.Host] = d.Name
		}

		if d.Image != "" {
			if err := ValidateImage(d.Image); err != nil {
				errs = append(errs, NewValidationError(d.Name, "image", err.Error(), err))
			}
		}

		if d.Route != "" {
			if err := ValidateRoute(d.Route); err != nil {
				errs = append(errs, NewValidationError(d.Name, "route", err.Error(), err))
			} else if owner, ok := routes[d.Route]; ok && proxied {
				errs = append(errs, NewValidationError(d.Name, "route",
					fmt.Sprintf("route %s is also claimed by %s", d.Route, owner), ErrRouteConflict))
			} else {
				routes[d.Route] = d.Name
			}
		}
	}

	return errors.Join(errs...)
}
