package service

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/artpar/stackgen/internal/core/compose"
	"github.com/artpar/stackgen/internal/core/template"
)

// =============================================================================
// Fragment Construction
// =============================================================================

// DefaultBase returns the base every fragment is merged over.
func DefaultBase() *compose.Fragment {
	base := compose.NewFragment()
	base.Set("env_file", []string{".env"})
	return base
}

// BuildFragment builds the compose entry for b.
//
// Decision table:
//   - image set:     image, volumes
//   - image unset:   build "./{name}", volumes ["./{name}:/app", declared...]
//   - command set:   command (substituted against the service attributes)
//   - environment:   environment as KEY=VALUE list, when non-empty
//   - dependencies:  depends_on names, when non-empty
//   - ports set:     ports as HOST:CONTAINER list; otherwise expose: port
//   - labels:        labels, when non-empty
//   - always:        merged over DefaultBase, service keys winning
func BuildFragment(b Behavior) (*compose.Fragment, error) {
	d := b.Describe()
	f := compose.NewFragment()

	if d.Image != "" {
		f.Set("image", d.Image)
		f.Set("volumes", append([]string{}, d.Volumes...))
	} else {
		f.Set("build", "./"+d.Name)
		volumes := append([]string{fmt.Sprintf("./%s:/app", d.Name)}, d.Volumes...)
		f.Set("volumes", volumes)
	}

	if d.Command != "" {
		cmd, err := template.Render(d.Command, Attributes(b, d.Registry.RunVars()))
		if err != nil {
			return nil, fmt.Errorf("service %s command: %w", d.Name, err)
		}
		f.Set("command", cmd)
	}

	if env := b.Environment(); env.Len() > 0 {
		f.Set("environment", env.Pairs())
	}

	if deps := b.Dependencies(); len(deps) > 0 {
		names := make([]string, 0, len(deps))
		for _, dep := range deps {
			names = append(names, dep.Describe().Name)
		}
		f.Set("depends_on", names)
	}

	if d.Ports != nil {
		ports := make([]string, 0, len(d.Ports))
		for _, p := range d.Ports {
			ports = append(ports, p.String())
		}
		f.Set("ports", ports)
	} else {
		f.Set("expose", d.Port)
	}

	if len(d.Labels) > 0 {
		labels := make(map[string]string, len(d.Labels))
		for k, v := range d.Labels {
			labels[k] = v
		}
		f.Set("labels", labels)
	}

	return compose.Merge(DefaultBase(), f), nil
}

// =============================================================================
// Attributes
// =============================================================================

// described is anything that exposes a Descriptor, including *Descriptor.
type described interface {
	Describe() *Descriptor
}

// Attributes returns the substitution attributes of s: its own fields plus
// the run-level vars. Own fields win over vars of the same name.
func Attributes(s described, vars map[string]string) map[string]string {
	d := s.Describe()
	attrs := make(map[string]string, len(vars)+6)
	for k, v := range vars {
		attrs[k] = v
	}
	attrs["name"] = d.Name
	attrs["port"] = strconv.Itoa(d.Port)
	attrs["kind"] = string(d.Kind)
	attrs["command"] = d.Command
	attrs["image"] = d.Image
	attrs["route"] = d.Route
	return attrs
}

// sortedPaths returns the keys of files in lexical order.
func sortedPaths(files map[string]string) []string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
