package compose

import "strings"

// =============================================================================
// Document - Merged Orchestration Document
// =============================================================================

// Document is the run-wide orchestration document: a services mapping in
// first-insertion order plus the named volumes those services reference.
type Document struct {
	names    []string
	services map[string]*Fragment
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{services: make(map[string]*Fragment)}
}

// MergeFragment inserts or overwrites services[name]. The last writer for a
// name wins; its position stays where the name was first inserted.
// Unique names are enforced before injection, not here.
func (d *Document) MergeFragment(name string, fragment *Fragment) {
	if _, ok := d.services[name]; !ok {
		d.names = append(d.names, name)
	}
	d.services[name] = fragment
}

// Service returns the fragment stored for name.
func (d *Document) Service(name string) (*Fragment, bool) {
	f, ok := d.services[name]
	return f, ok
}

// ServiceNames returns service names in insertion order.
func (d *Document) ServiceNames() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// Len returns the number of services.
func (d *Document) Len() int {
	return len(d.names)
}

// NamedVolumes returns the named (non-bind) volume sources referenced by any
// service, in first-seen order. Compose requires these to be declared at the
// top level.
func (d *Document) NamedVolumes() []string {
	seen := make(map[string]bool)
	var out []string

	for _, name := range d.names {
		v, ok := d.services[name].Get("volumes")
		if !ok {
			continue
		}
		specs, ok := v.([]string)
		if !ok {
			continue
		}
		for _, spec := range specs {
			source, _, found := strings.Cut(spec, ":")
			if !found || IsBindSource(source) {
				continue
			}
			if !seen[source] {
				seen[source] = true
				out = append(out, source)
			}
		}
	}

	return out
}

// IsBindSource reports whether a volume source is a host path rather than a
// named volume.
func IsBindSource(source string) bool {
	return strings.HasPrefix(source, "./") ||
		strings.HasPrefix(source, "../") ||
		strings.HasPrefix(source, "/") ||
		strings.HasPrefix(source, "~") ||
		source == "."
}
