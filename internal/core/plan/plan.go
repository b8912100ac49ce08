// Package plan computes the injection order of a generation run.
//
// Services are visited depth-first in pre-order starting from the top-level
// list: a service comes before its dependencies, and dependencies come in
// declaration order. Planning happens before anything is written, so cycles
// and name collisions abort a run with no output.
package plan

import (
	"github.com/artpar/stackgen/internal/core/service"
)

// =============================================================================
// Plan Types
// =============================================================================

// Step is one service in injection order.
type Step struct {
	Service service.Behavior

	// Parent is the name of the service whose dependency list reached this
	// one first; empty for top-level services.
	Parent string
	Depth  int
}

// Name returns the step's service name.
func (s Step) Name() string {
	return s.Service.Describe().Name
}

// Plan is the ordered list of every service reached from the top level.
type Plan struct {
	Steps []Step
}

// Services returns the planned services in order.
func (p *Plan) Services() []service.Behavior {
	out := make([]service.Behavior, 0, len(p.Steps))
	for _, s := range p.Steps {
		out = append(out, s.Service)
	}
	return out
}

// Names returns the planned service names in order.
func (p *Plan) Names() []string {
	out := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		out = append(out, s.Name())
	}
	return out
}

// =============================================================================
// Planning
// =============================================================================

// Build walks top and its transitive dependencies depth-first in pre-order.
//
// A service instance reached more than once is planned once, at its first
// position. A name reached again while it is still on the current path is a
// cycle, even when Dependencies built a fresh instance for it. Two distinct
// instances with the same name elsewhere are a duplicate.
//
// Example:
//
//	// S1 depends on S2, S2 depends on S3
//	p, _ := Build([]service.Behavior{s1})
//	p.Names() // ["S1", "S2", "S3"]
func Build(top []service.Behavior) (*Plan, error) {
	w := &walker{
		planned: make(map[service.Behavior]bool),
		onPath:  make(map[string]int),
		byName:  make(map[string]claim),
	}
	for _, s := range top {
		if err := w.visit(s, "", 0); err != nil {
			return nil, err
		}
	}
	return &Plan{Steps: w.steps}, nil
}

type claim struct {
	service service.Behavior
	parent  string
}

type walker struct {
	steps   []Step
	planned map[service.Behavior]bool
	onPath  map[string]int // name -> index in path
	path    []string
	byName  map[string]claim
}

func (w *walker) visit(s service.Behavior, parent string, depth int) error {
	if s == nil {
		return nil
	}
	name := s.Describe().Name

	// Names are unique per run, so a name already on the path closes a
	// cycle whether or not it is the same instance.
	if i, ok := w.onPath[name]; ok {
		cycle := append(append([]string{}, w.path[i:]...), name)
		return &CycleError{Path: cycle}
	}
	if w.planned[s] {
		return nil
	}
	if c, ok := w.byName[name]; ok && c.service != s {
		return &DuplicateNameError{Name: name, FirstParent: c.parent, SecondParent: parent}
	}

	w.planned[s] = true
	w.byName[name] = claim{service: s, parent: parent}

	deps := s.Dependencies()
	w.steps = append(w.steps, Step{Service: s, Parent: parent, Depth: depth})

	w.onPath[name] = len(w.path)
	w.path = append(w.path, name)
	for _, dep := range deps {
		if err := w.visit(dep, name, depth+1); err != nil {
			return err
		}
	}
	w.path = w.path[:len(w.path)-1]
	delete(w.onPath, name)

	return nil
}
