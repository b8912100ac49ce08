package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/artpar/stackgen/internal/core/template"
	"github.com/mattn/go-shellwords"
)

// =============================================================================
// Lifecycle - External Tool Steps
// =============================================================================

// Lifecycle is an optional component of a service: external tool invocations
// that run inside the service's directory after its files are written.
// Each step is a command-line template rendered against the service's
// attributes and split with shell quoting rules.
type Lifecycle struct {
	Steps []string
}

// PoetryLifecycle adds packages with poetry and exports a requirements.txt.
//
// Example:
//
//	PoetryLifecycle("fastapi[standard]").Steps
//	// ["poetry add 'fastapi[standard]'",
//	//  "poetry export -f requirements.txt --output requirements.txt"]
func PoetryLifecycle(packages ...string) *Lifecycle {
	quoted := make([]string, 0, len(packages))
	for _, p := range packages {
		quoted = append(quoted, shellQuote(p))
	}
	return &Lifecycle{Steps: []string{
		"poetry add " + strings.Join(quoted, " "),
		"poetry export -f requirements.txt --output requirements.txt",
	}}
}

// Then appends further steps.
func (l *Lifecycle) Then(steps ...string) *Lifecycle {
	l.Steps = append(l.Steps, steps...)
	return l
}

// Commands renders and splits every step.
func (l *Lifecycle) Commands(attrs map[string]string) ([][]string, error) {
	out := make([][]string, 0, len(l.Steps))
	for _, step := range l.Steps {
		line, err := template.Render(step, attrs)
		if err != nil {
			return nil, fmt.Errorf("lifecycle step %q: %w", step, err)
		}
		argv, err := shellwords.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("lifecycle step %q: %w", line, err)
		}
		if len(argv) == 0 {
			continue
		}
		out = append(out, argv)
	}
	return out, nil
}

// Run executes the steps in order for the named service. The first failing
// step stops the lifecycle.
func (l *Lifecycle) Run(ctx context.Context, service string, attrs map[string]string, ws Workspace) error {
	commands, err := l.Commands(attrs)
	if err != nil {
		return fmt.Errorf("service %s: %w", service, err)
	}
	for _, argv := range commands {
		if err := ws.Run(ctx, service, argv); err != nil {
			return err
		}
	}
	return nil
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`[]*?{}()<>|&;#~") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
