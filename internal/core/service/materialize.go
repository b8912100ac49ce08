package service

import (
	"context"
	"fmt"

	"github.com/artpar/stackgen/internal/core/template"
)

// =============================================================================
// File Materialization
// =============================================================================

// RenderFiles renders the path and content of every declared file against
// attrs, followed by the static files as-is. Nothing is returned unless every
// file renders.
func RenderFiles(d *Descriptor, attrs map[string]string) ([]File, error) {
	files := make([]File, 0, len(d.Files)+len(d.StaticFiles))

	for _, p := range sortedPaths(d.Files) {
		path, err := template.Render(p, attrs)
		if err != nil {
			return nil, fmt.Errorf("service %s file path %q: %w", d.Name, p, err)
		}
		content, err := template.Render(d.Files[p], attrs)
		if err != nil {
			return nil, fmt.Errorf("service %s file %q: %w", d.Name, path, err)
		}
		files = append(files, File{Path: path, Content: content})
	}

	for _, p := range sortedPaths(d.StaticFiles) {
		files = append(files, File{Path: p, Content: d.StaticFiles[p]})
	}

	return files, nil
}

// MaterializeFiles is the default materialization of b: render all files,
// write them into the service's directory, then run the lifecycle, if any.
// A render failure aborts before anything is written.
func MaterializeFiles(ctx context.Context, b Behavior, ws Workspace) error {
	d := b.Describe()
	attrs := Attributes(b, ws.Vars())

	files, err := RenderFiles(d, attrs)
	if err != nil {
		return err
	}
	if len(files) > 0 {
		if err := ws.WriteFiles(d.Name, files); err != nil {
			return err
		}
	}

	if d.Lifecycle != nil {
		return d.Lifecycle.Run(ctx, d.Name, attrs, ws)
	}
	return nil
}
