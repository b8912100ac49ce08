package generator

import (
	"context"
	"log/slog"

	"github.com/artpar/stackgen/internal/core/service"
	"github.com/artpar/stackgen/internal/shell/toolchain"
	"github.com/artpar/stackgen/internal/shell/workspace"
)

// runWorkspace is the service.Workspace of one run.
type runWorkspace struct {
	ws      *workspace.Workspace
	invoker *toolchain.Invoker
	vars    map[string]string
	logger  *slog.Logger
}

var _ service.Workspace = (*runWorkspace)(nil)

func (w *runWorkspace) WriteFiles(name string, files []service.File) error {
	scope, err := w.ws.Scope(name)
	if err != nil {
		return err
	}
	entries := make([]workspace.Entry, 0, len(files))
	for _, f := range files {
		entries = append(entries, workspace.Entry{Path: f.Path, Data: []byte(f.Content)})
	}
	if err := scope.WriteAll(entries); err != nil {
		return err
	}
	w.logger.Debug("wrote service files", "service", name, "files", len(files))
	return nil
}

func (w *runWorkspace) Run(ctx context.Context, name string, argv []string) error {
	if w.invoker == nil {
		w.logger.Debug("toolchain disabled, skipping", "service", name, "command", argv)
		return nil
	}
	scope, err := w.ws.Scope(name)
	if err != nil {
		return err
	}
	if err := scope.Ensure(); err != nil {
		return err
	}
	return w.invoker.Invoke(ctx, name, scope.Dir(), argv)
}

func (w *runWorkspace) Vars() map[string]string {
	out := make(map[string]string, len(w.vars))
	for k, v := range w.vars {
		out[k] = v
	}
	return out
}
