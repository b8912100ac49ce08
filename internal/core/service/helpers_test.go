package service

import (
	"context"
	"strings"
)

// fakeWorkspace records writes and tool invocations.
type fakeWorkspace struct {
	vars    map[string]string
	written map[string][]File
	runs    []string
	runErr  error
}

func newFakeWorkspace() *fakeWorkspace {
	return &fakeWorkspace{
		vars:    map[string]string{"python_version": "3.12"},
		written: make(map[string][]File),
	}
}

func (w *fakeWorkspace) WriteFiles(service string, files []File) error {
	w.written[service] = append(w.written[service], files...)
	return nil
}

func (w *fakeWorkspace) Run(_ context.Context, service string, argv []string) error {
	w.runs = append(w.runs, service+": "+strings.Join(argv, " "))
	return w.runErr
}

func (w *fakeWorkspace) Vars() map[string]string {
	return w.vars
}

func (w *fakeWorkspace) file(service, path string) (string, bool) {
	for _, f := range w.written[service] {
		if f.Path == path {
			return f.Content, true
		}
	}
	return "", false
}
