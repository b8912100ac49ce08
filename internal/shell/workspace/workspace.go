// Package workspace materializes generated files under an output directory.
//
// Each service writes only inside its own directory through a Scope. Paths
// are checked before anything is written, and every write goes through a
// temporary file and a rename, so a reader never sees a half-written file.
package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrPathEscape is returned for a path that would leave its directory.
	ErrPathEscape = errors.New("path escapes its directory")
)

// FileMode is the permission of every written file.
const FileMode os.FileMode = 0o644

// DirMode is the permission of every created directory.
const DirMode os.FileMode = 0o755

// =============================================================================
// Workspace
// =============================================================================

// Workspace is an output directory.
type Workspace struct {
	fs   afero.Fs
	root string
}

// New creates a workspace over fs, where fs is already rooted at the output
// directory. root is the OS path of that directory, used as the working
// directory of external tools; it may be empty for in-memory filesystems.
func New(fs afero.Fs, root string) *Workspace {
	return &Workspace{fs: fs, root: root}
}

// NewOS creates a workspace over the OS directory root, creating it if needed.
func NewOS(root string) (*Workspace, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve output dir %s: %w", root, err)
	}
	if err := os.MkdirAll(abs, DirMode); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", abs, err)
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), abs), abs), nil
}

// Root returns the OS path of the output directory.
func (w *Workspace) Root() string {
	return w.root
}

// WriteFile atomically writes a file relative to the output directory.
func (w *Workspace) WriteFile(rel string, data []byte) error {
	if !filepath.IsLocal(rel) {
		return fmt.Errorf("%w: %q", ErrPathEscape, rel)
	}
	return writeFileAtomic(w.fs, rel, data)
}

// Scope returns the scope of one service's directory. The directory is not
// created until something is written.
func (w *Workspace) Scope(name string) (*Scope, error) {
	if !filepath.IsLocal(name) || filepath.Base(name) != name {
		return nil, fmt.Errorf("%w: service directory %q", ErrPathEscape, name)
	}
	return &Scope{ws: w, name: name}, nil
}

// =============================================================================
// Scope
// =============================================================================

// Entry is one file to write, relative to its scope.
type Entry struct {
	Path string
	Data []byte
}

// Scope is a service's own directory inside the workspace.
type Scope struct {
	ws   *Workspace
	name string
}

// Dir returns the OS path of the scope, for running tools inside it.
func (s *Scope) Dir() string {
	if s.ws.root == "" {
		return ""
	}
	return filepath.Join(s.ws.root, s.name)
}

// Ensure creates the scope's directory.
func (s *Scope) Ensure() error {
	return s.ws.fs.MkdirAll(s.name, DirMode)
}

// Resolve returns the workspace-relative path of rel, rejecting any path that
// leaves the scope.
func (s *Scope) Resolve(rel string) (string, error) {
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %q in %s", ErrPathEscape, rel, s.name)
	}
	return filepath.Join(s.name, rel), nil
}

// WriteAll writes entries in order. Every path is checked before the first
// write; each write is atomic.
func (s *Scope) WriteAll(entries []Entry) error {
	paths := make([]string, len(entries))
	for i, e := range entries {
		p, err := s.Resolve(e.Path)
		if err != nil {
			return err
		}
		paths[i] = p
	}

	if err := s.Ensure(); err != nil {
		return fmt.Errorf("create %s: %w", s.name, err)
	}
	for i, e := range entries {
		if err := writeFileAtomic(s.ws.fs, paths[i], e.Data); err != nil {
			return fmt.Errorf("write %s: %w", paths[i], err)
		}
	}
	return nil
}

// =============================================================================
// Atomic Write
// =============================================================================

// writeFileAtomic writes data to path using a temp file in the same
// directory and a rename. On failure the original file, if any, is left
// unchanged.
func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, DirMode); err != nil {
		return err
	}

	tmp, err := afero.TempFile(fs, dir, ".stackgen-tmp-*")
	if err != nil {
		return err
	}
	tmpPath := filepath.Join(dir, filepath.Base(tmp.Name()))

	success := false
	defer func() {
		if !success {
			fs.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := fs.Chmod(tmpPath, FileMode); err != nil {
		return err
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}
