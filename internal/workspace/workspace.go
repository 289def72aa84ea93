package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docpublish/internal/foundation/errors"
	"git.home.luguber.info/inful/docpublish/internal/logfields"
)

// Manager allocates ephemeral working-copy directories under a base dir.
type Manager struct {
	baseDir string
}

// NewManager creates a workspace manager rooted at baseDir, defaulting to
// the system temp directory.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// WorkingCopy is a single disposable directory. It is exclusively owned by
// one publish run and removed via Release.
type WorkingCopy struct {
	path string
}

// Acquire creates an empty, timestamped directory for the named purpose
// ("source", "branch"). The directory is unique per call.
func (m *Manager) Acquire(purpose string) (*WorkingCopy, error) {
	timestamp := time.Now().Format("20060102-150405")
	pattern := fmt.Sprintf("docpublish-%s-%s-*", purpose, timestamp)

	dir, err := os.MkdirTemp(m.baseDir, pattern)
	if err != nil {
		return nil, errors.WorkspaceError("failed to create working copy directory").
			WithCause(err).
			WithContext("base_dir", m.baseDir).
			WithContext("purpose", purpose).
			Build()
	}

	slog.Debug("Acquired working copy", logfields.Path(dir))
	return &WorkingCopy{path: dir}, nil
}

// Path returns the working copy directory, or "" after release.
func (w *WorkingCopy) Path() string {
	if w == nil {
		return ""
	}
	return w.path
}

// Release removes the working copy. Safe to call multiple times and safe to
// call on a nil copy left over from a failed acquisition.
func (w *WorkingCopy) Release() error {
	if w == nil || w.path == "" {
		return nil
	}
	if err := os.RemoveAll(w.path); err != nil {
		return errors.WorkspaceError("failed to release working copy").
			WithCause(err).
			WithContext("path", w.path).
			Build()
	}
	slog.Debug("Released working copy", logfields.Path(w.path))
	w.path = ""
	return nil
}

// Join resolves a path inside the working copy.
func (w *WorkingCopy) Join(elem ...string) string {
	return filepath.Join(append([]string{w.path}, elem...)...)
}
