package workspace

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Descent098/ezcv/internal/foundation/errors"
	"github.com/Descent098/ezcv/internal/logfields"
)

const prefix = "ezcv-preview"

// Manager owns one workspace directory.
type Manager struct {
	baseDir    string
	dir        string
	persistent bool
}

// NewManager returns a manager for an ephemeral workspace under baseDir, or
// the system temp directory when baseDir is empty.
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{baseDir: baseDir}
}

// NewPersistentManager returns a manager for the fixed directory dir, which
// Cleanup leaves in place.
func NewPersistentManager(dir string) *Manager {
	return &Manager{baseDir: filepath.Dir(dir), dir: dir, persistent: true}
}

// Create makes the workspace directory.
func (m *Manager) Create() error {
	if m.persistent {
		if err := os.MkdirAll(m.dir, 0o750); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "failed to create workspace").
				WithContext("path", m.dir).Build()
		}
		slog.Debug("Using persistent workspace", logfields.Path(m.dir))
		return nil
	}

	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create workspace base").
			WithContext("path", m.baseDir).Build()
	}
	dir, err := os.MkdirTemp(m.baseDir, prefix+"-"+time.Now().Format("20060102-150405")+"-*")
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create workspace").
			WithContext("path", m.baseDir).Build()
	}
	m.dir = dir
	slog.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// Path returns the workspace directory, or "" before Create.
func (m *Manager) Path() string {
	return m.dir
}

// Persistent reports whether Cleanup keeps the directory.
func (m *Manager) Persistent() bool { return m.persistent }

// Cleanup removes an ephemeral workspace. It is safe to call more than once.
func (m *Manager) Cleanup() error {
	if m.dir == "" || m.persistent {
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to clean up workspace").
			WithContext("path", m.dir).Build()
	}
	slog.Debug("Removed workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}

// Subdir creates and returns a directory inside the workspace.
func (m *Manager) Subdir(name string) (string, error) {
	if m.dir == "" {
		return "", errors.InternalError("workspace not created").Build()
	}
	sub := filepath.Join(m.dir, name)
	if err := os.MkdirAll(sub, 0o750); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to create workspace subdirectory").
			WithContext("path", sub).Build()
	}
	return sub, nil
}
