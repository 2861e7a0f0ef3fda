package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dirPermissions = 0o755

	dbFileName  = "gaji.db"
	logFileName = "gaji.log"
)

// Manager knows where gaji's local files live.
type Manager struct {
	basePath string
}

// NewManager constructs a Manager rooted at the provided directory. If basePath
// is empty, it falls back to ResolveBasePath.
func NewManager(basePath string) (*Manager, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveBasePath()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Manager{basePath: abs}, nil
}

// BasePath returns the data directory.
func (m *Manager) BasePath() string {
	return m.basePath
}

// DBPath is the default SQLite database location.
func (m *Manager) DBPath() string {
	return filepath.Join(m.basePath, dbFileName)
}

// LogPath is where the CLI and TUI write their log.
func (m *Manager) LogPath() string {
	return filepath.Join(m.basePath, logFileName)
}

// EnsureDir creates the data directory if needed and returns it.
func (m *Manager) EnsureDir() (string, error) {
	if m == nil {
		return "", errors.New("files.Manager is nil")
	}
	if err := os.MkdirAll(m.basePath, dirPermissions); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return m.basePath, nil
}
