// Package manifest handles unwind.toml tool configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Manifest represents an unwind.toml configuration.
type Manifest struct {
	Project Project `toml:"project"`
	Archive Archive `toml:"archive"`
	Journal Journal `toml:"journal"`
	Server  Server  `toml:"server"`

	// Dir is the directory containing the unwind.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name string `toml:"name"`
}

// Archive configures the snapshot archive.
type Archive struct {
	Path string `toml:"path"`
}

// Journal configures the stack event journal.
type Journal struct {
	Path        string `toml:"path"`
	Compression string `toml:"compression"` // "none" or "zstd"
}

// Server configures the inspection server.
type Server struct {
	Addr string `toml:"addr"`
}

// Load parses an unwind.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "unwind.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Archive.Path == "" {
		m.Archive.Path = "snapshots.db"
	}
	if m.Journal.Path == "" {
		m.Journal.Path = "stack.journal"
	}
	if m.Journal.Compression == "" {
		m.Journal.Compression = "zstd"
	}
	if m.Server.Addr == "" {
		m.Server.Addr = "localhost:4567"
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find an unwind.toml file, then
// loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", startDir, err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "unwind.toml")); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// ArchivePath returns the archive path resolved against the manifest
// directory.
func (m *Manifest) ArchivePath() string {
	return m.resolve(m.Archive.Path)
}

// JournalPath returns the journal path resolved against the manifest
// directory.
func (m *Manifest) JournalPath() string {
	return m.resolve(m.Journal.Path)
}

func (m *Manifest) resolve(path string) string {
	if filepath.IsAbs(path) || m.Dir == "" {
		return path
	}
	return filepath.Join(m.Dir, path)
}
