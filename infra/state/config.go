package state

import (
	"fmt"
	"os"
	"path/filepath"

	core "github.com/kilianp07/depotplan/core/state"
)

// Config selects the snapshot backend: memory, file or sqlite.
type Config struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
}

// SetDefaults selects the file backend under ./data.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "file"
	}
	if c.Path == "" {
		switch c.Backend {
		case "file":
			c.Path = "data/planner_state.json"
		case "sqlite":
			c.Path = "data/planner_state.db"
		}
	}
}

// Validate checks the backend name.
func (c Config) Validate() error {
	switch c.Backend {
	case "memory":
		return nil
	case "file", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("state backend %s requires a path", c.Backend)
		}
		return nil
	default:
		return fmt.Errorf("unknown state backend %q", c.Backend)
	}
}

// Open returns the store selected by c. SQLite stores must be closed by the
// caller.
func Open(c Config) (core.Store, error) {
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Backend {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(c.Path), 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
		return NewSQLiteStore(c.Path)
	case "file":
		return NewFileStore(c.Path), nil
	default:
		return core.NewMemoryStore(), nil
	}
}
