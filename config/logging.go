package config

import (
	"fmt"
	"strings"

	"github.com/kilianp07/depotplan/core/planlog"
)

// LoggingConfig defines the process log level and the plan history store.
type LoggingConfig struct {
	// Level is the minimum zerolog level: debug, info, warn or error.
	Level string `json:"level"`
	// History selects where generated plans are recorded.
	History planlog.Config `json:"history"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	c.Level = strings.ToLower(c.Level)
	c.History.SetDefaults()
}

// Validate checks the level and the history backend.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	return c.History.Validate()
}
