package planner

import (
	"fmt"
	"time"
	// zone database for hosts without zoneinfo
	_ "time/tzdata"
)

// Config holds the planner runtime settings.
type Config struct {
	// SourceTimeoutSeconds bounds every collaborator call.
	SourceTimeoutSeconds int `json:"source_timeout_seconds"`
	// Timezone is the IANA zone plan dates and departures are expressed in.
	Timezone string `json:"timezone"`
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.SourceTimeoutSeconds == 0 {
		c.SourceTimeoutSeconds = 10
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
}

// Validate checks the timeout and the zone name.
func (c Config) Validate() error {
	if c.SourceTimeoutSeconds < 0 {
		return fmt.Errorf("source_timeout_seconds must not be negative")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	return nil
}

// SourceTimeout returns the per-call timeout.
func (c Config) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutSeconds) * time.Second
}

// Location loads the configured zone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil || c.Timezone == "" {
		return time.UTC
	}
	return loc
}
