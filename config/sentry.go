package config

import "fmt"

// SentryConfig configures error reporting of source outages and publish
// failures. An empty DSN disables reporting.
type SentryConfig struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
	Release          string  `json:"release"`
}

// Enabled reports whether a DSN is configured.
func (s SentryConfig) Enabled() bool { return s.DSN != "" }

// SetDefaults names the environment when reporting is enabled.
func (s *SentryConfig) SetDefaults() {
	if s.Enabled() && s.Environment == "" {
		s.Environment = "production"
	}
}

// Validate checks the sample rate.
func (s SentryConfig) Validate() error {
	if s.TracesSampleRate < 0 || s.TracesSampleRate > 1 {
		return fmt.Errorf("traces_sample_rate must be within [0,1]")
	}
	return nil
}
