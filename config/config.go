// Package config loads the service configuration from a yaml or json file
// with K_ prefixed environment overrides.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/depotplan/core/eligibility"
	"github.com/kilianp07/depotplan/core/metrics"
	"github.com/kilianp07/depotplan/core/planner"
	"github.com/kilianp07/depotplan/core/scheduler"
	"github.com/kilianp07/depotplan/infra/mqtt"
	"github.com/kilianp07/depotplan/infra/sources"
	"github.com/kilianp07/depotplan/infra/state"
)

type Config struct {
	Schedule    scheduler.Config   `json:"schedule"`
	Eligibility eligibility.Config `json:"eligibility"`
	Planner     planner.Config     `json:"planner"`
	Sources     sources.Config     `json:"sources"`
	State       state.Config       `json:"state"`
	MQTT        mqtt.Config        `json:"mqtt"`
	Metrics     metrics.Config     `json:"metrics"`
	Logging     LoggingConfig      `json:"logging"`
	Sentry      SentryConfig       `json:"sentry"`
	HTTP        HTTPConfig         `json:"http"`
}

// Load reads path, applies environment overrides such as
// K_SCHEDULE__HEADWAY_MINUTES=10, then defaults and validation. An empty
// path loads the environment only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	if err := k.Load(env.Provider("K_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a validated configuration with every default applied.
func Default() *Config {
	var cfg Config
	cfg.SetDefaults()
	return &cfg
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Schedule.SetDefaults()
	c.Eligibility.SetDefaults()
	c.Planner.SetDefaults()
	c.State.SetDefaults()
	if c.MQTT.Enabled() {
		c.MQTT.SetDefaults()
	}
	c.Metrics.SetDefaults()
	c.Logging.SetDefaults()
	c.Sentry.SetDefaults()
	c.HTTP.SetDefaults()
}

// Validate checks every section and names the first failing one.
func (c Config) Validate() error {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"schedule", c.Schedule.Validate},
		{"eligibility", c.Eligibility.Validate},
		{"planner", c.Planner.Validate},
		{"state", c.State.Validate},
		{"mqtt", c.MQTT.Validate},
		{"logging", c.Logging.Validate},
		{"sentry", c.Sentry.Validate},
		{"http", c.HTTP.Validate},
	}
	for _, ch := range checks {
		if err := ch.fn(); err != nil {
			return fmt.Errorf("%s: %w", ch.name, err)
		}
	}
	return nil
}
