package metrics

import "github.com/kilianp07/depotplan/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPath is where serve exposes the default registry.
	PrometheusPath string `json:"prometheus_path"`
}

// SetDefaults fills zero values.
func (c *Config) SetDefaults() {
	if c.PrometheusPath == "" {
		c.PrometheusPath = "/metrics"
	}
}
