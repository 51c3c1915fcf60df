package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the service day.
const (
	DefaultHeadwayMinutes = 15
	DefaultTripMinutes    = 30
	DefaultServiceStart   = "06:00"
	DefaultServiceEnd     = "23:00"
)

// Config defines the timetable parameters loaded from configuration.
type Config struct {
	HeadwayMinutes int    `json:"headway_minutes" yaml:"headway_minutes"`
	TripMinutes    int    `json:"trip_minutes" yaml:"trip_minutes"`
	ServiceStart   string `json:"service_start" yaml:"service_start"`
	ServiceEnd     string `json:"service_end" yaml:"service_end"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.HeadwayMinutes == 0 {
		c.HeadwayMinutes = DefaultHeadwayMinutes
	}
	if c.TripMinutes == 0 {
		c.TripMinutes = DefaultTripMinutes
	}
	if c.ServiceStart == "" {
		c.ServiceStart = DefaultServiceStart
	}
	if c.ServiceEnd == "" {
		c.ServiceEnd = DefaultServiceEnd
	}
}

// Validate checks that the values can be used to build a timetable. An end
// before the start is accepted: it produces an empty plan.
func (c Config) Validate() error {
	if c.HeadwayMinutes <= 0 {
		return fmt.Errorf("headway_minutes must be positive")
	}
	if c.TripMinutes <= 0 {
		return fmt.Errorf("trip_minutes must be positive")
	}
	if _, err := ParseClock(c.ServiceStart); err != nil {
		return fmt.Errorf("service_start: %w", err)
	}
	if _, err := ParseClock(c.ServiceEnd); err != nil {
		return fmt.Errorf("service_end: %w", err)
	}
	return nil
}

// Headway returns the headway as a duration.
func (c Config) Headway() time.Duration { return time.Duration(c.HeadwayMinutes) * time.Minute }

// TripDuration returns the fixed trip duration.
func (c Config) TripDuration() time.Duration { return time.Duration(c.TripMinutes) * time.Minute }

// Window returns the service start and end as offsets from midnight.
func (c Config) Window() (time.Duration, time.Duration, error) {
	start, err := ParseClock(c.ServiceStart)
	if err != nil {
		return 0, 0, err
	}
	end, err := ParseClock(c.ServiceEnd)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ParseClock parses an "HH:MM" time of day into an offset from midnight.
// "24:00" is accepted as the end of the day.
func ParseClock(s string) (time.Duration, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	if h < 0 || m < 0 || m > 59 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid clock %q", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}

// LoadConfig loads Config from a JSON or YAML file.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var cfg Config
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", ext)
	}
	return cfg, err
}

// DecodeConfig reads from r to decode a Config.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	return cfg, nil
}
