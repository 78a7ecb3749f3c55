// Package config loads and validates the zone configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ayumu-h/zonewatch/internal/zone"
)

// Point is an integer pixel coordinate in the configuration file.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ZoneConfig describes one counting zone. Corner pointers stay nil when
// the file omits them so construction can reject incomplete geometry.
type ZoneConfig struct {
	Name        string `json:"name"`
	TopLeft     *Point `json:"top_left"`
	BottomRight *Point `json:"bottom_right"`
	// Smoothness overrides the shared default when > 0.
	Smoothness int `json:"smoothness,omitempty"`
}

// RenderConfig carries drawing defaults for the overlay. The counting
// core never reads these; they pass through to the annotator untouched.
type RenderConfig struct {
	Color         [3]uint8 `json:"color"`
	BoxThickness  int      `json:"box_thickness"`
	TextOffset    Point    `json:"text_offset"`
	TextScale     int      `json:"text_scale"`
	TextThickness int      `json:"text_thickness"`
}

// PersistConfig configures the periodic count log. Absent block means
// persistence stays disabled.
type PersistConfig struct {
	Path            string `json:"path"`
	IntervalSeconds int    `json:"interval_seconds"`
	FPS             int    `json:"fps"`
	Speed           int    `json:"speed"`
	Camera          bool   `json:"camera"`
}

// Config is the full configuration file.
type Config struct {
	Smoothness int            `json:"smoothness"`
	Render     RenderConfig   `json:"render"`
	Zones      []ZoneConfig   `json:"zones"`
	Persist    *PersistConfig `json:"persist,omitempty"`
}

// Default returns the configuration defaults applied before the file is
// decoded over them.
func Default() Config {
	return Config{
		Smoothness: 1,
		Render: RenderConfig{
			Color:         [3]uint8{0, 255, 0},
			BoxThickness:  2,
			TextOffset:    Point{X: 5, Y: 25},
			TextScale:     1,
			TextThickness: 2,
		},
	}
}

// Load reads, decodes and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate performs the eager checks that do not depend on zone
// construction. Geometry itself is validated by zone.NewSet.
func (c *Config) Validate() error {
	if len(c.Zones) == 0 {
		return fmt.Errorf("no zones configured")
	}
	if c.Smoothness < 1 {
		return fmt.Errorf("smoothness %d (must be >= 1)", c.Smoothness)
	}
	if c.Persist != nil {
		if c.Persist.Path == "" {
			return fmt.Errorf("persist: empty path")
		}
		if c.Persist.IntervalSeconds < 1 {
			return fmt.Errorf("persist: interval %d seconds (must be >= 1)", c.Persist.IntervalSeconds)
		}
		if c.Persist.FPS < 1 {
			return fmt.Errorf("persist: fps %d (must be > 0)", c.Persist.FPS)
		}
	}
	return nil
}

// ZoneSpecs converts the zone entries for zone.NewSet.
func (c *Config) ZoneSpecs() []zone.Spec {
	specs := make([]zone.Spec, len(c.Zones))
	for i, zc := range c.Zones {
		specs[i] = zone.Spec{
			Name:       zc.Name,
			Smoothness: zc.Smoothness,
		}
		if zc.TopLeft != nil {
			specs[i].TopLeft = &zone.Point{X: zc.TopLeft.X, Y: zc.TopLeft.Y}
		}
		if zc.BottomRight != nil {
			specs[i].BottomRight = &zone.Point{X: zc.BottomRight.X, Y: zc.BottomRight.Y}
		}
	}
	return specs
}

// Defaults returns the shared zone construction defaults.
func (c *Config) Defaults() zone.Defaults {
	return zone.Defaults{Smoothness: c.Smoothness}
}

// PersistSettings converts the persistence block, nil when disabled.
func (c *Config) PersistSettings() *zone.PersistConfig {
	if c.Persist == nil {
		return nil
	}
	return &zone.PersistConfig{
		Path:            c.Persist.Path,
		IntervalSeconds: c.Persist.IntervalSeconds,
		FPS:             c.Persist.FPS,
		Speed:           c.Persist.Speed,
		Camera:          c.Persist.Camera,
	}
}
