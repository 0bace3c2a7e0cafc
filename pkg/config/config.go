// Package config loads tlv's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Dicklesworthstone/timeline_viewer/pkg/model"
	"github.com/Dicklesworthstone/timeline_viewer/pkg/timeline"
)

// DefaultPath is the config location relative to the working directory.
const DefaultPath = ".tlv/config.yaml"

// Config is the on-disk configuration.
type Config struct {
	// CompactMaxWidth is the widest terminal, in columns, treated as compact.
	CompactMaxWidth int `yaml:"compact_max_width"`

	// Debounce rate-limits controls visibility updates while scrolling.
	Debounce time.Duration `yaml:"debounce"`

	LazyLoadDelay LazyLoadDelay `yaml:"lazy_load_delay"`

	// DeviceOffset is the fraction of viewport height used as the compact
	// visibility buffer.
	DeviceOffset float64 `yaml:"device_offset"`

	// CompactItemScale sizes compact items relative to the viewport height.
	CompactItemScale float64 `yaml:"compact_item_scale"`

	Analytics Analytics `yaml:"analytics"`
	Controls  Controls  `yaml:"controls"`

	// Theme is "dark" or "light".
	Theme string `yaml:"theme"`
}

// LazyLoadDelay holds per-profile delays before images are loaded.
type LazyLoadDelay struct {
	Wide    time.Duration `yaml:"wide"`
	Compact time.Duration `yaml:"compact"`
}

// Analytics selects where click events go. With neither set, tracking is
// skipped.
type Analytics struct {
	DB  string `yaml:"db"`
	Log bool   `yaml:"log"`
}

// Enabled reports whether any sink is configured.
func (a Analytics) Enabled() bool {
	return a.DB != "" || a.Log
}

// Controls holds tracking metadata for the navigation buttons.
type Controls struct {
	Next model.Track `yaml:"next"`
	Prev model.Track `yaml:"prev"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		CompactMaxWidth: timeline.DefaultCompactMaxWidth,
		Debounce:        250 * time.Millisecond,
		LazyLoadDelay: LazyLoadDelay{
			Wide:    timeline.DefaultWideLazyLoadDelay,
			Compact: timeline.DefaultCompactLazyLoadDelay,
		},
		DeviceOffset:     timeline.DefaultCompactOffset,
		CompactItemScale: 1.30,
		Controls: Controls{
			Next: model.Track{Category: "Timeline", Action: "Next", Label: "next"},
			Prev: model.Track{Category: "Timeline", Action: "Prev", Label: "prev"},
		},
		Theme: "dark",
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", filepath.Base(path), err)
	}
	if cfg.Analytics.DB != "" && !filepath.IsAbs(cfg.Analytics.DB) {
		cfg.Analytics.DB = filepath.Join(filepath.Dir(path), cfg.Analytics.DB)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values the navigation core cannot work with.
func (c Config) Validate() error {
	if c.Debounce < 0 {
		return fmt.Errorf("config: debounce must not be negative (%v)", c.Debounce)
	}
	if c.LazyLoadDelay.Wide < 0 || c.LazyLoadDelay.Compact < 0 {
		return fmt.Errorf("config: lazy_load_delay must not be negative")
	}
	if c.DeviceOffset < 0 || c.DeviceOffset > 1 {
		return fmt.Errorf("config: device_offset %.2f outside [0,1]", c.DeviceOffset)
	}
	if c.CompactItemScale < 1 {
		return fmt.Errorf("config: compact_item_scale %.2f must be at least 1", c.CompactItemScale)
	}
	switch c.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("config: unknown theme %q", c.Theme)
	}
	return nil
}

// Profile detects the device profile for a terminal of the given width and
// applies the configured delays and offset.
func (c Config) Profile(viewportWidth int) timeline.DeviceProfile {
	p := timeline.DetectProfile(viewportWidth, c.CompactMaxWidth)
	if p.Compact {
		p.LazyLoadDelay = c.LazyLoadDelay.Compact
		p.OffsetFraction = c.DeviceOffset
	} else {
		p.LazyLoadDelay = c.LazyLoadDelay.Wide
	}
	return p
}
