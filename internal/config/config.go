// Package config handles configuration loading and shared data structures.
package config

import (
	"fmt"
	"os"

	"github.com/woozymasta/mapgeo/internal/geo"
	"github.com/woozymasta/mapgeo/internal/projection"

	"gopkg.in/yaml.v3"
)

// Defaults used when the configuration leaves a value unset.
const (
	DefaultZoom        = 10
	DefaultWidth       = 1024
	DefaultHeight      = 768
	DefaultFormat      = "json"
	DefaultConcurrency = 8
)

// Config represents the root configuration file structure.
type Config struct {
	Viewport    Viewport                `yaml:"viewport" json:"viewport"`
	Scale       projection.ScaleOptions `yaml:"scale,omitempty" json:"scale,omitempty"`
	Format      string                  `yaml:"format,omitempty" json:"format,omitempty"`
	Tolerance   float64                 `yaml:"tolerance,omitempty" json:"tolerance,omitempty"`
	Concurrency int                     `yaml:"concurrency,omitempty" json:"concurrency,omitempty"`
}

// Viewport describes the map view screen conversions run against.
// When Bounds is set it takes precedence over Center, Width and Height.
type Viewport struct {
	Bounds *projection.Bounds `yaml:"bounds,omitempty" json:"bounds,omitempty"`
	Center geo.Coordinate     `yaml:"center" json:"center"`
	Zoom   *int               `yaml:"zoom,omitempty" json:"zoom,omitempty"`
	Width  int                `yaml:"width,omitempty" json:"width,omitempty"`
	Height int                `yaml:"height,omitempty" json:"height,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.Normalize()
	return &cfg, nil
}

// Normalize fills unset values with defaults.
func (c *Config) Normalize() {
	if c.Viewport.Zoom == nil {
		zoom := DefaultZoom
		c.Viewport.Zoom = &zoom
	}
	if c.Viewport.Width <= 0 {
		c.Viewport.Width = DefaultWidth
	}
	if c.Viewport.Height <= 0 {
		c.Viewport.Height = DefaultHeight
	}
	if c.Format == "" {
		c.Format = DefaultFormat
	}
	if c.Tolerance <= 0 {
		c.Tolerance = geo.DefaultTolerance
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
}

// Build turns the viewport description into a Web Mercator viewport.
func (v Viewport) Build() (projection.StaticViewport, error) {
	zoom := DefaultZoom
	if v.Zoom != nil {
		zoom = *v.Zoom
	}

	if v.Bounds != nil {
		return projection.NewViewportFromBounds(projection.WebMercator{}, *v.Bounds, zoom)
	}

	return projection.NewViewport(projection.WebMercator{}, v.Center, zoom, v.Width, v.Height)
}
