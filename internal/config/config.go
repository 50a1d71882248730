// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/tomtom215/wayfarer/internal/gesture"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/scene"
	"github.com/tomtom215/wayfarer/internal/viewport"
	"github.com/tomtom215/wayfarer/internal/websocket"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML file and environment variables.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml)
//  3. Environment Variables: Override any scalar setting
//
// Categories can only be declared in the config file; each one names the
// GeoJSON geometry it is drawn on and, optionally, an item catalog.
//
// Example config.yaml:
//
//	map:
//	  viewport:
//	    max_zoom: 10
//	categories:
//	  - name: states
//	    kind: region
//	    geometry: data/us-states.geojson
//	    id_property: postal
//	    drill_down: true
//	  - name: national-parks
//	    kind: marker
//	    source: states
//	    catalog: data/national-parks.json
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Map        MapConfig        `koanf:"map"`
	Categories []CategoryConfig `koanf:"categories"`
	Server     ServerConfig     `koanf:"server"`
	Security   SecurityConfig   `koanf:"security"`
	WebSocket  websocket.Config `koanf:"websocket"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// MapConfig tunes every map surface the server creates.
//
// Environment Variables:
//   - MAP_MIN_ZOOM, MAP_MAX_ZOOM, MAP_ZOOM_FACTOR: viewport bounds and step
//   - MAP_WIDTH, MAP_HEIGHT: surface size in pixels
//   - MAP_ZOOM_DEBOUNCE: delay before a wheel zoom settles (default: 150ms)
//   - MAP_SCROLL_HINT_DURATION, MAP_TOUCH_HINT_DURATION: hint visibility
//   - MAP_SMALL_TIER_BELOW: zoom under which markers are drawn small
//   - MAP_TAP_MAX_DURATION, MAP_TAP_MAX_DISTANCE: tap classification
//   - MAP_TOOLTIP_OFFSET_X, MAP_TOOLTIP_OFFSET_Y: tooltip offset from the pointer
//   - MAP_CENTER_LON, MAP_CENTER_LAT, MAP_INITIAL_ZOOM: initial camera
//   - RENDER_CACHE_SIZE, RENDER_CACHE_TTL: rendered image cache
type MapConfig struct {
	Viewport viewport.Config     `koanf:"viewport"`
	Shell    scene.ShellConfig   `koanf:"shell"`
	Tap      gesture.Thresholds  `koanf:"tap"`
	Tooltip  scene.TooltipConfig `koanf:"tooltip"`

	CenterLon   float64 `koanf:"center_lon"`
	CenterLat   float64 `koanf:"center_lat"`
	InitialZoom float64 `koanf:"initial_zoom"`

	RenderCacheSize int           `koanf:"render_cache_size"`
	RenderCacheTTL  time.Duration `koanf:"render_cache_ttl"`
}

// InitialPosition returns the camera every new surface starts from.
func (m MapConfig) InitialPosition() viewport.Position {
	return viewport.Position{
		Center: models.Coordinates{Lon: m.CenterLon, Lat: m.CenterLat},
		Zoom:   m.InitialZoom,
	}
}

// CategoryConfig declares one selectable category.
type CategoryConfig struct {
	Name models.Category `koanf:"name" validate:"required,category"`
	Kind models.MapKind  `koanf:"kind" validate:"omitempty,map_kind"`
	// Source is the geometry source id drawn under the category. It defaults
	// to Name, so a marker category can reuse a region category's geometry.
	Source string `koanf:"source"`
	// Geometry is the GeoJSON file loaded as Source.
	Geometry string `koanf:"geometry"`
	// IDProperty picks the feature property used as region id.
	IDProperty string `koanf:"id_property"`
	// Catalog is the item metadata file. Region categories without one use
	// the geometry's features as items.
	Catalog   string `koanf:"catalog"`
	DrillDown bool   `koanf:"drill_down"`
	// FitCenter starts the camera at the center of the geometry's bounds
	// instead of map.center_lon/center_lat.
	FitCenter bool `koanf:"fit_center"`
}

// SourceID returns the geometry source the category is drawn on.
func (c CategoryConfig) SourceID() string {
	if c.Source != "" {
		return c.Source
	}
	return string(c.Name)
}

// MapKind returns the configured kind, defaulting to region.
func (c CategoryConfig) MapKind() models.MapKind {
	if c.Kind == "" {
		return models.KindRegion
	}
	return c.Kind
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - HTTP_HOST (default: 0.0.0.0), HTTP_PORT (default: 3857)
//   - HTTP_TIMEOUT: read/write timeout (default: 30s)
//   - ENVIRONMENT: development or production
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SecurityConfig holds rate limiting and cross-origin settings. The map API
// has no authentication; selections are per-deployment.
//
// Environment Variables:
//   - RATE_LIMIT_REQUESTS (default: 100), RATE_LIMIT_WINDOW (default: 1m)
//   - DISABLE_RATE_LIMIT: disable rate limiting (default: false)
//   - CORS_ORIGINS: comma-separated allowed origins (default: *)
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig mirrors logging.Config for the koanf layers.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Category returns the configuration of category c.
func (c *Config) Category(name models.Category) (CategoryConfig, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return CategoryConfig{}, false
}

// Load loads configuration using Koanf v2 and validates it.
func Load() (*Config, error) {
	cfg, err := LoadWithKoanf()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
