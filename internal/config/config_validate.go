// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/validation"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateMap(); err != nil {
		return err
	}

	if err := c.validateCategories(); err != nil {
		return err
	}

	if err := c.validateSecurity(); err != nil {
		return err
	}

	if err := c.validateWebSocket(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// IsDevelopment returns true if the application is running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "" || env == "development" || env == "dev"
}

// validateMap rejects bounds the viewport would otherwise silently replace
// with defaults, so a typo in the config file is reported at startup.
func (c *Config) validateMap() error {
	m := c.Map
	if !finitePositive(m.Viewport.MinZoom) || !finitePositive(m.Viewport.MaxZoom) {
		return fmt.Errorf("MAP_MIN_ZOOM and MAP_MAX_ZOOM must be positive")
	}
	if m.Viewport.MaxZoom < m.Viewport.MinZoom {
		return fmt.Errorf("MAP_MAX_ZOOM (%v) must not be below MAP_MIN_ZOOM (%v)", m.Viewport.MaxZoom, m.Viewport.MinZoom)
	}
	if !(m.Viewport.ZoomFactor > 1) || math.IsInf(m.Viewport.ZoomFactor, 0) {
		return fmt.Errorf("MAP_ZOOM_FACTOR must be greater than 1")
	}
	if !finitePositive(m.Shell.Width) || !finitePositive(m.Shell.Height) {
		return fmt.Errorf("MAP_WIDTH and MAP_HEIGHT must be positive")
	}
	if err := validateDurations(map[string]time.Duration{
		"MAP_ZOOM_DEBOUNCE":        m.Shell.ZoomDebounce,
		"MAP_SCROLL_HINT_DURATION": m.Shell.ScrollHintDuration,
		"MAP_TOUCH_HINT_DURATION":  m.Shell.TouchHintDuration,
		"MAP_TAP_MAX_DURATION":     m.Tap.MaxDuration,
	}); err != nil {
		return err
	}
	if !finitePositive(m.Tap.MaxDistance) {
		return fmt.Errorf("MAP_TAP_MAX_DISTANCE must be positive")
	}
	if !(models.Coordinates{Lon: m.CenterLon, Lat: m.CenterLat}).Valid() {
		return fmt.Errorf("MAP_CENTER_LON/MAP_CENTER_LAT must be valid WGS84 coordinates")
	}
	if m.RenderCacheSize < 1 {
		return fmt.Errorf("RENDER_CACHE_SIZE must be at least 1")
	}
	return nil
}

func validateDurations(fields map[string]time.Duration) error {
	for name, d := range fields {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %v", name, d)
		}
	}
	return nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}

// validateCategories checks each category's shape and that every geometry
// source a category is drawn on is loaded by some category.
func (c *Config) validateCategories() error {
	seen := make(map[models.Category]bool, len(c.Categories))
	loaded := make(map[string]string)

	for i, cat := range c.Categories {
		if verr := validation.ValidateStruct(&cat); verr != nil {
			return fmt.Errorf("categories[%d]: %w", i, verr)
		}
		if seen[cat.Name] {
			return fmt.Errorf("categories[%d]: duplicate category %q", i, cat.Name)
		}
		seen[cat.Name] = true

		if cat.Geometry == "" {
			continue
		}
		if prev, ok := loaded[cat.SourceID()]; ok && prev != cat.Geometry {
			return fmt.Errorf("categories[%d]: source %q is loaded from both %s and %s", i, cat.SourceID(), prev, cat.Geometry)
		}
		loaded[cat.SourceID()] = cat.Geometry
	}

	for i, cat := range c.Categories {
		if _, ok := loaded[cat.SourceID()]; !ok {
			return fmt.Errorf("categories[%d]: no category loads geometry for source %q", i, cat.SourceID())
		}
		if cat.MapKind() == models.KindMarker && cat.Catalog == "" {
			return fmt.Errorf("categories[%d]: marker category %q requires a catalog", i, cat.Name)
		}
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateCORS requires every origin to be "*" or a bare http(s) origin.
func (c *Config) validateCORS() error {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			continue
		}
		if err := validateHTTPURL(origin, "CORS_ORIGINS"); err != nil {
			return err
		}
	}
	return nil
}

// hasWildcardCORS checks if CORS is configured with wildcard origins
func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// ShouldWarnAboutCORS reports a wildcard origin in production, where
// any site could open map sessions and toggle selections.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.hasWildcardCORS()
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}

	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateWebSocket() error {
	if verr := validation.ValidateStruct(&c.WebSocket); verr != nil {
		return fmt.Errorf("websocket: %w", verr)
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
