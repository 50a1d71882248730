// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/wayfarer/internal/gesture"
	"github.com/tomtom215/wayfarer/internal/scene"
	"github.com/tomtom215/wayfarer/internal/viewport"
	"github.com/tomtom215/wayfarer/internal/websocket"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/wayfarer/config.yaml",
	"/etc/wayfarer/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Default returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func Default() *Config {
	return &Config{
		Map: MapConfig{
			Viewport:        viewport.DefaultConfig(),
			Shell:           scene.DefaultShellConfig(),
			Tap:             gesture.DefaultThresholds(),
			Tooltip:         scene.DefaultTooltipConfig(),
			CenterLon:       0,
			CenterLat:       20,
			InitialZoom:     viewport.DefaultMinZoom,
			RenderCacheSize: 256,
			RenderCacheTTL:  10 * time.Minute,
		},
		Server: ServerConfig{
			Port:        3857,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		WebSocket: websocket.DefaultConfig(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	return loadFrom(findConfigFile())
}

func loadFrom(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// HTTP_PORT -> server.port, MAP_MAX_ZOOM -> map.viewport.max_zoom
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// This is necessary because env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lower-cased) to koanf paths.
// Unmapped variables are ignored so unrelated environment cannot leak into
// the configuration.
var envMappings = map[string]string{
	// Server
	"http_host":    "server.host",
	"http_port":    "server.port",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Map surface
	"map_min_zoom":             "map.viewport.min_zoom",
	"map_max_zoom":             "map.viewport.max_zoom",
	"map_zoom_factor":          "map.viewport.zoom_factor",
	"map_width":                "map.shell.width",
	"map_height":               "map.shell.height",
	"map_zoom_debounce":        "map.shell.zoom_debounce",
	"map_scroll_hint_duration": "map.shell.scroll_hint_duration",
	"map_touch_hint_duration":  "map.shell.touch_hint_duration",
	"map_small_tier_below":     "map.shell.small_tier_below",
	"map_tap_max_duration":     "map.tap.max_duration",
	"map_tap_max_distance":     "map.tap.max_distance",
	"map_tooltip_offset_x":     "map.tooltip.offset_x",
	"map_tooltip_offset_y":     "map.tooltip.offset_y",
	"map_center_lon":           "map.center_lon",
	"map_center_lat":           "map.center_lat",
	"map_initial_zoom":         "map.initial_zoom",
	"render_cache_size":        "map.render_cache_size",
	"render_cache_ttl":         "map.render_cache_ttl",

	// WebSocket map sessions
	"ws_pointer_move_rate":  "websocket.pointer_move_rate",
	"ws_pointer_move_burst": "websocket.pointer_move_burst",
	"ws_send_buffer":        "websocket.send_buffer",
	"ws_session_queue":      "websocket.session_queue",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - MAP_ZOOM_DEBOUNCE -> map.shell.zoom_debounce
//   - WS_POINTER_MOVE_RATE -> websocket.pointer_move_rate
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
