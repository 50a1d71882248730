// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package config loads and validates Wayfarer's configuration.

# Configuration Sources

Koanf v2 merges three layers, later layers winning:
  - Struct defaults (Default)
  - An optional YAML file: $CONFIG_PATH, ./config.yaml, /etc/wayfarer/config.yaml
  - Environment variables listed in envMappings

Categories are lists of structs and can only come from the YAML file.

# Configuration Structure

  - MapConfig: viewport bounds, shell size and timings, tap thresholds,
    tooltip offset, initial camera, render cache
  - CategoryConfig: one selectable category (kind, geometry, catalog)
  - ServerConfig: HTTP listen address and timeouts
  - SecurityConfig: rate limits and CORS origins
  - websocket.Config: pointer-move throttling and buffer sizes
  - LoggingConfig: zerolog level and format

# Environment Variables

HTTP Server:
  - HTTP_HOST, HTTP_PORT (default: 3857), HTTP_TIMEOUT, ENVIRONMENT

Map Surface:
  - MAP_MIN_ZOOM, MAP_MAX_ZOOM, MAP_ZOOM_FACTOR
  - MAP_WIDTH, MAP_HEIGHT, MAP_ZOOM_DEBOUNCE
  - MAP_SCROLL_HINT_DURATION, MAP_TOUCH_HINT_DURATION, MAP_SMALL_TIER_BELOW
  - MAP_TAP_MAX_DURATION, MAP_TAP_MAX_DISTANCE
  - MAP_TOOLTIP_OFFSET_X, MAP_TOOLTIP_OFFSET_Y
  - MAP_CENTER_LON, MAP_CENTER_LAT, MAP_INITIAL_ZOOM
  - RENDER_CACHE_SIZE, RENDER_CACHE_TTL

Security:
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS: comma-separated

WebSocket:
  - WS_POINTER_MOVE_RATE, WS_POINTER_MOVE_BURST, WS_SEND_BUFFER, WS_SESSION_QUEUE

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	srv := &http.Server{Addr: cfg.Server.Addr()}

Load validates everything it returns: zoom bounds, positive durations,
category slugs and kinds, that every geometry source a category draws on
is loaded by some category, CORS origins, rate limits and log settings.
*/
package config
