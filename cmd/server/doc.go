// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package main is the entry point for the Wayfarer server.
//
// Wayfarer serves interactive selection maps: travelers mark regions and
// points of interest as visited, wishlisted or lived, and the maps render
// those choices as SVG or PNG images or as live websocket sessions.
//
// # Startup
//
//  1. Configuration: defaults, config.yaml and environment (Koanf v2)
//  2. Logging: zerolog, bridged to slog for the supervisor
//  3. Categories: GeoJSON geometry and item catalogs per category
//  4. Selection store and websocket hub
//  5. HTTP API: chi router with CORS, rate limits and Prometheus metrics
//  6. Supervisor tree: hub and selection bridge in the messaging layer,
//     the HTTP server in the api layer
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the root context. The HTTP server drains for up
// to 10 seconds and open map sessions are closed.
//
// # Example Usage
//
//	export CONFIG_PATH=/etc/wayfarer/config.yaml
//	export CORS_ORIGINS=https://maps.example.com
//	./wayfarer
//
// # Port 3857
//
// The default port 3857 references EPSG:3857 (Web Mercator projection),
// the projection every map is drawn in.
package main
