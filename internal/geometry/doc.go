// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package geometry loads base map geometry and projects it for drawing.

Sources are GeoJSON FeatureCollections decoded with paulmach/orb. Polygon and
MultiPolygon features become regions; each region id comes from the feature
id, or else the first non-empty property among "id", "iso_a2", "postal" and
"name" (overridable per category).

Projection is spherical Web Mercator (orb/project) normalized onto the unit
square with y pointing down, so a renderer only needs to scale and translate.
Latitudes beyond ±85.0511° are clamped.

A Registry caches one projection per source id; projecting is the expensive
step that the static background layer must never repeat for an unchanged
source. Region hit testing uses orb/planar containment on the projected
polygons.
*/
package geometry
