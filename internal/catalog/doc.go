// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package catalog loads item metadata and registers the selectable
// categories. A catalog file is a JSON array of
//
//	{"id": "yose", "name": "Yosemite", "coordinates": {"lon": -119.54, "lat": 37.87}}
//
// Names and coordinates are optional. Region categories may skip the file
// and derive their items from the geometry source.
package catalog
