// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package surface composes the map engine into one interactive surface.

A Map takes a category, its base geometry, the selection list, the item
metadata and two callbacks: a toggle callback receiving (id, current status)
for every confirmed tap on an item, and an optional region callback for
taps on the background of drill-down categories. The Map never changes a
status itself; the caller persists the change and hands a new selection
slice back through SetSelections.

# Data flow

	selections -> status.Memo -> scene.Layer -> scene.Shell -> Drawer
	pointer    -> HitTest -> gesture.Tap -> toggle callback

The status index is rebuilt only when the selection slice changes, the
background only when the geometry source changes, and each layer leaf only
when its visual item changes.

# Input

Hosts forward pointer, wheel, touch and scroll input with screen-pixel
coordinates. Markers are hit tested through a spatial hash of their
coordinates, regions through polygon containment on the projected source.
The pan layer captures every pointer on press; pointer capture recovery
releases stale captures on every pointer up and cancel.

# Legend

Legend toggles per-status visibility. With every status visible the filter
is nil and rendering skips the filtering pass.
*/
package surface
