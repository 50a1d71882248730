// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package gesture classifies pointer input on map elements and cleans up
pointer capture left behind by pan and zoom handling.

# Tap Disambiguation

A Tap tracks one press per element. On pointer up the press is a tap when
it lasted less than 500ms and moved less than 15px; anything else is a drag
and is left to the viewport. Leaving the element mid-press abandons it.

	tap := gesture.NewTap(func() { toggle(id, status) }, gesture.Thresholds{}, clk)
	tap.OnPointerDown(ev)
	if tap.OnPointerUp(ev2) {
		// toggle already forwarded
	}

# Capture Recovery

The pan handler captures the pointer on the transform element so drags keep
tracking outside it. CaptureRecovery listens for pointer up and cancel on
the event bus and releases any capture still held by the target's ancestors
or anywhere under the surface root. Errors and panics from capture queries
are swallowed and counted (map_pointer_capture_failures_total).
*/
package gesture
