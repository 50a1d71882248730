// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package scene turns map state into drawing calls.

A frame is composed of three layers plus overlays:

  - Background: the base geometry of the active source. It is built once per
    source id and reused for every later frame.
  - Regions or markers: a retained Layer of leaves keyed by item id. A leaf
    is rebuilt only when its VisualItem (id, name, status, size tier,
    coordinates) differs from the last reconcile.
  - Hints and the tooltip: screen-space overlays outside the map transform.

# Shell

Shell owns the committed Transform and the debounced zoom. The transform is
replaced only when the viewport reports a committed change; the zoom handed
to children settles 150ms after the last change, so marker size tiers do not
thrash during a pinch. Wheel input without Ctrl or Meta shows a hint instead
of zooming. A single-finger touch pan shows a touch hint that stays up while
two or more fingers are down.

# Drawing

Drawer receives screen-pixel coordinates only. Optional FrameDrawer,
LayerDrawer and OverlayDrawer interfaces let a backend emit grouping
elements and hints; backends that do not implement them still receive every
path and icon.

Nothing in this package is safe for concurrent use. Each surface drives its
scene from one control flow.
*/
package scene
