// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package models defines the data contracts shared between the selection map
engine and the host application.

The map engine never owns persisted state. It consumes three inputs from its
collaborators and emits two callbacks:

Inputs:

  - Selection: one record per selected item ({id, status, deleted, updated_at}),
    delivered as an ordered slice per Category. Soft-deleted records count as absent.
  - Item: human-readable metadata ({id, name, coordinates}). Labels fall back
    to the raw id when the name is missing.
  - MapKind: whether a category is drawn as regions (choropleth) or markers.

Callbacks:

  - ToggleFunc(id, currentStatus): fired on a confirmed tap over an item.
  - RegionClickFunc(category, regionID): fired on a tap over the background
    region of a drill-down category.

# Status

Status is one of StatusUnvisited, StatusVisited or StatusBucketList. Decoding
is lenient: unknown values become StatusUnvisited.

The order in which a toggle advances the status is a CyclePolicy supplied by
the domain layer. DefaultCycle implements unvisited -> visited -> bucketList
-> unvisited.

Usage Example:

	next := models.DefaultCycle(models.StatusVisited) // StatusBucketList
	label := models.Item{ID: "CA"}.Label()            // "CA"
*/
package models
