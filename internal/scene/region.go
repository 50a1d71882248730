// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package scene

import "github.com/tomtom215/wayfarer/internal/models"

// Region CSS classes.
const (
	ClassVisited    = "visited"
	ClassBucketList = "bucket-list"
	ClassUnvisited  = "unvisited"
)

// Region fills, one per status.
const (
	RegionFillVisited    Color = "#22c55e"
	RegionFillBucketList Color = "#3b82f6"
	RegionFillUnvisited  Color = "#e5e7eb"
	RegionStroke         Color = "#ffffff"
)

// RegionClass maps a status to its CSS class.
func RegionClass(s models.Status) string {
	switch s {
	case models.StatusVisited:
		return ClassVisited
	case models.StatusBucketList:
		return ClassBucketList
	default:
		return ClassUnvisited
	}
}

// RegionStyle returns the choropleth style for a region item.
func RegionStyle(item VisualItem) PathStyle {
	fill := RegionFillUnvisited
	switch item.Status {
	case models.StatusVisited:
		fill = RegionFillVisited
	case models.StatusBucketList:
		fill = RegionFillBucketList
	}
	return PathStyle{
		Fill:        fill,
		Stroke:      RegionStroke,
		StrokeWidth: 0.75,
		Class:       "region " + RegionClass(item.Status),
		Title:       item.Name,
	}
}
