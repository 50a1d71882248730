// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package status

import "github.com/tomtom215/wayfarer/internal/models"

// Visibility is the legend's per-status show/hide state.
type Visibility struct {
	Visited    bool `json:"visited"`
	BucketList bool `json:"bucketList"`
	Unvisited  bool `json:"unvisited"`
}

// AllVisible is the default legend state.
func AllVisible() Visibility {
	return Visibility{Visited: true, BucketList: true, Unvisited: true}
}

// Filter returns nil when every status is visible so that renderers can skip
// per-item filtering entirely; otherwise it returns a copy of v.
func (v Visibility) Filter() *Visibility {
	if v.Visited && v.BucketList && v.Unvisited {
		return nil
	}
	c := v
	return &c
}

// Allows reports whether items with status s are shown. A nil filter shows everything.
func (v *Visibility) Allows(s models.Status) bool {
	if v == nil {
		return true
	}
	switch s {
	case models.StatusVisited:
		return v.Visited
	case models.StatusBucketList:
		return v.BucketList
	default:
		return v.Unvisited
	}
}

// Toggle flips the visibility of s.
func (v *Visibility) Toggle(s models.Status) {
	v.Set(s, !v.Allows(s))
}

// Set shows or hides s.
func (v *Visibility) Set(s models.Status, visible bool) {
	switch s {
	case models.StatusVisited:
		v.Visited = visible
	case models.StatusBucketList:
		v.BucketList = visible
	default:
		v.Unvisited = visible
	}
}
