// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package models

import (
	"strings"

	"github.com/goccy/go-json"
)

// Status is the visitation state of a map item.
type Status string

const (
	// StatusUnvisited is the default for any item without a live selection record.
	StatusUnvisited Status = "unvisited"

	// StatusVisited marks an item the user has been to.
	StatusVisited Status = "visited"

	// StatusBucketList marks an item the user wants to visit.
	StatusBucketList Status = "bucketList"
)

// AllStatuses lists every status in legend order.
var AllStatuses = []Status{StatusVisited, StatusBucketList, StatusUnvisited}

// ParseStatus converts a wire value into a Status.
// Empty and unknown values map to StatusUnvisited so that a malformed record
// degrades to the default state instead of failing the render.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "visited":
		return StatusVisited
	case "bucketlist", "bucket-list", "bucket_list":
		return StatusBucketList
	default:
		return StatusUnvisited
	}
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusUnvisited, StatusVisited, StatusBucketList:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if s == "" {
		return string(StatusUnvisited)
	}
	return string(s)
}

// UnmarshalJSON accepts any string and normalizes it with ParseStatus.
// Non-string values (null, numbers) decode as StatusUnvisited.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = StatusUnvisited
		return nil
	}
	*s = ParseStatus(raw)
	return nil
}

// CyclePolicy returns the status that follows current when an item is toggled.
// The map engine never applies it; the domain layer owning persisted state does.
type CyclePolicy func(current Status) Status

// DefaultCycle advances unvisited -> visited -> bucketList -> unvisited.
func DefaultCycle(current Status) Status {
	switch current {
	case StatusVisited:
		return StatusBucketList
	case StatusBucketList:
		return StatusUnvisited
	default:
		return StatusVisited
	}
}
