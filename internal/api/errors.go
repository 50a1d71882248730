// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import "errors"

// Common API errors
var (
	// ErrUnknownItem indicates a toggle named an id outside the category's catalog
	ErrUnknownItem = errors.New("unknown item")

	// ErrEmptyBody indicates a write request without a JSON body
	ErrEmptyBody = errors.New("request body is empty")
)
