// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package validation provides struct validation using go-playground/validator v10.
//
// A thread-safe singleton validator is shared by the HTTP handlers and the
// websocket map sessions. Failures are translated into human-readable
// messages and converted to the API's VALIDATION_ERROR format.
//
// # Custom Tags
//
//   - map_status: one of unvisited, visited, bucketList
//   - category: lowercase slug of up to 64 characters
//   - map_kind: region or marker
//
// # Usage
//
//	type ToggleRequest struct {
//	    ID      string        `json:"id" validate:"required,max=128"`
//	    Current models.Status `json:"current" validate:"omitempty,map_status"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, r, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// Nested structs are validated too, so models.Coordinates fields carry
// their latitude and longitude checks into every request that embeds them.
package validation
