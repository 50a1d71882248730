// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"net/http"
	"strconv"

	"github.com/tomtom215/wayfarer/internal/models"
)

// ToggleRequest is the body of POST /api/v1/maps/{category}/toggle.
// Current is the status the client saw; when omitted the stored status
// is used.
type ToggleRequest struct {
	ID      string         `json:"id" validate:"required,max=256"`
	Current *models.Status `json:"current,omitempty" validate:"omitempty,map_status"`
}

// RenderRequest holds the query parameters of the render endpoints.
type RenderRequest struct {
	Zoom   *float64        `validate:"omitempty,gt=0"`
	Lon    *float64        `validate:"omitempty,longitude"`
	Lat    *float64        `validate:"omitempty,latitude"`
	Width  int             `validate:"omitempty,gte=64,lte=4096"`
	Height int             `validate:"omitempty,gte=64,lte=4096"`
	Hide   []models.Status `validate:"dive,map_status"`
}

// parseRenderRequest reads zoom, lon, lat, width, height and hide from the
// query string. Syntax errors are returned as APIErrors; range checks are
// left to validateRequest.
func parseRenderRequest(r *http.Request) (RenderRequest, *APIError) {
	var req RenderRequest
	var err error
	badRequest := func(err error) *APIError {
		return &APIError{Code: ErrCodeBadRequest, Message: err.Error()}
	}

	if req.Zoom, err = getFloatParam(r, "zoom"); err != nil {
		return req, badRequest(err)
	}
	if req.Lon, err = getFloatParam(r, "lon"); err != nil {
		return req, badRequest(err)
	}
	if req.Lat, err = getFloatParam(r, "lat"); err != nil {
		return req, badRequest(err)
	}
	if (req.Lon == nil) != (req.Lat == nil) {
		return req, &APIError{Code: ErrCodeBadRequest, Message: "lon and lat must be given together"}
	}
	if req.Width, err = getIntParam(r, "width", 0); err != nil {
		return req, badRequest(err)
	}
	if req.Height, err = getIntParam(r, "height", 0); err != nil {
		return req, badRequest(err)
	}
	req.Hide = parseStatuses(r.URL.Query().Get("hide"))
	return req, nil
}

// cacheKey normalizes the request so equivalent queries share a cache entry.
func (req RenderRequest) cacheKey() string {
	key := "z=" + optFloat(req.Zoom) +
		"&lon=" + optFloat(req.Lon) +
		"&lat=" + optFloat(req.Lat) +
		"&w=" + strconv.Itoa(req.Width) +
		"&h=" + strconv.Itoa(req.Height) +
		"&hide="
	// Statuses are few; order them by their fixed legend order.
	for _, s := range models.AllStatuses {
		for _, hidden := range req.Hide {
			if hidden == s {
				key += string(s) + ","
				break
			}
		}
	}
	return key
}

func optFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'g', -1, 64)
}
