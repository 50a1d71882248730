// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/wayfarer/internal/catalog"
	"github.com/tomtom215/wayfarer/internal/metrics"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/status"
)

// MapSummary describes one category in GET /api/v1/maps.
type MapSummary struct {
	catalog.Entry
	Counts map[models.Status]int `json:"counts"`
}

// SelectionsResponse is the payload of GET /api/v1/maps/{category}/selections.
type SelectionsResponse struct {
	Category   models.Category       `json:"category"`
	Selections []models.Selection    `json:"selections"`
	Counts     map[models.Status]int `json:"counts"`
}

// ListMaps returns every registered category with its status counts.
func (h *Handler) ListMaps(w http.ResponseWriter, r *http.Request) {
	entries := h.catalog.List()
	out := make([]MapSummary, 0, len(entries))
	for _, e := range entries {
		out = append(out, MapSummary{
			Entry:  e,
			Counts: status.Build(h.store.List(e.Category)).Counts(),
		})
	}
	count := len(out)
	respondSuccess(w, r, http.StatusOK, out, &count)
}

// Selections returns the live selection records of a category. Soft-deleted
// records are included with include_deleted=true.
func (h *Handler) Selections(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookupCategory(w, r)
	if !ok {
		return
	}

	list := h.store.List(entry.Category)
	includeDeleted := r.URL.Query().Get("include_deleted") == "true"
	out := make([]models.Selection, 0, len(list))
	for _, s := range list {
		if s.Deleted && !includeDeleted {
			continue
		}
		out = append(out, s)
	}

	count := len(out)
	respondSuccess(w, r, http.StatusOK, SelectionsResponse{
		Category:   entry.Category,
		Selections: out,
		Counts:     status.Build(list).Counts(),
	}, &count)
}

// Toggle advances one item of a category to its next status.
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookupCategory(w, r)
	if !ok {
		return
	}

	var req ToggleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		msg := "Invalid JSON body"
		if errors.Is(err, ErrEmptyBody) {
			msg = "Request body is required"
		}
		respondError(w, r, http.StatusBadRequest, ErrCodeBadRequest, msg, err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr)
		return
	}
	if !hasItem(entry, req.ID) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound,
			"Item "+sanitizeLogValue(req.ID)+" is not part of "+string(entry.Category), ErrUnknownItem)
		return
	}

	current := status.Build(h.store.List(entry.Category)).Get(req.ID)
	if req.Current != nil {
		current = *req.Current
	}
	rec := h.store.Toggle(entry.Category, req.ID, current)
	metrics.RecordToggle(string(entry.Category))

	respondSuccess(w, r, http.StatusOK, rec, nil)
}

// lookupCategory resolves the {category} URL parameter, answering 404 when
// it is not registered.
func (h *Handler) lookupCategory(w http.ResponseWriter, r *http.Request) (catalog.Entry, bool) {
	c := models.Category(chi.URLParam(r, "category"))
	entry, err := h.catalog.Get(c)
	if err != nil {
		if errors.Is(err, catalog.ErrUnknownCategory) {
			respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Unknown category "+sanitizeLogValue(string(c)), nil)
			return catalog.Entry{}, false
		}
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to resolve category", err)
		return catalog.Entry{}, false
	}
	return entry, true
}

func hasItem(e catalog.Entry, id string) bool {
	for _, it := range e.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}
