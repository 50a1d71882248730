// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"net/http"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
	ws "github.com/tomtom215/wayfarer/internal/websocket"
)

// WebSocket upgrades the connection and starts a live map session for the
// category. It accepts the viewport and size query parameters of RenderSVG;
// hide is ignored since the legend is driven by client messages.
//
// Taps toggle through the selection store, so every session of the
// category, including the one that tapped, receives the new list from the
// hub.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.lookupCategory(w, r)
	if !ok {
		return
	}
	req, apiErr := parseRenderRequest(r)
	if apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondErrorDetails(w, r, http.StatusBadRequest, apiErr)
		return
	}
	req.Hide = nil

	props, opts, err := h.surfaceConfig(entry, req)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to prepare map session", err)
		return
	}
	category := entry.Category
	props.OnToggle = func(id string, current models.Status) {
		h.store.Toggle(category, id, current)
	}
	props.RegionClickEnabled = entry.DrillDown

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logging.Ctx(r.Context()).Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	cfg := h.config.WebSocket
	client := ws.NewClient(h.hub, conn, category, cfg)
	client.Attach(ws.NewSession(props, opts, client, cfg.SessionQueue))
	if !client.Start(h.sessions) {
		logging.Ctx(r.Context()).Warn().Str("category", string(category)).Msg("WebSocket session refused: hub stopped")
		return
	}
	logging.Ctx(r.Context()).Debug().
		Str("category", string(category)).
		Uint64("client_id", client.ID()).
		Msg("WebSocket map session started")
}
