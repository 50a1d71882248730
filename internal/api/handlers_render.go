// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/wayfarer/internal/catalog"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
	"github.com/tomtom215/wayfarer/internal/middleware"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/render/raster"
	"github.com/tomtom215/wayfarer/internal/render/svg"
	"github.com/tomtom215/wayfarer/internal/surface"
)

const (
	formatSVG = "svg"
	formatPNG = "png"
)

var contentTypes = map[string]string{
	formatSVG: "image/svg+xml",
	formatPNG: "image/png",
}

// RenderSVG renders a category as an SVG document.
//
// Query parameters: zoom, lon and lat (together), width, height and hide,
// a comma-separated list of statuses to leave out.
func (h *Handler) RenderSVG(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, formatSVG)
}

// RenderPNG renders a category as a PNG image. It takes the same query
// parameters as RenderSVG.
func (h *Handler) RenderPNG(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, formatPNG)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, format string) {
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

	// The generation is read before the selections so a concurrent toggle
	// can only leave a newer image under an older key.
	key := format + "|" + string(entry.Category) + "|" +
		strconv.FormatUint(h.generation(entry.Category), 10) + "|" + req.cacheKey()

	body, hit := h.renders.Get(key)
	if !hit {
		var err error
		body, err = h.renderMap(entry, req, format)
		if err != nil {
			respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Failed to render map", err)
			return
		}
		h.renders.Add(key, body)
	}

	etag := generateETag(body)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if hit {
		w.Header().Set(middleware.CacheStatusHeader, "HIT")
	} else {
		w.Header().Set(middleware.CacheStatusHeader, "MISS")
	}
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write render")
	}
}

// renderMap builds a one-shot surface for entry and draws a single frame.
func (h *Handler) renderMap(entry catalog.Entry, req RenderRequest, format string) ([]byte, error) {
	m, err := h.newSurface(entry, req)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	start := time.Now()
	var buf bytes.Buffer
	switch format {
	case formatSVG:
		m.Render(svg.New(&buf))
	case formatPNG:
		shell := m.Shell().Config()
		canvas := raster.New(int(shell.Width), int(shell.Height))
		m.Render(canvas)
		if err := canvas.EncodePNG(&buf); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported render format %q", format)
	}
	metrics.RecordRender(format, time.Since(start))
	return buf.Bytes(), nil
}

// newSurface builds a one-shot surface for entry with the request's hidden
// statuses applied.
func (h *Handler) newSurface(entry catalog.Entry, req RenderRequest) (*surface.Map, error) {
	props, opts, err := h.surfaceConfig(entry, req)
	if err != nil {
		return nil, err
	}
	m := surface.New(props, opts)
	for _, s := range req.Hide {
		m.Legend().Set(s, false)
	}
	return m, nil
}

// surfaceConfig derives surface props and options from the map
// configuration, the category entry and the request's viewport and size.
func (h *Handler) surfaceConfig(entry catalog.Entry, req RenderRequest) (surface.Props, surface.Options, error) {
	src, err := h.geometry.Projected(entry.SourceID)
	if err != nil {
		return surface.Props{}, surface.Options{}, fmt.Errorf("geometry for %s: %w", entry.Category, err)
	}

	mc := h.config.Map
	shell := mc.Shell
	if req.Width > 0 {
		shell.Width = float64(req.Width)
	}
	if req.Height > 0 {
		shell.Height = float64(req.Height)
	}
	initial := mc.InitialPosition()
	if entry.Center != nil {
		initial.Center = *entry.Center
	}
	if req.Zoom != nil {
		initial.Zoom = *req.Zoom
	}
	if req.Lon != nil && req.Lat != nil {
		initial.Center = models.Coordinates{Lon: *req.Lon, Lat: *req.Lat}
	}

	props := surface.Props{
		Category:   entry.Category,
		Kind:       entry.Kind,
		Source:     src,
		Selections: h.store.List(entry.Category),
		Items:      entry.Items,
	}
	opts := surface.Options{
		Clock:    h.clock,
		Viewport: mc.Viewport,
		Initial:  initial,
		Shell:    shell,
		Tap:      mc.Tap,
		Tooltip:  mc.Tooltip,
	}
	return props, opts, nil
}
