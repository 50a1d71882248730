// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package websocket

import (
	"errors"

	"github.com/goccy/go-json"

	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/surface"
)

// Client to server message types
const (
	MessageTypePointerDown   = "pointer_down"
	MessageTypePointerUp     = "pointer_up"
	MessageTypePointerMove   = "pointer_move"
	MessageTypePointerLeave  = "pointer_leave"
	MessageTypePointerCancel = "pointer_cancel"
	MessageTypeWheel         = "wheel"
	MessageTypeTouch         = "touch"
	MessageTypeScroll        = "scroll"
	MessageTypeZoomIn        = "zoom_in"
	MessageTypeZoomOut       = "zoom_out"
	MessageTypeZoomTo        = "zoom_to"
	MessageTypeDragEnd       = "drag_end"
	MessageTypeLegend        = "legend"
	MessageTypePing          = "ping"
)

// Server to client message types
const (
	MessageTypeFrame            = "frame"
	MessageTypeTooltipMove      = "tooltip_move"
	MessageTypeTooltip          = "tooltip"
	MessageTypeHint             = "hint"
	MessageTypeSelectionChanged = "selection_changed"
	MessageTypeNavigate         = "navigate"
	MessageTypeError            = "error"
	MessageTypePong             = "pong"
)

// ErrUnknownMessage is returned for client messages with an unrecognized type.
var ErrUnknownMessage = errors.New("unknown message type")

// Message represents an outbound WebSocket message
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ClientMessage is an inbound message. Data is decoded once the type is known.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// FrameData carries one rendered SVG frame.
type FrameData struct {
	Category models.Category       `json:"category"`
	Seq      uint64                `json:"seq"`
	SVG      string                `json:"svg"`
	Zoom     float64               `json:"zoom"`
	Center   models.Coordinates    `json:"center"`
	Legend   []surface.LegendEntry `json:"legend"`
}

// TooltipMoveData is a tooltip position in surface pixels.
type TooltipMoveData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TooltipData is a tooltip content change.
type TooltipData struct {
	Text    string `json:"text"`
	Visible bool   `json:"visible"`
}

// HintData reports a hint showing or hiding.
type HintData struct {
	ID      string `json:"id"`
	Text    string `json:"text,omitempty"`
	Visible bool   `json:"visible"`
}

// SelectionChangedData is broadcast to every session of a category when its
// selection list changes.
type SelectionChangedData struct {
	Category   models.Category    `json:"category"`
	Selections []models.Selection `json:"selections"`
}

// NavigateData asks the client to open the drill-down page of a region.
type NavigateData struct {
	Category models.Category `json:"category"`
	RegionID string          `json:"region_id"`
	Path     string          `json:"path"`
}

// ErrorData reports a rejected client message.
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

// ZoomToRequest centers the map on a point, as when expanding a marker cluster.
type ZoomToRequest struct {
	Center models.Coordinates `json:"center"`
	Zoom   float64            `json:"zoom" validate:"gte=0,lte=24"`
}

// DragEndRequest commits the position at the end of a pan or pinch.
type DragEndRequest struct {
	Center models.Coordinates `json:"center"`
	Zoom   float64            `json:"zoom" validate:"gte=0,lte=24"`
}

// LegendRequest toggles, sets or resets legend visibility.
type LegendRequest struct {
	Status  models.Status `json:"status" validate:"required_without=Reset,omitempty,map_status"`
	Visible *bool         `json:"visible,omitempty"`
	Reset   bool          `json:"reset,omitempty"`
}

// MarshalMessage converts a message to JSON
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
