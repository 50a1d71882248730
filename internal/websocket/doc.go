// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package websocket serves live map sessions over gorilla/websocket.

Each connection gets a Client and a Session. The Client pumps frames between
the socket and the session; the Session owns one surface.Map and runs it on
a single goroutine. Pointer, wheel and touch input decoded on the read
goroutine is posted to the session loop, and so are the surface's timer
callbacks (zoom debounce, hint auto-hide) through clock.OnLoop.

Architecture:

	           ┌──────────┐  selection_changed
	 store ───▶│   Hub    │─────────────┬─────────────┐
	           └──────────┘             │             │
	                               ┌────┴────┐   ┌────┴────┐
	                               │ Client  │   │ Client  │
	                               │ Session │   │ Session │
	                               └─────────┘   └─────────┘

Each client runs three goroutines:
  - readPump: decodes client messages, throttles pointer_move, answers pings
  - writePump: writes queued messages and keepalive pings
  - Session.Run: applies input to the surface and renders frames

Client Messages:

	pointer_down, pointer_up, pointer_move, pointer_leave, pointer_cancel
	    {"pointer_id", "pointer_type", "button", "x", "y"}
	wheel      {"delta_y", "ctrl", "meta"}
	touch      {"touches", "moving"}
	scroll, zoom_in, zoom_out
	zoom_to    {"center": {"lon", "lat"}, "zoom"}
	drag_end   {"center": {"lon", "lat"}, "zoom"}
	legend     {"status", "visible"} or {"reset": true}
	ping

Server Messages:

  - frame: the rendered SVG with zoom, center and legend rows
  - tooltip / tooltip_move: content changes and position writes
  - hint: the scroll or touch hint showing or hiding
  - selection_changed: the category's selection list changed
  - navigate: a background region of a drill-down category was tapped
  - error: a client message was rejected
  - pong

Frames are coalesced: the loop renders at most once per processed input, and
only when the surface invalidated. pointer_move messages beyond the
configured rate are dropped before they reach the loop.

Usage:

	hub := websocket.NewHub()
	go hub.RunWithContext(ctx)

	client := websocket.NewClient(hub, conn, category, cfg)
	client.Attach(websocket.NewSession(props, opts, client, cfg.SessionQueue))
	client.Start(ctx)

	store.Subscribe(hub.BroadcastSelections)

Metrics: websocket_connections_active, websocket_messages_sent_total,
websocket_messages_received_total and websocket_messages_dropped_total
(reason throttled, invalid or buffer_full).
*/
package websocket
