// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package supervisor runs Wayfarer's long-lived services under suture v4.

The tree has two layers:

	RootSupervisor ("wayfarer")
	├── MessagingSupervisor ("messaging-layer")
	│   ├── WebSocketHubService
	│   └── SelectionBridgeService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff; a restart of the hub ends
the live map sessions it held, and clients reconnect. Supervisor events are
logged through the sutureslog hook, which main wires to zerolog with
logging.NewSlogLogger.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(services.NewWebSocketHubService(hub))
	tree.AddMessagingService(services.NewSelectionBridgeService(store, hub))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	err = tree.Serve(ctx)
*/
package supervisor
