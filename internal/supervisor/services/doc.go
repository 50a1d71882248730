// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

/*
Package services adapts Wayfarer components to suture.Service.

  - HTTPServerService: ListenAndServe with graceful Shutdown
  - WebSocketHubService: the map session hub
  - SelectionBridgeService: forwards selection store changes to the hub

Each wrapper returns ctx.Err() on a graceful stop and a wrapped error on
failure, which suture answers with a restart.
*/
package services
