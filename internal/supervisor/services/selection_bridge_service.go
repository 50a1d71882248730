// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package services

import (
	"context"

	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/selection"
)

// SelectionSource matches *selection.Store.
type SelectionSource interface {
	Subscribe(fn selection.Listener) (unsubscribe func())
	Categories() []models.Category
	List(c models.Category) []models.Selection
}

// SelectionSink matches *websocket.Hub.
type SelectionSink interface {
	BroadcastSelections(category models.Category, list []models.Selection)
}

// SelectionBridgeService forwards every selection change to the hub while
// it runs.
//
// Each start replays the current list of every category, so sessions that
// outlived a restart of the bridge catch up on changes made in between.
type SelectionBridgeService struct {
	source SelectionSource
	sink   SelectionSink
	name   string
}

// NewSelectionBridgeService creates the bridge from source to sink.
func NewSelectionBridgeService(source SelectionSource, sink SelectionSink) *SelectionBridgeService {
	return &SelectionBridgeService{
		source: source,
		sink:   sink,
		name:   "selection-bridge",
	}
}

// Serve implements suture.Service. It returns ctx.Err() on shutdown.
func (s *SelectionBridgeService) Serve(ctx context.Context) error {
	unsubscribe := s.source.Subscribe(s.sink.BroadcastSelections)
	defer unsubscribe()

	categories := s.source.Categories()
	for _, c := range categories {
		s.sink.BroadcastSelections(c, s.source.List(c))
	}
	logging.Debug().Int("categories", len(categories)).Msg("selection bridge started")

	<-ctx.Done()
	return ctx.Err()
}

// String implements fmt.Stringer for logging.
func (s *SelectionBridgeService) String() string {
	return s.name
}
