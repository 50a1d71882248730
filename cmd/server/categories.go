// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package main

import (
	"fmt"

	"github.com/tomtom215/wayfarer/internal/catalog"
	"github.com/tomtom215/wayfarer/internal/config"
	"github.com/tomtom215/wayfarer/internal/geometry"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
)

// loadCategories loads every configured geometry source and category
// catalog. Geometry is loaded first so a category may draw on a source
// declared by a later entry.
func loadCategories(cfg *config.Config, geo *geometry.Registry, cat *catalog.Registry) error {
	for _, c := range cfg.Categories {
		if c.Geometry == "" {
			continue
		}
		var idProps []string
		if c.IDProperty != "" {
			idProps = []string{c.IDProperty}
		}
		src, err := geometry.LoadFile(c.SourceID(), c.Geometry, idProps...)
		if err != nil {
			return fmt.Errorf("category %s: %w", c.Name, err)
		}
		geo.Add(src)
		logging.Info().
			Str("source", src.ID).
			Int("features", len(src.Features)).
			Msg("Loaded geometry")
	}

	for _, c := range cfg.Categories {
		src, err := geo.Source(c.SourceID())
		if err != nil {
			return fmt.Errorf("category %s: %w", c.Name, err)
		}
		items, err := categoryItems(c, src)
		if err != nil {
			return fmt.Errorf("category %s: %w", c.Name, err)
		}
		entry := catalog.Entry{
			Category:  c.Name,
			Kind:      c.MapKind(),
			SourceID:  src.ID,
			DrillDown: c.DrillDown,
			Items:     items,
		}
		if c.FitCenter {
			center := src.Center()
			entry.Center = &center
		}
		if err := cat.Register(entry); err != nil {
			return err
		}
		logging.Info().
			Str("category", string(c.Name)).
			Str("kind", string(entry.Kind)).
			Int("items", len(items)).
			Msg("Registered category")
	}
	return nil
}

func categoryItems(c config.CategoryConfig, src *geometry.Source) ([]models.Item, error) {
	if c.Catalog != "" {
		return catalog.Load(c.Catalog)
	}
	if c.MapKind() == models.KindMarker {
		return nil, fmt.Errorf("marker category needs a catalog file")
	}
	return catalog.FromSource(src)
}
