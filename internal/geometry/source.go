// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package geometry

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang/geo/s2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/tomtom215/wayfarer/internal/models"
)

var (
	// ErrUnknownSource is returned when a geometry source id is not registered.
	ErrUnknownSource = errors.New("unknown geometry source")

	// ErrNoFeatures is returned when a feature collection holds no polygons.
	ErrNoFeatures = errors.New("geometry source has no polygon features")
)

// DefaultIDProperties are the feature properties consulted, in order, when a
// feature carries no top-level id.
var DefaultIDProperties = []string{"id", "iso_a2", "postal", "name"}

// Feature is one region of a base geometry source, in WGS84 degrees.
type Feature struct {
	ID       string
	Name     string
	Geometry orb.MultiPolygon
}

// Source is an immutable base geometry, identified by ID. Everything derived
// from it (projected paths, the static background) is cached by that ID.
type Source struct {
	ID       string
	Features []Feature
}

// Parse decodes a GeoJSON FeatureCollection. Only Polygon and MultiPolygon
// features are kept. idProps overrides DefaultIDProperties.
func Parse(id string, data []byte, idProps ...string) (*Source, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode geometry %q: %w", id, err)
	}
	if len(idProps) == 0 {
		idProps = DefaultIDProperties
	}

	src := &Source{ID: id}
	for i, f := range fc.Features {
		mp, ok := asMultiPolygon(f.Geometry)
		if !ok {
			continue
		}
		fid := featureID(f, idProps)
		if fid == "" {
			fid = fmt.Sprintf("%s-%d", id, i)
		}
		name := f.Properties.MustString("name", "")
		src.Features = append(src.Features, Feature{ID: fid, Name: name, Geometry: mp})
	}
	if len(src.Features) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFeatures, id)
	}
	return src, nil
}

// LoadFile reads and parses a GeoJSON file.
func LoadFile(id, path string, idProps ...string) (*Source, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("read geometry %q: %w", id, err)
	}
	return Parse(id, data, idProps...)
}

// Feature returns the feature with id, if present.
func (s *Source) Feature(id string) (Feature, bool) {
	for _, f := range s.Features {
		if f.ID == id {
			return f, true
		}
	}
	return Feature{}, false
}

// Bound returns the latitude/longitude rectangle covering every feature.
func (s *Source) Bound() s2.Rect {
	rect := s2.EmptyRect()
	for _, f := range s.Features {
		b := f.Geometry.Bound()
		rect = rect.AddPoint(s2.LatLngFromDegrees(b.Min.Lat(), b.Min.Lon()))
		rect = rect.AddPoint(s2.LatLngFromDegrees(b.Max.Lat(), b.Max.Lon()))
	}
	return rect
}

// Center returns the center of Bound. Categories use it as their initial
// camera when fit_center is set.
func (s *Source) Center() models.Coordinates {
	ll := s.Bound().Center()
	return models.Coordinates{Lon: ll.Lng.Degrees(), Lat: ll.Lat.Degrees()}
}

func asMultiPolygon(g orb.Geometry) (orb.MultiPolygon, bool) {
	switch v := g.(type) {
	case orb.Polygon:
		return orb.MultiPolygon{v}, len(v) > 0
	case orb.MultiPolygon:
		return v, len(v) > 0
	default:
		return nil, false
	}
}

func featureID(f *geojson.Feature, props []string) string {
	switch v := f.ID.(type) {
	case string:
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	case float64:
		return fmt.Sprintf("%g", v)
	}
	for _, p := range props {
		if s := strings.TrimSpace(f.Properties.MustString(p, "")); s != "" {
			return s
		}
	}
	return ""
}
