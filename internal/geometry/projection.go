// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/tomtom215/wayfarer/internal/models"
)

// MaxLatitude is the Web Mercator latitude limit.
const MaxLatitude = 85.05112878

// mercatorHalfWorld is half the EPSG:3857 world width in meters.
const mercatorHalfWorld = math.Pi * 6378137.0

// ProjectUnit maps WGS84 coordinates onto the unit square: x grows east from
// the antimeridian, y grows south from the northern Mercator limit.
func ProjectUnit(c models.Coordinates) orb.Point {
	return projectPoint(orb.Point{c.Lon, c.Lat})
}

// UnprojectUnit inverts ProjectUnit.
func UnprojectUnit(p orb.Point) models.Coordinates {
	m := orb.Point{
		p[0]*2*mercatorHalfWorld - mercatorHalfWorld,
		mercatorHalfWorld - p[1]*2*mercatorHalfWorld,
	}
	ll := project.Mercator.ToWGS84(m)
	return models.Coordinates{Lon: ll.Lon(), Lat: ll.Lat()}
}

func projectPoint(ll orb.Point) orb.Point {
	lat := math.Max(-MaxLatitude, math.Min(MaxLatitude, ll.Lat()))
	m := project.WGS84.ToMercator(orb.Point{ll.Lon(), lat})
	return orb.Point{
		(m[0] + mercatorHalfWorld) / (2 * mercatorHalfWorld),
		(mercatorHalfWorld - m[1]) / (2 * mercatorHalfWorld),
	}
}

func projectMultiPolygon(mp orb.MultiPolygon) orb.MultiPolygon {
	out := make(orb.MultiPolygon, len(mp))
	for i, poly := range mp {
		p := make(orb.Polygon, len(poly))
		for j, ring := range poly {
			r := make(orb.Ring, len(ring))
			for k, pt := range ring {
				r[k] = projectPoint(pt)
			}
			p[j] = r
		}
		out[i] = p
	}
	return out
}
