// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package surface

import (
	"math"
	"strings"

	"github.com/tomtom215/wayfarer/internal/cache"
	"github.com/tomtom215/wayfarer/internal/eventbus"
	"github.com/tomtom215/wayfarer/internal/geometry"
	"github.com/tomtom215/wayfarer/internal/gesture"
	"github.com/tomtom215/wayfarer/internal/metrics"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/scene"
)

// Element id prefixes for items and background regions.
const (
	itemPrefix   = "item:"
	regionPrefix = "region:"
)

// hitSlop widens the marker hit area beyond the icon radius.
const hitSlop = 4.0

// ItemElementID returns the render tree id of an item.
func ItemElementID(id string) string { return itemPrefix + id }

// RegionElementID returns the render tree id of a background region.
func RegionElementID(id string) string { return regionPrefix + id }

// PointerDown starts a press. The pan layer captures the pointer, the way
// a pan/zoom library does, and the element under the pointer starts
// tracking a tap.
func (m *Map) PointerDown(ev gesture.PointerEvent) {
	if m.closed {
		return
	}
	target := m.HitTest(scene.Point{X: ev.X, Y: ev.Y})

	if ev.Type == gesture.PointerTouch {
		m.bus.Publish(eventbus.Event{Kind: eventbus.KindTouchStart, PointerID: ev.PointerID, X: ev.X, Y: ev.Y, Target: target, Time: m.opts.Clock.Now()})
	}
	if ev.Button != gesture.ButtonPrimary {
		return
	}

	m.transform.SetPointerCapture(ev.PointerID)
	if target == "" {
		m.pressed = ""
		return
	}
	if el := m.elements[target]; el != nil {
		el.SetPointerCapture(ev.PointerID)
	}
	m.pressed = target
	m.tapFor(target).OnPointerDown(ev)
}

// PointerMove updates hover state and the tooltip. Moving off the pressed
// element abandons its tap.
func (m *Map) PointerMove(ev gesture.PointerEvent) {
	if m.closed {
		return
	}
	p := scene.Point{X: ev.X, Y: ev.Y}
	target := m.HitTest(p)

	if m.pressed != "" && target != m.pressed {
		m.leavePressed()
	}

	if target == "" {
		m.tooltip.Hide()
	} else if m.tooltip.Visible() && m.tooltip.Owner() == target {
		m.tooltip.Move(p)
	} else {
		m.tooltip.ShowFor(target, m.labelFor(target), p)
	}
	m.hovered = target
}

// PointerUp ends a press. A tap on an item forwards it to the toggle
// callback; a tap on a background region of a drill-down category forwards
// it to the region callback. Pointer captures are then recovered.
func (m *Map) PointerUp(ev gesture.PointerEvent) {
	if m.closed {
		return
	}
	pressed := m.pressed
	if pressed != "" {
		if m.HitTest(scene.Point{X: ev.X, Y: ev.Y}) != pressed {
			m.leavePressed()
		} else {
			m.tapFor(pressed).OnPointerUp(ev)
		}
	}
	m.pressed = ""

	target := pressed
	if target == "" {
		target = ElementTransform
	}
	m.bus.Publish(eventbus.Event{Kind: eventbus.KindPointerUp, PointerID: ev.PointerID, X: ev.X, Y: ev.Y, Target: target, Time: m.opts.Clock.Now()})
}

// PointerCancel abandons the press and recovers pointer captures.
func (m *Map) PointerCancel(ev gesture.PointerEvent) {
	if m.closed {
		return
	}
	target := m.pressed
	m.leavePressed()
	if target == "" {
		target = ElementTransform
	}
	m.bus.Publish(eventbus.Event{Kind: eventbus.KindPointerCancel, PointerID: ev.PointerID, Target: target, Time: m.opts.Clock.Now()})
}

// PointerLeave handles the pointer leaving the surface.
func (m *Map) PointerLeave(gesture.PointerEvent) {
	if m.closed {
		return
	}
	m.leavePressed()
	m.tooltip.Hide()
	m.hovered = ""
}

// Hovered returns the element id under the pointer.
func (m *Map) Hovered() string { return m.hovered }

// Pressed returns the element id of the press in progress.
func (m *Map) Pressed() string { return m.pressed }

// HitTest returns the element id under the screen point p: a visible
// marker within its icon radius first, then the region beneath. It returns
// "" over empty map.
func (m *Map) HitTest(p scene.Point) string {
	t := m.shell.Transform()
	filter := m.legend.Filter()
	idx := m.index()

	if m.props.Kind == models.KindMarker {
		if id, ok := m.markerAt(p, t); ok && filter.Allows(idx.Get(id)) {
			return ItemElementID(id)
		}
	}
	if m.props.Source == nil {
		return ""
	}
	r, ok := m.props.Source.RegionAt(t.Invert(p))
	if !ok {
		return ""
	}
	if m.props.Kind == models.KindRegion {
		if !filter.Allows(idx.Get(r.ID)) {
			return ""
		}
		return ItemElementID(r.ID)
	}
	if m.props.RegionClickEnabled {
		return RegionElementID(r.ID)
	}
	return ""
}

// markerAt finds the nearest marker whose icon covers p. The spatial grid
// narrows candidates by ground distance; the final test is in screen space.
func (m *Map) markerAt(p scene.Point, t scene.Transform) (string, bool) {
	if t.Scale <= 0 || m.grid.Size() == 0 {
		return "", false
	}
	geo := geometry.UnprojectUnit(t.Invert(p))
	if !geo.Valid() {
		return "", false
	}

	size := scene.MarkerSizeDefault
	if m.shell.State().Tier == scene.TierSmall {
		size = scene.MarkerSizeSmall
	}
	radius := size/2 + hitSlop

	cos := math.Max(math.Cos(geo.Lat*math.Pi/180), 0.01)
	kmPerPx := 2 * math.Pi * cache.EarthRadiusKm * cos / t.Scale
	hits := m.grid.QueryNearby(geo, 2*radius*kmPerPx)

	best, bestDist := "", math.Inf(1)
	filter := m.legend.Filter()
	idx := m.index()
	for _, h := range hits {
		it, ok := m.itemsByID[h.ID]
		if !ok || it.Coordinates == nil {
			continue
		}
		if !filter.Allows(idx.Get(h.ID)) {
			continue
		}
		sp := t.Apply(geometry.ProjectUnit(*it.Coordinates))
		d := math.Hypot(sp.X-p.X, sp.Y-p.Y)
		if d <= radius && d < bestDist {
			best, bestDist = h.ID, d
		}
	}
	return best, best != ""
}

func (m *Map) tapFor(target string) *gesture.Tap {
	if tap, ok := m.taps[target]; ok {
		return tap
	}
	tap := gesture.NewTap(func() { m.activate(target) }, m.opts.Tap, m.opts.Clock)
	m.taps[target] = tap
	return tap
}

func (m *Map) leavePressed() {
	if m.pressed == "" {
		return
	}
	if tap, ok := m.taps[m.pressed]; ok {
		tap.OnPointerLeave()
	}
	m.pressed = ""
}

func (m *Map) activate(target string) {
	if m.closed {
		return
	}
	switch {
	case strings.HasPrefix(target, itemPrefix):
		id := strings.TrimPrefix(target, itemPrefix)
		current := m.StatusOf(id)
		metrics.RecordToggle(string(m.props.Category))
		m.log.Debug().Str("item", id).Str("status", current.String()).Msg("item toggled")
		if m.props.OnToggle != nil {
			m.props.OnToggle(id, current)
		}
	case strings.HasPrefix(target, regionPrefix):
		id := strings.TrimPrefix(target, regionPrefix)
		if !m.props.RegionClickEnabled || m.props.OnRegionClick == nil {
			return
		}
		m.log.Debug().Str("region", id).Msg("background region clicked")
		m.props.OnRegionClick(m.props.Category, id)
	}
}

func (m *Map) labelFor(target string) string {
	switch {
	case strings.HasPrefix(target, itemPrefix):
		return m.itemFor(strings.TrimPrefix(target, itemPrefix)).Label()
	case strings.HasPrefix(target, regionPrefix):
		id := strings.TrimPrefix(target, regionPrefix)
		if m.props.Source != nil {
			if r, ok := m.props.Source.Region(id); ok && r.Name != "" {
				return r.Name
			}
		}
		return id
	}
	return target
}

// buildTree rebuilds the leaf elements under the layer element. The root,
// transform and layer elements are fixed for the life of the Map.
func (m *Map) buildTree() {
	m.layerEl.Clear()
	m.elements = map[string]*gesture.Element{
		ElementRoot:      m.root,
		ElementTransform: m.transform,
		ElementLayer:     m.layerEl,
	}
	for _, id := range m.itemIDs() {
		if id == "" {
			continue
		}
		eid := ItemElementID(id)
		m.elements[eid] = m.layerEl.Append(gesture.NewElement(eid))
	}
	if m.props.Kind == models.KindMarker && m.props.RegionClickEnabled && m.props.Source != nil {
		for _, r := range m.props.Source.Regions {
			eid := RegionElementID(r.ID)
			m.elements[eid] = m.layerEl.Append(gesture.NewElement(eid))
		}
	}
	for id := range m.taps {
		if _, ok := m.elements[id]; !ok {
			delete(m.taps, id)
		}
	}
}

func (m *Map) resolve(id string) gesture.Node {
	if el, ok := m.elements[id]; ok && el != nil {
		return el
	}
	return nil
}
