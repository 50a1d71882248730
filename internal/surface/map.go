// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package surface

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wayfarer/internal/cache"
	"github.com/tomtom215/wayfarer/internal/clock"
	"github.com/tomtom215/wayfarer/internal/eventbus"
	"github.com/tomtom215/wayfarer/internal/geometry"
	"github.com/tomtom215/wayfarer/internal/gesture"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/scene"
	"github.com/tomtom215/wayfarer/internal/status"
	"github.com/tomtom215/wayfarer/internal/viewport"
)

// ErrClosed is returned by setters called after Close.
var ErrClosed = errors.New("surface: map closed")

// Element ids of the fixed part of the render tree.
const (
	ElementRoot      = "surface"
	ElementTransform = "transform"
	ElementLayer     = "layer"
)

// Props is the data a host hands to a Map.
type Props struct {
	Category models.Category
	Kind     models.MapKind
	// Source is the projected base geometry. Region maps color its regions;
	// marker maps draw it as background only.
	Source     *geometry.Projected
	Selections []models.Selection
	Items      []models.Item
	OnToggle   models.ToggleFunc
	// OnRegionClick fires for taps on background regions of a marker map
	// when RegionClickEnabled is set.
	OnRegionClick      models.RegionClickFunc
	RegionClickEnabled bool
}

// Options configure the engine around a Map.
type Options struct {
	// Clock delivers every deferred callback. Hosts bind it to the control
	// flow that calls the Map (clock.OnLoop); nil means the real clock.
	Clock    clock.Clock
	Bus      *eventbus.Bus
	Viewport viewport.Config
	Initial  viewport.Position
	Shell    scene.ShellConfig
	Tap      gesture.Thresholds
	Tooltip  scene.TooltipConfig
	// TooltipSink receives tooltip positions.
	TooltipSink scene.PositionSink
	// OnInvalidate is called whenever the map needs to be redrawn.
	OnInvalidate func()
	OnHint       func(id string, visible bool)
	OnTooltip    func(text string, visible bool)
}

// Map composes the viewport, shell, layers, gesture handling, tooltip and
// legend into one interactive surface. A Map is driven from a single
// control flow and is not safe for concurrent use.
type Map struct {
	props Props
	opts  Options
	log   zerolog.Logger

	bus      *eventbus.Bus
	vp       *viewport.Controller
	shell    *scene.Shell
	tooltip  *scene.Tooltip
	legend   *Legend
	recovery *gesture.CaptureRecovery

	memo       status.Memo
	background scene.Background
	layer      *scene.Layer
	grid       *cache.SpatialHashGrid
	itemsByID  map[string]models.Item

	root      *gesture.Element
	transform *gesture.Element
	layerEl   *gesture.Element
	elements  map[string]*gesture.Element
	taps      map[string]*gesture.Tap
	pressed   string
	hovered   string

	closed bool
}

// New builds a Map for props.
func New(props Props, opts Options) *Map {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if props.Kind == "" {
		props.Kind = models.KindRegion
	}
	if opts.Tooltip == (scene.TooltipConfig{}) {
		opts.Tooltip = scene.DefaultTooltipConfig()
	}
	initial := opts.Initial
	if initial.Zoom == 0 {
		initial.Zoom = viewport.DefaultMinZoom
	}

	m := &Map{
		props: props,
		opts:  opts,
		log:   logging.WithComponent("surface").With().Str("category", string(props.Category)).Logger(),
		bus:   opts.Bus,
		taps:  make(map[string]*gesture.Tap),
	}
	if m.bus == nil {
		m.bus = eventbus.New()
	}

	layerKind := scene.LayerRegions
	if props.Kind == models.KindMarker {
		layerKind = scene.LayerMarkers
	}
	m.layer = scene.NewLayer(layerKind)
	m.vp = viewport.New(opts.Viewport, initial)
	m.shell = scene.NewShell(m.vp, opts.Shell, scene.ShellOptions{
		Clock:        opts.Clock,
		OnInvalidate: m.invalidate,
		OnHint:       opts.OnHint,
	})
	m.tooltip = scene.NewTooltip(m.bus, opts.TooltipSink, opts.Tooltip, opts.OnTooltip)
	m.legend = newLegend(func(status.Visibility) { m.invalidate() })

	m.root = gesture.NewElement(ElementRoot)
	m.transform = m.root.Append(gesture.NewElement(ElementTransform))
	m.layerEl = m.transform.Append(gesture.NewElement(ElementLayer))
	m.recovery = gesture.NewCaptureRecovery(m.root, m.bus, m.resolve)
	m.indexItems()

	m.log.Debug().Str("kind", string(props.Kind)).Int("items", len(props.Items)).Msg("map surface created")
	return m
}

// Category returns the map's category.
func (m *Map) Category() models.Category { return m.props.Category }

// Kind returns how the map draws its items.
func (m *Map) Kind() models.MapKind { return m.props.Kind }

// Viewport returns the camera controller.
func (m *Map) Viewport() *viewport.Controller { return m.vp }

// Shell returns the render shell.
func (m *Map) Shell() *scene.Shell { return m.shell }

// Tooltip returns the tooltip overlay.
func (m *Map) Tooltip() *scene.Tooltip { return m.tooltip }

// Legend returns the legend control.
func (m *Map) Legend() *Legend { return m.legend }

// Bus returns the event bus carrying global input events.
func (m *Map) Bus() *eventbus.Bus { return m.bus }

// Recovery returns the pointer-capture recovery.
func (m *Map) Recovery() *gesture.CaptureRecovery { return m.recovery }

// Element returns the render tree element with id, or nil.
func (m *Map) Element(id string) *gesture.Element { return m.elements[id] }

// Background returns the static background layer.
func (m *Map) Background() *scene.Background { return &m.background }

// Layer returns the retained item layer.
func (m *Map) Layer() *scene.Layer { return m.layer }

// IndexBuilds returns how many times the status index was rebuilt.
func (m *Map) IndexBuilds() int { return m.memo.Builds() }

// SetSelections replaces the selection list. Pass a new slice for every
// change; the status index is keyed by slice identity.
func (m *Map) SetSelections(list []models.Selection) error {
	if m.closed {
		return ErrClosed
	}
	m.props.Selections = list
	m.invalidate()
	return nil
}

// SetItems replaces the item metadata.
func (m *Map) SetItems(items []models.Item) error {
	if m.closed {
		return ErrClosed
	}
	m.props.Items = items
	m.indexItems()
	m.invalidate()
	return nil
}

// SetSource replaces the base geometry.
func (m *Map) SetSource(p *geometry.Projected) error {
	if m.closed {
		return ErrClosed
	}
	m.props.Source = p
	m.buildTree()
	m.invalidate()
	return nil
}

// Selections returns the current selection list.
func (m *Map) Selections() []models.Selection { return m.props.Selections }

// Items returns the current item metadata.
func (m *Map) Items() []models.Item { return m.props.Items }

// Item returns the metadata for id.
func (m *Map) Item(id string) (models.Item, bool) {
	it, ok := m.itemsByID[id]
	return it, ok
}

// StatusOf returns the effective status of id.
func (m *Map) StatusOf(id string) models.Status {
	return m.index().Get(id)
}

// Counts returns the number of items per effective status. Region maps
// count the regions of their source.
func (m *Map) Counts() map[models.Status]int {
	idx := m.index()
	out := make(map[models.Status]int, len(models.AllStatuses))
	for _, id := range m.itemIDs() {
		out[idx.Get(id)]++
	}
	return out
}

// LegendEntries returns the legend rows with current counts.
func (m *Map) LegendEntries() []LegendEntry {
	return m.legend.Entries(m.Counts(), m.props.Kind)
}

// Render draws one frame through d.
func (m *Map) Render(d scene.Drawer) {
	if m.closed {
		return
	}
	m.shell.Render(d, func(z scene.ZoomState) {
		m.background.Build(m.props.Source)
		m.background.Draw(d, z.Transform)
		m.layer.Reconcile(m.visualItems(z.Tier))
		m.layer.Draw(d, z.Transform, m.props.Source)
	})
}

// ZoomIn steps the zoom in.
func (m *Map) ZoomIn() {
	if !m.closed {
		m.vp.ZoomIn()
	}
}

// ZoomOut steps the zoom out.
func (m *Map) ZoomOut() {
	if !m.closed {
		m.vp.ZoomOut()
	}
}

// DragEnd commits the position reported at the end of a pan or pinch.
func (m *Map) DragEnd(p viewport.Position) {
	if !m.closed {
		m.vp.OnDragEnd(p)
	}
}

// ExpandCluster centers on a marker cluster and zooms to show its members.
func (m *Map) ExpandCluster(center models.Coordinates, zoom float64) {
	if m.closed || !center.Valid() {
		return
	}
	m.vp.ZoomTo(center, zoom)
}

// Wheel forwards wheel input to the shell. It reports whether the host
// should cancel the default page scroll.
func (m *Map) Wheel(ev scene.WheelEvent) bool {
	if m.closed {
		return false
	}
	return m.shell.OnWheel(ev)
}

// Touch forwards the active touch count to the shell.
func (m *Map) Touch(ev scene.TouchEvent) {
	if !m.closed {
		m.shell.OnTouch(ev)
	}
}

// Scroll reports a page scroll. The tooltip is dismissed.
func (m *Map) Scroll() {
	if !m.closed {
		m.bus.Publish(eventbus.Event{Kind: eventbus.KindScroll, Time: m.opts.Clock.Now()})
	}
}

// Close stops every timer and listener. Later input is ignored and setters
// return ErrClosed.
func (m *Map) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.shell.Close()
	m.tooltip.Close()
	m.recovery.Close()
	m.log.Debug().Msg("map surface closed")
}

// Closed reports whether Close was called.
func (m *Map) Closed() bool { return m.closed }

func (m *Map) index() *status.Index {
	return m.memo.Lookup(m.props.Selections)
}

// visualItems derives the render items. Marker maps use the item metadata;
// region maps use the regions of the source, named from metadata when known.
func (m *Map) visualItems(tier scene.SizeTier) []scene.VisualItem {
	idx := m.index()
	filter := m.legend.Filter()

	ids := m.itemIDs()
	out := make([]scene.VisualItem, 0, len(ids))
	for _, id := range ids {
		st := idx.Get(id)
		if !filter.Allows(st) {
			continue
		}
		out = append(out, scene.NewVisualItem(m.itemFor(id), st, tier))
	}
	return out
}

func (m *Map) itemIDs() []string {
	if m.props.Kind == models.KindMarker || m.props.Source == nil {
		ids := make([]string, 0, len(m.props.Items))
		for _, it := range m.props.Items {
			ids = append(ids, it.ID)
		}
		return ids
	}
	ids := make([]string, 0, len(m.props.Source.Regions))
	for _, r := range m.props.Source.Regions {
		ids = append(ids, r.ID)
	}
	return ids
}

func (m *Map) itemFor(id string) models.Item {
	if it, ok := m.itemsByID[id]; ok {
		return it
	}
	if m.props.Source != nil {
		if r, ok := m.props.Source.Region(id); ok {
			return models.Item{ID: id, Name: r.Name}
		}
	}
	return models.Item{ID: id}
}

func (m *Map) indexItems() {
	m.itemsByID = make(map[string]models.Item, len(m.props.Items))
	m.grid = cache.NewSpatialHashGrid(0)
	for _, it := range m.props.Items {
		if it.ID == "" {
			continue
		}
		m.itemsByID[it.ID] = it
		if m.props.Kind == models.KindMarker && it.Coordinates != nil {
			m.grid.Insert(it.ID, *it.Coordinates, nil)
		}
	}
	m.buildTree()
}

func (m *Map) invalidate() {
	if !m.closed && m.opts.OnInvalidate != nil {
		m.opts.OnInvalidate()
	}
}
