// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package scene

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/wayfarer/internal/clock"
	"github.com/tomtom215/wayfarer/internal/eventbus"
	"github.com/tomtom215/wayfarer/internal/geometry"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/viewport"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

const twoStates = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "CA", "properties": {"name": "California"},
     "geometry": {"type": "Polygon", "coordinates": [[[-124,32],[-114,32],[-114,42],[-124,42],[-124,32]]]}},
    {"type": "Feature", "id": "NV", "properties": {"name": "Nevada"},
     "geometry": {"type": "Polygon", "coordinates": [[[-114,35],[-110,35],[-110,42],[-114,42],[-114,35]]]}}
  ]
}`

type recorder struct {
	paths  []string
	styles map[string]PathStyle
	icons  map[string]Instruction
	layers []string
	hints  []string
	frames []Frame
}

func newRecorder() *recorder {
	return &recorder{styles: make(map[string]PathStyle), icons: make(map[string]Instruction)}
}

func (r *recorder) DrawPath(id string, _ [][]Point, style PathStyle) {
	r.paths = append(r.paths, id)
	r.styles[id] = style
}

func (r *recorder) DrawIcon(id string, icon Instruction, _ Point) { r.icons[id] = icon }
func (r *recorder) BeginLayer(id string)                          { r.layers = append(r.layers, id) }
func (r *recorder) EndLayer()                                     {}
func (r *recorder) BeginFrame(f Frame)                            { r.frames = append(r.frames, f) }
func (r *recorder) EndFrame()                                     {}
func (r *recorder) DrawHint(id, _ string)                         { r.hints = append(r.hints, id) }

func projected(t *testing.T) *geometry.Projected {
	t.Helper()
	src, err := geometry.Parse("us-states", []byte(twoStates))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return geometry.Project(src)
}

func coords(lon, lat float64) *models.Coordinates {
	return &models.Coordinates{Lon: lon, Lat: lat}
}

func TestMarkerInstruction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status models.Status
		tier   SizeTier
		color  Color
		size   float64
		icon   IconKind
	}{
		{"visited default", models.StatusVisited, TierDefault, ColorVisited, MarkerSizeDefault, IconPin},
		{"bucket list", models.StatusBucketList, TierDefault, ColorPending, MarkerSizeDefault, IconPin},
		{"unvisited small", models.StatusUnvisited, TierSmall, ColorPending, MarkerSizeSmall, IconDot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := MarkerInstruction(VisualItem{ID: "yose", Status: tt.status}, tt.tier)
			if in.FillColor != tt.color {
				t.Errorf("FillColor = %s, want %s", in.FillColor, tt.color)
			}
			if in.Size != tt.size {
				t.Errorf("Size = %v, want %v", in.Size, tt.size)
			}
			if in.Icon != tt.icon {
				t.Errorf("Icon = %s, want %s", in.Icon, tt.icon)
			}
		})
	}
}

func TestTierForZoom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		zoom float64
		want SizeTier
	}{
		{1, TierSmall},
		{1.99, TierSmall},
		{2, TierDefault},
		{8, TierDefault},
	}
	for _, tt := range tests {
		if got := TierForZoom(tt.zoom, DefaultSmallTierBelow); got != tt.want {
			t.Errorf("TierForZoom(%v) = %s, want %s", tt.zoom, got, tt.want)
		}
	}
}

func TestRegionStyle_DistinctFills(t *testing.T) {
	t.Parallel()

	seen := make(map[Color]models.Status)
	for _, s := range models.AllStatuses {
		style := RegionStyle(VisualItem{ID: "CA", Status: s})
		if prev, dup := seen[style.Fill]; dup {
			t.Errorf("status %s shares fill %s with %s", s, style.Fill, prev)
		}
		seen[style.Fill] = s
	}
	if got := RegionStyle(VisualItem{Status: models.StatusBucketList}).Class; got != "region bucket-list" {
		t.Errorf("bucket-list class = %q, want %q", got, "region bucket-list")
	}
}

func TestNewVisualItem(t *testing.T) {
	t.Parallel()

	v := NewVisualItem(models.Item{ID: "zion", Name: "  "}, models.StatusVisited, TierDefault)
	if v.Name != "zion" {
		t.Errorf("Name = %q, want id fallback", v.Name)
	}
	if v.HasCoordinates {
		t.Error("HasCoordinates = true for item without coordinates")
	}

	v = NewVisualItem(models.Item{ID: "zion", Name: "Zion", Coordinates: coords(-113.03, 37.3)}, models.StatusVisited, TierDefault)
	if !v.HasCoordinates || v.Coordinates.Lat != 37.3 {
		t.Errorf("coordinates = %+v, want 37.3 lat", v.Coordinates)
	}
}

func TestLayer_SkipsUnchangedLeaves(t *testing.T) {
	t.Parallel()

	items := make([]VisualItem, 0, 100)
	for i := 0; i < 100; i++ {
		items = append(items, VisualItem{
			ID:             string(rune('A'+i%26)) + string(rune('a'+i/26)),
			Status:         models.StatusUnvisited,
			SizeTier:       TierDefault,
			Coordinates:    models.Coordinates{Lon: float64(i % 180), Lat: 10},
			HasCoordinates: true,
		})
	}

	l := NewLayer(LayerMarkers)
	if got := l.Reconcile(items); got.Rendered != 100 {
		t.Fatalf("first reconcile rendered %d, want 100", got.Rendered)
	}

	next := append([]VisualItem(nil), items...)
	next[42].Status = models.StatusVisited
	got := l.Reconcile(next)
	if got.Rendered != 1 || got.Skipped != 99 {
		t.Errorf("reconcile = %+v, want 1 rendered 99 skipped", got)
	}

	_, in, ok := l.Leaf(next[42].ID)
	if !ok || in.FillColor != ColorVisited {
		t.Errorf("toggled leaf = %+v, want visited color", in)
	}
}

func TestLayer_MarkersNeedCoordinates(t *testing.T) {
	t.Parallel()

	l := NewLayer(LayerMarkers)
	stats := l.Reconcile([]VisualItem{
		{ID: "a", HasCoordinates: true},
		{ID: "b"},
		{ID: "a", HasCoordinates: true},
		{ID: ""},
	})
	if stats.Rendered != 1 || l.Len() != 1 {
		t.Errorf("rendered %d, len %d, want 1 and 1", stats.Rendered, l.Len())
	}

	regions := NewLayer(LayerRegions)
	regions.Reconcile([]VisualItem{{ID: "CA"}, {ID: "NV"}})
	if regions.Len() != 2 {
		t.Errorf("region layer len = %d, want 2", regions.Len())
	}
}

func TestLayer_RemovedLeaves(t *testing.T) {
	t.Parallel()

	l := NewLayer(LayerRegions)
	l.Reconcile([]VisualItem{{ID: "CA"}, {ID: "NV"}})
	stats := l.Reconcile([]VisualItem{{ID: "NV"}})
	if stats.Removed != 1 || stats.Skipped != 1 {
		t.Errorf("stats = %+v, want 1 removed 1 skipped", stats)
	}
	if ids := l.IDs(); len(ids) != 1 || ids[0] != "NV" {
		t.Errorf("IDs() = %v, want [NV]", ids)
	}
}

func TestLayer_DrawRegions(t *testing.T) {
	t.Parallel()

	p := projected(t)
	l := NewLayer(LayerRegions)
	l.Reconcile([]VisualItem{
		{ID: "CA", Status: models.StatusVisited},
		{ID: "NV", Status: models.StatusUnvisited},
		{ID: "ZZ", Status: models.StatusVisited},
	})

	rec := newRecorder()
	l.Draw(rec, NewTransform(viewport.Position{Zoom: 1}, 800, 500), p)

	if len(rec.paths) != 2 {
		t.Fatalf("paths = %v, want CA and NV only", rec.paths)
	}
	if rec.styles["CA"].Class != "region visited" {
		t.Errorf("CA class = %q, want region visited", rec.styles["CA"].Class)
	}
	if rec.styles["NV"].Class != "region unvisited" {
		t.Errorf("NV class = %q, want region unvisited", rec.styles["NV"].Class)
	}
	if len(rec.layers) != 1 || rec.layers[0] != "regions" {
		t.Errorf("layers = %v, want [regions]", rec.layers)
	}
}

func TestBackground_BuildsOncePerSource(t *testing.T) {
	t.Parallel()

	p := projected(t)
	var bg Background
	markers := NewLayer(LayerMarkers)

	for i := 0; i < 5; i++ {
		bg.Build(p)
		markers.Reconcile([]VisualItem{{ID: "pin", Status: models.AllStatuses[i%3], HasCoordinates: true}})
	}
	if bg.Builds() != 1 {
		t.Errorf("Builds() = %d after marker changes, want 1", bg.Builds())
	}

	other := *p
	other.SourceID = "world"
	bg.Build(&other)
	if bg.Builds() != 2 || bg.SourceID() != "world" {
		t.Errorf("after source change Builds() = %d, SourceID() = %s; want 2, world", bg.Builds(), bg.SourceID())
	}

	rec := newRecorder()
	bg.Draw(rec, NewTransform(viewport.Position{Zoom: 1}, 800, 500))
	if len(rec.paths) != 2 || rec.paths[0] != "bg-CA" {
		t.Errorf("background paths = %v, want [bg-CA bg-NV]", rec.paths)
	}
}

func TestTransform_RoundTrip(t *testing.T) {
	t.Parallel()

	pos := viewport.Position{Center: models.Coordinates{Lon: -100, Lat: 40}, Zoom: 3}
	tr := NewTransform(pos, 800, 500)

	center := tr.Apply(geometry.ProjectUnit(pos.Center))
	if math.Abs(center.X-400) > 1e-9 || math.Abs(center.Y-250) > 1e-9 {
		t.Errorf("center maps to %+v, want (400, 250)", center)
	}

	back := tr.Invert(Point{X: 123, Y: 77})
	again := tr.Apply(back)
	if math.Abs(again.X-123) > 1e-9 || math.Abs(again.Y-77) > 1e-9 {
		t.Errorf("round trip = %+v, want (123, 77)", again)
	}
}

func newShell(t *testing.T, clk *clock.Fake) (*Shell, *viewport.Controller, *int, map[string]bool) {
	t.Helper()
	vp := viewport.New(viewport.DefaultConfig(), viewport.Position{Zoom: 1})
	invalidations := 0
	hints := make(map[string]bool)
	s := NewShell(vp, DefaultShellConfig(), ShellOptions{
		Clock:        clk,
		OnInvalidate: func() { invalidations++ },
		OnHint:       func(id string, v bool) { hints[id] = v },
	})
	t.Cleanup(s.Close)
	return s, vp, &invalidations, hints
}

func TestShell_DebouncedZoom(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(epoch)
	s, vp, _, _ := newShell(t, clk)

	vp.ZoomIn()
	vp.ZoomIn()

	st := s.State()
	if st.Zoom != 1 || st.Tier != TierSmall {
		t.Errorf("state before settle = %v/%s, want 1/small", st.Zoom, st.Tier)
	}
	if st.Transform.Scale != 800*2.25 {
		t.Errorf("transform scale = %v, want committed immediately", st.Transform.Scale)
	}

	clk.Advance(150 * time.Millisecond)
	st = s.State()
	if st.Zoom != 2.25 || st.Tier != TierDefault {
		t.Errorf("state after settle = %v/%s, want 2.25/default", st.Zoom, st.Tier)
	}
}

func TestShell_DebouncedZoomSettlesOnLastValue(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(epoch)
	s, vp, invalidations, _ := newShell(t, clk)
	center := models.Coordinates{Lon: -98, Lat: 39}

	vp.OnDragEnd(viewport.Position{Center: center, Zoom: 1.9})
	clk.Advance(50 * time.Millisecond)
	vp.OnDragEnd(viewport.Position{Center: center, Zoom: 2.1})
	committed := *invalidations

	steps := []struct {
		advance time.Duration
		zoom    float64
		tier    SizeTier
	}{
		{100 * time.Millisecond, 1, TierSmall},
		{49 * time.Millisecond, 1, TierSmall},
		{time.Millisecond, 2.1, TierDefault},
		{time.Second, 2.1, TierDefault},
	}
	for i, step := range steps {
		clk.Advance(step.advance)
		st := s.State()
		if st.Zoom != step.zoom || st.Tier != step.tier {
			t.Errorf("step %d: state = %v/%s, want %v/%s", i, st.Zoom, st.Tier, step.zoom, step.tier)
		}
	}
	if got := *invalidations - committed; got != 1 {
		t.Errorf("settled zoom invalidations = %d, want exactly 1 for 2.1", got)
	}
}

func TestShell_WheelModifier(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(epoch)
	s, vp, _, hints := newShell(t, clk)

	if s.OnWheel(WheelEvent{DeltaY: 100}) {
		t.Error("OnWheel without modifier = true, want false")
	}
	if vp.Position().Zoom != 1 {
		t.Errorf("zoom = %v after unmodified wheel, want 1", vp.Position().Zoom)
	}
	if !hints[HintScroll] {
		t.Error("scroll hint not shown")
	}

	if !s.OnWheel(WheelEvent{DeltaY: -100, Ctrl: true}) {
		t.Error("OnWheel with ctrl = false, want true")
	}
	if vp.Position().Zoom != 1.5 {
		t.Errorf("zoom = %v after ctrl wheel up, want 1.5", vp.Position().Zoom)
	}
	s.OnWheel(WheelEvent{DeltaY: 100, Meta: true})
	if vp.Position().Zoom != 1 {
		t.Errorf("zoom = %v after meta wheel down, want 1", vp.Position().Zoom)
	}

	clk.Advance(2 * time.Second)
	if hints[HintScroll] || s.HintVisible(HintScroll) {
		t.Error("scroll hint still visible after 2s")
	}
}

func TestShell_TouchHintHeldDuringMultiTouch(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(epoch)
	s, _, _, _ := newShell(t, clk)

	s.OnTouch(TouchEvent{Touches: 1, Moving: true})
	clk.Advance(time.Second)
	s.OnTouch(TouchEvent{Touches: 2, Moving: true})
	clk.Advance(5 * time.Second)
	if !s.HintVisible(HintTouch) {
		t.Fatal("touch hint hidden during multi-touch")
	}

	s.OnTouch(TouchEvent{Touches: 0})
	clk.Advance(1999 * time.Millisecond)
	if !s.HintVisible(HintTouch) {
		t.Error("touch hint hidden before 2s after release")
	}
	clk.Advance(time.Millisecond)
	if s.HintVisible(HintTouch) {
		t.Error("touch hint visible 2s after release")
	}
}

func TestShell_RenderFrame(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(epoch)
	s, _, _, _ := newShell(t, clk)
	s.OnWheel(WheelEvent{DeltaY: 1})

	rec := newRecorder()
	called := false
	s.Render(rec, func(z ZoomState) { called = z.Zoom == 1 })

	if !called {
		t.Error("children not called with zoom state")
	}
	if len(rec.frames) != 1 {
		t.Fatalf("frames = %d, want 1", len(rec.frames))
	}
	f := rec.frames[0]
	if f.Isolation != "layout paint" || f.AspectRatio != "800 / 500" {
		t.Errorf("frame = %+v, want isolation and aspect ratio declared", f)
	}
	if len(rec.hints) != 1 || rec.hints[0] != HintScroll {
		t.Errorf("hints = %v, want [%s]", rec.hints, HintScroll)
	}
}

func TestShell_CloseStopsTimers(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(epoch)
	s, vp, invalidations, _ := newShell(t, clk)

	vp.ZoomIn()
	s.OnWheel(WheelEvent{})
	before := *invalidations
	s.Close()

	if clk.Pending() != 0 {
		t.Errorf("Pending() = %d after Close, want 0", clk.Pending())
	}
	vp.ZoomIn()
	clk.Advance(5 * time.Second)
	if *invalidations != before {
		t.Errorf("invalidations = %d after Close, want %d", *invalidations, before)
	}
}

func TestTooltip(t *testing.T) {
	t.Parallel()

	bus := eventbus.New()
	var pos Point
	var content []string
	tip := NewTooltip(bus, PositionSinkFunc(func(x, y float64) { pos = Point{x, y} }), DefaultTooltipConfig(),
		func(text string, visible bool) { content = append(content, text) })
	defer tip.Close()

	tip.ShowFor("yose", "Yosemite", Point{X: 100, Y: 100})
	if pos != (Point{X: 112, Y: 60}) {
		t.Errorf("position = %+v, want (112, 60)", pos)
	}

	tip.Move(Point{X: 200, Y: 200})
	tip.Move(Point{X: 210, Y: 200})
	if pos != (Point{X: 222, Y: 160}) {
		t.Errorf("position = %+v, want (222, 160)", pos)
	}
	if len(content) != 1 {
		t.Errorf("content notifications = %d after moves, want 1", len(content))
	}

	bus.Publish(eventbus.Event{Kind: eventbus.KindTouchStart, Target: "yose"})
	if !tip.Visible() {
		t.Error("touch start on owner dismissed tooltip")
	}
	bus.Publish(eventbus.Event{Kind: eventbus.KindTouchStart, Target: "zion"})
	if tip.Visible() {
		t.Error("touch start elsewhere kept tooltip")
	}

	tip.Show("Zion", Point{})
	bus.Publish(eventbus.Event{Kind: eventbus.KindScroll})
	if tip.Visible() {
		t.Error("scroll kept tooltip")
	}
}

func TestTooltip_CloseUnsubscribes(t *testing.T) {
	t.Parallel()

	bus := eventbus.New()
	tip := NewTooltip(bus, nil, DefaultTooltipConfig(), nil)
	if bus.Len(eventbus.KindScroll) != 1 || bus.Len(eventbus.KindTouchStart) != 1 {
		t.Fatalf("listeners = %d/%d, want 1/1", bus.Len(eventbus.KindScroll), bus.Len(eventbus.KindTouchStart))
	}
	tip.Close()
	if bus.Len(eventbus.KindScroll) != 0 || bus.Len(eventbus.KindTouchStart) != 0 {
		t.Errorf("listeners after Close = %d/%d, want 0/0", bus.Len(eventbus.KindScroll), bus.Len(eventbus.KindTouchStart))
	}
}
