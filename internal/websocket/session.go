// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package websocket

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tomtom215/wayfarer/internal/clock"
	"github.com/tomtom215/wayfarer/internal/gesture"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
	"github.com/tomtom215/wayfarer/internal/models"
	"github.com/tomtom215/wayfarer/internal/render/svg"
	"github.com/tomtom215/wayfarer/internal/scene"
	"github.com/tomtom215/wayfarer/internal/surface"
	"github.com/tomtom215/wayfarer/internal/validation"
	"github.com/tomtom215/wayfarer/internal/viewport"
)

// Sender delivers outbound messages. Send must not block.
type Sender interface {
	Send(msg Message) bool
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(msg Message) bool

// Send implements Sender.
func (f SenderFunc) Send(msg Message) bool { return f(msg) }

// Session owns one map surface and drives it from a single goroutine. Input
// decoded on the connection's read goroutine and timer callbacks are posted
// to that goroutine, so the surface is never touched concurrently.
type Session struct {
	id       string
	category models.Category
	out      Sender
	log      zerolog.Logger

	tasks      chan func()
	selections chan []models.Selection
	done       chan struct{}
	closeOnce  sync.Once

	// Owned by the loop goroutine.
	m     *surface.Map
	dirty bool
	seq   uint64
}

// NewSession builds the surface for props. Timer callbacks of opts.Clock
// (the real clock when nil) are re-posted to the session loop. The session
// sends a navigate message for background region taps, then calls
// props.OnRegionClick if set.
func NewSession(props surface.Props, opts surface.Options, out Sender, queueSize int) *Session {
	if queueSize <= 0 {
		queueSize = DefaultConfig().SessionQueue
	}
	s := &Session{
		id:         uuid.New().String(),
		category:   props.Category,
		out:        out,
		tasks:      make(chan func(), queueSize),
		selections: make(chan []models.Selection, 1),
		done:       make(chan struct{}),
	}
	s.log = logging.WithComponent("map-session").With().
		Str("session_id", s.id).
		Str("category", string(props.Category)).
		Logger()

	opts.Clock = clock.OnLoop(opts.Clock, s.post)
	opts.OnInvalidate = func() { s.dirty = true }
	opts.OnHint = s.sendHint
	opts.OnTooltip = func(text string, visible bool) {
		s.send(Message{Type: MessageTypeTooltip, Data: TooltipData{Text: text, Visible: visible}})
	}
	opts.TooltipSink = scene.PositionSinkFunc(func(x, y float64) {
		s.send(Message{Type: MessageTypeTooltipMove, Data: TooltipMoveData{X: x, Y: y}})
	})

	onRegion := props.OnRegionClick
	props.OnRegionClick = func(c models.Category, regionID string) {
		s.send(Message{Type: MessageTypeNavigate, Data: NavigateData{
			Category: c,
			RegionID: regionID,
			Path:     NavigatePath(c, regionID),
		}})
		if onRegion != nil {
			onRegion(c, regionID)
		}
	}

	s.m = surface.New(props, opts)
	return s
}

// NavigatePath returns the drill-down page path of a region.
func NavigatePath(c models.Category, regionID string) string {
	return fmt.Sprintf("/maps/%s/%s", url.PathEscape(string(c)), url.PathEscape(regionID))
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Category returns the category the session renders.
func (s *Session) Category() models.Category { return s.category }

// Run processes posted work until ctx is canceled or Close is called. The
// first frame is sent before any input is handled. Frames are coalesced:
// at most one is rendered per processed task.
func (s *Session) Run(ctx context.Context) error {
	defer s.shutdown()

	s.flush()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.done:
			return nil
		case list := <-s.selections:
			if err := s.m.SetSelections(list); err != nil {
				return nil
			}
		case fn := <-s.tasks:
			fn()
		}
		if s.dirty {
			s.flush()
		}
	}
}

// Close stops the loop. It is safe to call more than once and from any
// goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Done is closed once the session stops.
func (s *Session) Done() <-chan struct{} { return s.done }

// SetSelections hands a new selection list to the loop. Only the latest
// list is kept when the loop falls behind. It never blocks.
func (s *Session) SetSelections(list []models.Selection) {
	for {
		select {
		case s.selections <- list:
			return
		default:
		}
		select {
		case <-s.selections:
		default:
		}
	}
}

// Handle decodes msg on the caller's goroutine and posts the resulting
// surface call to the loop. Decode and validation failures are returned
// without touching the surface.
func (s *Session) Handle(msg ClientMessage) error {
	switch msg.Type {
	case MessageTypePointerDown, MessageTypePointerUp, MessageTypePointerMove,
		MessageTypePointerLeave, MessageTypePointerCancel:
		var ev gesture.PointerEvent
		if err := decode(msg, &ev); err != nil {
			return err
		}
		ev.Time = time.Time{}
		s.post(func() { s.pointer(msg.Type, ev) })

	case MessageTypeWheel:
		var ev scene.WheelEvent
		if err := decode(msg, &ev); err != nil {
			return err
		}
		s.post(func() { s.m.Wheel(ev) })

	case MessageTypeTouch:
		var ev scene.TouchEvent
		if err := decode(msg, &ev); err != nil {
			return err
		}
		s.post(func() { s.m.Touch(ev) })

	case MessageTypeScroll:
		s.post(s.m.Scroll)

	case MessageTypeZoomIn:
		s.post(s.m.ZoomIn)

	case MessageTypeZoomOut:
		s.post(s.m.ZoomOut)

	case MessageTypeZoomTo:
		var req ZoomToRequest
		if err := decodeValid(msg, &req); err != nil {
			return err
		}
		s.post(func() { s.m.ExpandCluster(req.Center, req.Zoom) })

	case MessageTypeDragEnd:
		var req DragEndRequest
		if err := decodeValid(msg, &req); err != nil {
			return err
		}
		s.post(func() { s.m.DragEnd(viewport.Position{Center: req.Center, Zoom: req.Zoom}) })

	case MessageTypeLegend:
		var req LegendRequest
		if err := decodeValid(msg, &req); err != nil {
			return err
		}
		s.post(func() { s.legend(req) })

	default:
		return fmt.Errorf("%w: %q", ErrUnknownMessage, msg.Type)
	}
	return nil
}

func (s *Session) pointer(kind string, ev gesture.PointerEvent) {
	switch kind {
	case MessageTypePointerDown:
		s.m.PointerDown(ev)
	case MessageTypePointerUp:
		s.m.PointerUp(ev)
	case MessageTypePointerMove:
		s.m.PointerMove(ev)
	case MessageTypePointerLeave:
		s.m.PointerLeave(ev)
	case MessageTypePointerCancel:
		s.m.PointerCancel(ev)
	}
}

func (s *Session) legend(req LegendRequest) {
	l := s.m.Legend()
	switch {
	case req.Reset:
		l.Reset()
	case req.Visible != nil:
		l.Set(req.Status, *req.Visible)
	default:
		l.Toggle(req.Status)
	}
}

// post queues fn for the loop. It blocks while the queue is full and drops
// fn once the session has stopped.
func (s *Session) post(fn func()) {
	select {
	case s.tasks <- fn:
	case <-s.done:
	}
}

func (s *Session) flush() {
	s.dirty = false
	if s.m.Closed() {
		return
	}

	start := time.Now()
	var buf bytes.Buffer
	s.m.Render(svg.New(&buf))
	metrics.RecordRender("svg", time.Since(start))

	s.seq++
	pos := s.m.Viewport().Position()
	s.send(Message{Type: MessageTypeFrame, Data: FrameData{
		Category: s.category,
		Seq:      s.seq,
		SVG:      buf.String(),
		Zoom:     pos.Zoom,
		Center:   pos.Center,
		Legend:   s.m.LegendEntries(),
	}})
}

func (s *Session) sendHint(id string, visible bool) {
	data := HintData{ID: id, Visible: visible}
	if visible {
		switch id {
		case scene.HintScroll:
			data.Text = scene.ScrollHintText
		case scene.HintTouch:
			data.Text = scene.TouchHintText
		}
	}
	s.send(Message{Type: MessageTypeHint, Data: data})
}

func (s *Session) send(msg Message) {
	if s.out == nil {
		return
	}
	if !s.out.Send(msg) {
		metrics.RecordWSDropped("buffer_full")
		s.log.Debug().Str("message_type", msg.Type).Msg("send buffer full, dropping message")
	}
}

func (s *Session) shutdown() {
	s.Close()
	s.m.Close()
	s.log.Debug().Uint64("frames", s.seq).Msg("map session stopped")
}

func decode(msg ClientMessage, v interface{}) error {
	if len(msg.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("decode %s: %w", msg.Type, err)
	}
	return nil
}

func decodeValid(msg ClientMessage, v interface{}) error {
	if err := decode(msg, v); err != nil {
		return err
	}
	if verr := validation.ValidateStruct(v); verr != nil {
		return verr
	}
	return nil
}
