// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package gesture

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/wayfarer/internal/eventbus"
	"github.com/tomtom215/wayfarer/internal/logging"
	"github.com/tomtom215/wayfarer/internal/metrics"
)

// Node is an element of the render tree that can hold pointer capture.
// Implementations may fail or panic when queried; recovery tolerates both.
type Node interface {
	ID() string
	Parent() Node
	Children() []Node
	HasPointerCapture(pointerID int) (bool, error)
	ReleasePointerCapture(pointerID int) error
}

// Element is the in-memory Node used by the map surface.
type Element struct {
	id       string
	parent   *Element
	children []*Element
	captured map[int]bool
}

// NewElement creates a detached element.
func NewElement(id string) *Element {
	return &Element{id: id, captured: make(map[int]bool)}
}

// ID implements Node.
func (e *Element) ID() string { return e.id }

// Parent implements Node. A root element returns nil.
func (e *Element) Parent() Node {
	if e.parent == nil {
		return nil
	}
	return e.parent
}

// Children implements Node.
func (e *Element) Children() []Node {
	out := make([]Node, len(e.children))
	for i, c := range e.children {
		out[i] = c
	}
	return out
}

// Append attaches child under e and returns it.
func (e *Element) Append(child *Element) *Element {
	child.parent = e
	e.children = append(e.children, child)
	return child
}

// SetPointerCapture routes subsequent events for pointerID to e.
func (e *Element) SetPointerCapture(pointerID int) {
	e.captured[pointerID] = true
}

// HasPointerCapture implements Node.
func (e *Element) HasPointerCapture(pointerID int) (bool, error) {
	return e.captured[pointerID], nil
}

// ReleasePointerCapture implements Node.
func (e *Element) ReleasePointerCapture(pointerID int) error {
	delete(e.captured, pointerID)
	return nil
}

// Clear detaches every child of e.
func (e *Element) Clear() {
	for _, c := range e.children {
		c.parent = nil
	}
	e.children = nil
}

// Find returns the element with id in e's subtree, or nil.
func (e *Element) Find(id string) *Element {
	if e.id == id {
		return e
	}
	for _, c := range e.children {
		if found := c.Find(id); found != nil {
			return found
		}
	}
	return nil
}

// CaptureRecovery releases pointer captures left behind when a pan library
// captures a pointer on an ancestor or descendant of the element the user
// interacted with. Without it, subsequent taps are swallowed by the stale
// capture holder.
type CaptureRecovery struct {
	root     Node
	subs     []*eventbus.Subscription
	log      zerolog.Logger
	failures int
	released int
}

// NewCaptureRecovery returns a recovery bound to the surface root. When bus
// is non-nil it subscribes to pointer up and pointer cancel; resolve maps
// an event target id to a Node and may return nil.
func NewCaptureRecovery(root Node, bus *eventbus.Bus, resolve func(id string) Node) *CaptureRecovery {
	r := &CaptureRecovery{root: root, log: logging.WithComponent("capture")}
	if bus != nil {
		handler := func(ev eventbus.Event) {
			var target Node
			if resolve != nil {
				target = resolve(ev.Target)
			}
			r.Release(target, ev.PointerID)
		}
		r.subs = append(r.subs,
			bus.Subscribe(eventbus.KindPointerUp, handler),
			bus.Subscribe(eventbus.KindPointerCancel, handler),
		)
	}
	return r
}

// Release walks target's ancestor chain and the surface subtree, releasing
// pointerID wherever it is captured. Each node is visited once. It returns
// the number of captures released; failures are counted and swallowed.
func (r *CaptureRecovery) Release(target Node, pointerID int) int {
	seen := make(map[Node]bool)
	released, failures := 0, 0

	visit := func(n Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		ok, err := r.releaseOne(n, pointerID)
		if err != nil {
			failures++
			r.log.Debug().Err(err).Str("node", safeID(n)).Int("pointer_id", pointerID).Msg("pointer capture release failed")
			return
		}
		if ok {
			released++
		}
	}

	for n := target; n != nil; n = safeParent(n) {
		visit(n)
	}

	var walk func(Node)
	walk = func(n Node) {
		if n == nil {
			return
		}
		visit(n)
		for _, c := range safeChildren(n) {
			walk(c)
		}
	}
	walk(r.root)

	r.released += released
	r.failures += failures
	metrics.RecordCaptureRecovery(released, failures)
	return released
}

// Failures returns the number of swallowed query or release failures.
func (r *CaptureRecovery) Failures() int { return r.failures }

// Released returns the total number of captures released.
func (r *CaptureRecovery) Released() int { return r.released }

// Close removes the bus subscriptions.
func (r *CaptureRecovery) Close() {
	for _, s := range r.subs {
		s.Unsubscribe()
	}
	r.subs = nil
}

func (r *CaptureRecovery) releaseOne(n Node, pointerID int) (released bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			released, err = false, fmt.Errorf("pointer capture panic: %v", p)
		}
	}()

	has, err := n.HasPointerCapture(pointerID)
	if err != nil || !has {
		return false, err
	}
	if err := n.ReleasePointerCapture(pointerID); err != nil {
		return false, err
	}
	return true, nil
}

func safeParent(n Node) (p Node) {
	defer func() {
		if recover() != nil {
			p = nil
		}
	}()
	return n.Parent()
}

func safeChildren(n Node) (c []Node) {
	defer func() {
		if recover() != nil {
			c = nil
		}
	}()
	return n.Children()
}

func safeID(n Node) (id string) {
	defer func() {
		if recover() != nil {
			id = "?"
		}
	}()
	return n.ID()
}
