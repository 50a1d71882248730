// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

package debounce

import (
	"testing"
	"time"

	"github.com/tomtom215/wayfarer/internal/clock"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestValue_EmitsOnceAfterLastChange(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(epoch)
	var emitted []float64
	d := NewValue(clk, 150*time.Millisecond, 1.0, func(v float64) { emitted = append(emitted, v) })

	d.Set(1.9)
	clk.Advance(50 * time.Millisecond)
	d.Set(2.1)

	clk.Advance(140 * time.Millisecond)
	if len(emitted) != 0 {
		t.Fatalf("emitted %v before 150ms after last change, want nothing", emitted)
	}

	clk.Advance(20 * time.Millisecond)
	if len(emitted) != 1 || emitted[0] != 2.1 {
		t.Fatalf("emitted = %v, want [2.1]", emitted)
	}
	if d.Current() != 2.1 {
		t.Errorf("Current() = %v, want 2.1", d.Current())
	}

	clk.Advance(time.Second)
	if len(emitted) != 1 {
		t.Errorf("emitted = %v, want exactly one emission", emitted)
	}
}

func TestValue_SkipsUnchanged(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(epoch)
	calls := 0
	d := NewValue(clk, 150*time.Millisecond, 2, func(int) { calls++ })

	d.Set(3)
	d.Set(2)
	clk.Advance(200 * time.Millisecond)

	if calls != 0 {
		t.Errorf("emit calls = %d, want 0 when value returns to settled", calls)
	}
}

func TestValue_CloseSuppressesPending(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(epoch)
	calls := 0
	d := NewValue(clk, 150*time.Millisecond, 1.0, func(float64) { calls++ })

	d.Set(4)
	d.Close()
	clk.Advance(time.Second)
	d.Set(5)
	clk.Advance(time.Second)

	if calls != 0 {
		t.Errorf("emit calls = %d after Close, want 0", calls)
	}
	if clk.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", clk.Pending())
	}
}

func TestValue_Flush(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(epoch)
	var got float64
	d := NewValue(clk, 150*time.Millisecond, 1.0, func(v float64) { got = v })

	d.Set(6)
	d.Flush()
	if got != 6 {
		t.Errorf("emitted %v after Flush, want 6", got)
	}
	if clk.Pending() != 0 {
		t.Errorf("Pending() = %d after Flush, want 0", clk.Pending())
	}
}

func TestAutoHide_ShowRestartsCountdown(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(epoch)
	var changes []bool
	a := NewAutoHide(clk, 2*time.Second, func(v bool) { changes = append(changes, v) })

	a.Show()
	clk.Advance(1500 * time.Millisecond)
	a.Show()
	clk.Advance(1500 * time.Millisecond)
	if !a.Visible() {
		t.Fatal("hint hidden 1.5s after second Show, want visible")
	}

	clk.Advance(600 * time.Millisecond)
	if a.Visible() {
		t.Fatal("hint visible 2.1s after last Show, want hidden")
	}
	if len(changes) != 2 || !changes[0] || changes[1] {
		t.Errorf("changes = %v, want [true false]", changes)
	}
}

func TestAutoHide_HoldExtends(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(epoch)
	a := NewAutoHide(clk, 2*time.Second, nil)

	a.Show()
	a.Hold()
	clk.Advance(10 * time.Second)
	if !a.Visible() {
		t.Fatal("held hint hidden, want visible")
	}

	a.Release()
	clk.Advance(1900 * time.Millisecond)
	if !a.Visible() {
		t.Fatal("hint hidden before countdown after Release")
	}
	clk.Advance(200 * time.Millisecond)
	if a.Visible() {
		t.Error("hint visible 2.1s after Release, want hidden")
	}
}

func TestAutoHide_CloseIsQuiet(t *testing.T) {
	t.Parallel()

	clk := clock.NewFake(epoch)
	calls := 0
	a := NewAutoHide(clk, 2*time.Second, func(bool) { calls++ })

	a.Show()
	a.Close()
	clk.Advance(5 * time.Second)
	a.Show()

	if calls != 1 {
		t.Errorf("onChange calls = %d, want 1 (only the initial Show)", calls)
	}
}
