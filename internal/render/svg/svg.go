// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package svg renders map frames as SVG markup with ajstarks/svgo.
package svg

import (
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo"

	"github.com/tomtom215/wayfarer/internal/scene"
)

// Drawer writes one frame of SVG. It implements scene.Drawer together with
// the frame, layer and overlay extensions.
type Drawer struct {
	canvas *svgo.SVG
	width  float64
	height float64
	hints  int
	paths  int
	icons  int
}

// New returns a Drawer writing to w.
func New(w io.Writer) *Drawer {
	return &Drawer{canvas: svgo.New(w)}
}

// BeginFrame opens the root element with containment and an intrinsic
// aspect ratio.
func (d *Drawer) BeginFrame(f scene.Frame) {
	d.width, d.height = f.Width, f.Height
	style := fmt.Sprintf(`style="contain:%s;aspect-ratio:%s"`, attr(f.Isolation), attr(f.AspectRatio))
	d.canvas.Start(int(f.Width), int(f.Height),
		fmt.Sprintf(`viewBox="0 0 %s %s"`, num(f.Width), num(f.Height)),
		`class="wayfarer-map"`,
		style,
	)
}

// EndFrame closes the root element.
func (d *Drawer) EndFrame() {
	d.canvas.End()
}

// BeginLayer opens a group for one layer.
func (d *Drawer) BeginLayer(id string) {
	d.canvas.Group(`id="layer-`+attr(id)+`"`, `class="layer `+attr(id)+`"`)
}

// EndLayer closes the layer group.
func (d *Drawer) EndLayer() {
	d.canvas.Gend()
}

// DrawPath implements scene.Drawer.
func (d *Drawer) DrawPath(id string, rings [][]scene.Point, style scene.PathStyle) {
	if len(rings) == 0 {
		return
	}
	d.paths++
	d.canvas.Group(`id="`+attr(id)+`"`, `class="`+attr(style.Class)+`"`)
	if style.Title != "" {
		d.canvas.Title(style.Title)
	}
	d.canvas.Path(pathData(rings),
		`fill="`+attr(string(style.Fill))+`"`,
		`stroke="`+attr(string(style.Stroke))+`"`,
		`stroke-width="`+num(style.StrokeWidth)+`"`,
		`fill-rule="evenodd"`,
	)
	d.canvas.Gend()
}

// DrawIcon implements scene.Drawer. Pins have their tip at the item
// location; dots are centered on it.
func (d *Drawer) DrawIcon(id string, icon scene.Instruction, at scene.Point) {
	d.icons++
	d.canvas.Group(`id="`+attr(id)+`"`, `class="`+attr(icon.Class)+`"`)
	if icon.Title != "" {
		d.canvas.Title(icon.Title)
	}
	d.canvas.Path(iconPath(icon, at),
		`fill="`+attr(string(icon.FillColor))+`"`,
		`stroke="#ffffff"`,
		`stroke-width="1.5"`,
	)
	d.canvas.Gend()
}

// DrawHint renders a hint banner centered near the bottom edge.
func (d *Drawer) DrawHint(id, text string) {
	d.hints++
	w := int(d.width)
	y := int(d.height) - 24*d.hints
	d.canvas.Group(`id="`+attr(id)+`"`, `class="hint"`, `pointer-events="none"`)
	d.canvas.Rect(w/2-160, y-18, 320, 26, `rx="6"`, `fill="#0f172a"`, `fill-opacity="0.8"`)
	d.canvas.Text(w/2, y, text, `text-anchor="middle"`, `fill="#ffffff"`, `font-size="13"`, `font-family="sans-serif"`)
	d.canvas.Gend()
}

// Stats returns the number of paths and icons drawn.
func (d *Drawer) Stats() (paths, icons int) { return d.paths, d.icons }

func pathData(rings [][]scene.Point) string {
	var b strings.Builder
	for _, ring := range rings {
		for i, p := range ring {
			if i == 0 {
				b.WriteString("M")
			} else {
				b.WriteString("L")
			}
			b.WriteString(num(p.X))
			b.WriteByte(',')
			b.WriteString(num(p.Y))
		}
		if len(ring) > 0 {
			b.WriteString("Z")
		}
	}
	return b.String()
}

func iconPath(icon scene.Instruction, at scene.Point) string {
	if icon.Icon == scene.IconDot {
		r := icon.Size / 4
		return fmt.Sprintf("M%s,%sa%s,%s 0 1,0 %s,0a%s,%s 0 1,0 -%s,0Z",
			num(at.X-r), num(at.Y), num(r), num(r), num(2*r), num(r), num(r), num(2*r))
	}
	// Teardrop: circle of radius r whose bottom tapers to the tip at `at`.
	r := icon.Size / 3
	cy := at.Y - icon.Size + r
	return fmt.Sprintf("M%s,%sL%s,%sA%s,%s 0 1,1 %s,%sZ",
		num(at.X), num(at.Y),
		num(at.X-r*0.8), num(cy+r*0.6),
		num(r), num(r),
		num(at.X+r*0.8), num(cy+r*0.6))
}

// num formats a coordinate with at most two decimals.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func attr(s string) string {
	return html.EscapeString(s)
}
