// Wayfarer - Travel Tracking and Geographic Selection Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wayfarer

// Package raster renders map frames into an RGBA image using the
// golang.org/x/image/vector rasterizer and encodes them as PNG.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/tomtom215/wayfarer/internal/scene"
)

// Ocean is the color under the base geometry.
var Ocean = color.RGBA{0xe0, 0xf2, 0xfe, 0xff}

// Canvas is an immediate-mode scene.Drawer. Each call paints straight into
// the image; there is no retained structure.
type Canvas struct {
	img   *image.RGBA
	z     *vector.Rasterizer
	hints int
}

// New returns a canvas of w x h pixels filled with Ocean.
func New(w, h int) *Canvas {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(Ocean), image.Point{}, draw.Src)
	return &Canvas{img: img, z: vector.NewRasterizer(w, h)}
}

// BeginFrame clears the canvas.
func (c *Canvas) BeginFrame(scene.Frame) {
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(Ocean), image.Point{}, draw.Src)
	c.hints = 0
}

// EndFrame is a no-op; the image is complete after the last draw call.
func (c *Canvas) EndFrame() {}

// DrawPath fills the rings. The rasterizer only fills, so strokes are
// painted as one thin quad per edge.
func (c *Canvas) DrawPath(_ string, rings [][]scene.Point, style scene.PathStyle) {
	if len(rings) == 0 {
		return
	}
	if fill, ok := ParseColor(style.Fill); ok {
		c.fill(fill, func(z *vector.Rasterizer) {
			for _, ring := range rings {
				addRing(z, ring)
			}
		})
	}
	if stroke, ok := ParseColor(style.Stroke); ok && style.StrokeWidth > 0 {
		c.fill(stroke, func(z *vector.Rasterizer) {
			for _, ring := range rings {
				for i := range ring {
					a, b := ring[i], ring[(i+1)%len(ring)]
					addSegment(z, a, b, style.StrokeWidth)
				}
			}
		})
	}
}

// DrawIcon paints a filled disc: a pin's head sits above the location,
// a dot is centered on it.
func (c *Canvas) DrawIcon(_ string, icon scene.Instruction, at scene.Point) {
	fill, ok := ParseColor(icon.FillColor)
	if !ok {
		return
	}
	r := icon.Size / 4
	center := at
	if icon.Icon != scene.IconDot {
		r = icon.Size / 3
		center.Y -= icon.Size - r
		c.fill(fill, func(z *vector.Rasterizer) {
			z.MoveTo(float32(at.X), float32(at.Y))
			z.LineTo(float32(center.X-r*0.8), float32(center.Y+r*0.6))
			z.LineTo(float32(center.X+r*0.8), float32(center.Y+r*0.6))
			z.ClosePath()
		})
	}
	c.fill(fill, func(z *vector.Rasterizer) { addCircle(z, center, r) })
}

// DrawHint writes the hint text in a dark banner near the bottom edge.
func (c *Canvas) DrawHint(_ string, text string) {
	c.hints++
	b := c.img.Bounds()
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Ceil()
	x := (b.Dx() - width) / 2
	y := b.Dy() - 24*c.hints

	banner := image.Rect(x-8, y-14, x+width+8, y+6)
	draw.Draw(c.img, banner, image.NewUniform(color.RGBA{0x0f, 0x17, 0x2a, 0xcc}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(color.White),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

// Image returns the rendered image.
func (c *Canvas) Image() *image.RGBA { return c.img }

// EncodePNG writes the image as PNG.
func (c *Canvas) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, c.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func (c *Canvas) fill(col color.Color, build func(z *vector.Rasterizer)) {
	b := c.img.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
	c.z.DrawOp = draw.Over
	build(c.z)
	c.z.Draw(c.img, b, image.NewUniform(col), image.Point{})
}

func addRing(z *vector.Rasterizer, ring []scene.Point) {
	if len(ring) < 3 {
		return
	}
	z.MoveTo(float32(ring[0].X), float32(ring[0].Y))
	for _, p := range ring[1:] {
		z.LineTo(float32(p.X), float32(p.Y))
	}
	z.ClosePath()
}

func addSegment(z *vector.Rasterizer, a, b scene.Point, width float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2
	z.MoveTo(float32(a.X+nx), float32(a.Y+ny))
	z.LineTo(float32(b.X+nx), float32(b.Y+ny))
	z.LineTo(float32(b.X-nx), float32(b.Y-ny))
	z.LineTo(float32(a.X-nx), float32(a.Y-ny))
	z.ClosePath()
}

func addCircle(z *vector.Rasterizer, center scene.Point, r float64) {
	const segments = 24
	for i := 0; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / segments
		x := float32(center.X + r*math.Cos(a))
		y := float32(center.Y + r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
}

// ParseColor parses "#rgb" or "#rrggbb".
func ParseColor(c scene.Color) (color.RGBA, bool) {
	s := strings.TrimPrefix(string(c), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}
