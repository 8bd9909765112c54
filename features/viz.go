// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package features

import (
	"image"
	"math"

	"github.com/emer/etable/etensor"
	"github.com/emer/etable/norm"
	"github.com/emer/vision/vfilter"
	"github.com/goki/mat32"
)

// Glyph draws the orientation histogram of the window at (oy, ox) into viz:
// one line through the window center per orientation bin, perpendicular to
// the bin's mid gradient orientation, with intensity equal to the bin value.
// Overlapping windows accumulate.
func (hp *Params) Glyph(hist []float32, viz *etensor.Float32, oy, ox int) {
	rows, cols := viz.Dim(0), viz.Dim(1)
	rad := float32(hp.Window/2 - 1)
	ctr := hp.Window / 2
	for o, v := range hist {
		if v == 0 {
			continue
		}
		mid := math.Pi * (float32(o) + 0.5) / float32(hp.Orients)
		dr := rad * mat32.Sin(mid)
		dc := rad * mat32.Cos(mid)
		r0, c0 := int(float32(ctr)-dc), int(float32(ctr)+dr)
		r1, c1 := int(float32(ctr)+dc), int(float32(ctr)-dr)
		line(r0, c0, r1, c1, func(r, c int) {
			y, x := oy+r, ox+c
			if y < 0 || y >= rows || x < 0 || x >= cols {
				return
			}
			viz.Values[y*cols+x] += v
		})
	}
}

// line calls fn for each pixel of the Bresenham line from (r0, c0) to (r1, c1),
// both ends included.
func line(r0, c0, r1, c1 int, fn func(r, c int)) {
	steep := false
	r, c := r0, c0
	dr, dc := iabs(r1-r0), iabs(c1-c0)
	sc, sr := 1, 1
	if c1-c <= 0 {
		sc = -1
	}
	if r1-r <= 0 {
		sr = -1
	}
	if dr > dc {
		steep = true
		r, c = c, r
		dr, dc = dc, dr
		sr, sc = sc, sr
	}
	d := 2*dr - dc
	for i := 0; i < dc; i++ {
		if steep {
			fn(c, r)
		} else {
			fn(r, c)
		}
		for d >= 0 {
			r += sr
			d -= 2 * dc
		}
		c += sc
		d += 2 * dr
	}
	fn(r1, c1)
}

func iabs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}

// VizImage converts a visualization tensor to a grayscale image, scaled so
// that the maximum value is white.
func VizImage(viz *etensor.Float32) *image.Gray {
	tsr := viz.Clone().(*etensor.Float32)
	norm.DivNorm32(tsr.Values, norm.Max32)
	return vfilter.GreyTensorToImage(nil, tsr, 0, true)
}
