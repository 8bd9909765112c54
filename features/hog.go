// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package features converts grayscale digit images into the sparse binary
feature vectors that select which thalamic relay neurons receive the
training stimulus.

Each image is covered by overlapping square windows, and each window is
described by a histogram of oriented gradients (HOG) with a single cell and
a single block, normalized with L2-Hys.  The concatenated descriptor values
lie in [0, 1] and are binned into one-hot codes of 4 levels each, so a 28x28
image gives 9 windows x 9 orientations = 81 values and 324 binary features.
*/
package features

import (
	"errors"
	"fmt"

	"github.com/emer/etable/etensor"
	"github.com/emer/etable/norm"
	"github.com/goki/mat32"
)

// ErrInvalidInput is returned for images that are not 2D or are smaller
// than the window in either dimension.
var ErrInvalidInput = errors.New("invalid input image")

// Params are the HOG parameters
type Params struct {
	Window  int     `def:"14" min:"2" desc:"size of the square window (= cell = block), in pixels"`
	Stride  int     `def:"7" min:"1" desc:"step between windows in both dimensions"`
	Orients int     `def:"9" min:"1" desc:"number of unsigned orientation bins over [0, 180) degrees"`
	Clip    float32 `def:"0.2" desc:"L2-Hys clipping value applied after the first normalization"`
	Eps     float32 `def:"1e-5" desc:"L2 normalization regularizer"`
}

func (hp *Params) Defaults() {
	hp.Window = 14
	hp.Stride = 7
	hp.Orients = 9
	hp.Clip = 0.2
	hp.Eps = 1e-5
}

// NewParams returns default Params
func NewParams() *Params {
	hp := &Params{}
	hp.Defaults()
	return hp
}

// NWindows returns the number of windows along a dimension of size n
func (hp *Params) NWindows(n int) int {
	if n < hp.Window {
		return 0
	}
	return (n-hp.Window)/hp.Stride + 1
}

// DescLen returns the length of the descriptor for an image of given size
func (hp *Params) DescLen(rows, cols int) int {
	return hp.NWindows(rows) * hp.NWindows(cols) * hp.Orients
}

// Check returns an ErrInvalidInput error unless rows x cols can hold a window
func (hp *Params) Check(rows, cols int) error {
	if rows < hp.Window || cols < hp.Window {
		return fmt.Errorf("%w: %dx%d image is smaller than the %dx%d window", ErrInvalidInput, rows, cols, hp.Window, hp.Window)
	}
	return nil
}

// Extract computes the HOG descriptor of a 2D [rows, cols] image, with
// window descriptors concatenated in row-major window order, along with an
// image-sized visualization of the oriented gradients.
func Extract(img *etensor.Float32) ([]float32, *etensor.Float32, error) {
	return NewParams().Extract(img)
}

// Extract computes the HOG descriptor of a 2D [rows, cols] image, with
// window descriptors concatenated in row-major window order, along with an
// image-sized visualization of the oriented gradients.
func (hp *Params) Extract(img *etensor.Float32) ([]float32, *etensor.Float32, error) {
	if img == nil || img.NumDims() != 2 {
		return nil, nil, fmt.Errorf("%w: image must be a 2D tensor", ErrInvalidInput)
	}
	rows, cols := img.Dim(0), img.Dim(1)
	if err := hp.Check(rows, cols); err != nil {
		return nil, nil, err
	}
	desc := make([]float32, 0, hp.DescLen(rows, cols))
	viz := etensor.NewFloat32([]int{rows, cols}, nil, []string{"Y", "X"})
	win := make([]float32, hp.Window*hp.Window)
	hist := make([]float32, hp.Orients)
	nwy, nwx := hp.NWindows(rows), hp.NWindows(cols)
	for wy := 0; wy < nwy; wy++ {
		for wx := 0; wx < nwx; wx++ {
			oy, ox := wy*hp.Stride, wx*hp.Stride
			for y := 0; y < hp.Window; y++ {
				copy(win[y*hp.Window:(y+1)*hp.Window], img.Values[(oy+y)*cols+ox:(oy+y)*cols+ox+hp.Window])
			}
			hp.Histogram(win, hist)
			hp.Glyph(hist, viz, oy, ox)
			desc = append(desc, hp.Normalize(hist)...)
		}
	}
	return desc, viz, nil
}

// Histogram computes the orientation histogram of a Window x Window patch
// into hist: the gradient magnitude of each pixel is added to the bin of its
// unsigned orientation, and the sums are averaged over the patch.
// Gradients are central differences, zero along the patch borders.
func (hp *Params) Histogram(win []float32, hist []float32) {
	for i := range hist {
		hist[i] = 0
	}
	sz := hp.Window
	bw := 180 / float32(hp.Orients)
	for y := 0; y < sz; y++ {
		for x := 0; x < sz; x++ {
			var gr, gc float32
			if y > 0 && y < sz-1 {
				gr = win[(y+1)*sz+x] - win[(y-1)*sz+x]
			}
			if x > 0 && x < sz-1 {
				gc = win[y*sz+x+1] - win[y*sz+x-1]
			}
			mag := mat32.Sqrt(gr*gr + gc*gc)
			if mag == 0 {
				continue
			}
			ori := mat32.RadToDeg(mat32.Atan2(gr, gc))
			if ori < 0 {
				ori += 180
			}
			if ori >= 180 {
				ori -= 180
			}
			bin := int(ori / bw)
			if bin >= hp.Orients {
				bin = hp.Orients - 1
			}
			hist[bin] += mag
		}
	}
	n := float32(sz * sz)
	for i := range hist {
		hist[i] /= n
	}
}

// Normalize returns the L2-Hys normalization of the block values:
// L2 normalize, clip at Clip, and L2 normalize again.
func (hp *Params) Normalize(block []float32) []float32 {
	out := make([]float32, len(block))
	copy(out, block)
	norm.DivNorm32(out, hp.l2)
	norm.Thresh32(out, true, hp.Clip, false, 0)
	norm.DivNorm32(out, hp.l2)
	return out
}

// l2 is the regularized L2 norm, sqrt(sum v^2 + Eps^2)
func (hp *Params) l2(vals []float32) float32 {
	ss := norm.SumSquares32(vals)
	if len(vals) == 1 { // SumSquares32 returns the abs value of a single value
		ss *= ss
	}
	return mat32.Sqrt(ss + hp.Eps*hp.Eps)
}
