// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package features

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/emer/etable/etensor"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = 1.0e-5

// ringImage returns a 28x28 image with a bright ring, like a zero, of given radius
func ringImage(rad float64) *etensor.Float32 {
	img := etensor.NewFloat32([]int{28, 28}, nil, nil)
	for y := 0; y < 28; y++ {
		for x := 0; x < 28; x++ {
			d := math.Hypot(float64(y)-13.5, float64(x)-13.5)
			if math.Abs(d-rad) < 2 {
				img.Values[y*28+x] = 1
			}
		}
	}
	return img
}

// edgeImage returns a size x size image that is 0 before and 1 from the
// middle, across columns (vertical edge) or rows.
func edgeImage(size int, vert bool) *etensor.Float32 {
	img := etensor.NewFloat32([]int{size, size}, nil, nil)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p := y
			if vert {
				p = x
			}
			if p >= size/2 {
				img.Values[y*size+x] = 1
			}
		}
	}
	return img
}

func TestExtractDeterministic(t *testing.T) {
	img := ringImage(9)
	d1, v1, err := Extract(img)
	if err != nil {
		t.Fatal(err)
	}
	d2, v2, err := Extract(img)
	if err != nil {
		t.Fatal(err)
	}
	if len(d1) != 81 {
		t.Fatalf("descriptor length: got %d, want 81", len(d1))
	}
	for i := range d1 {
		if d1[i] != d2[i] {
			t.Errorf("descriptor %d differs: %v vs %v", i, d1[i], d2[i])
		}
		if d1[i] < 0 || d1[i] > 1 {
			t.Errorf("descriptor %d out of [0, 1]: %v", i, d1[i])
		}
	}
	if v1.Dim(0) != 28 || v1.Dim(1) != 28 {
		t.Errorf("visualization shape: got %v", v1.Shapes())
	}
	for i := range v1.Values {
		if v1.Values[i] != v2.Values[i] {
			t.Fatalf("visualization %d differs", i)
		}
	}
}

func TestHistogramEdges(t *testing.T) {
	hp := NewParams()
	hist := make([]float32, 9)
	cases := []struct {
		vert bool
		bin  int
	}{{true, 0}, {false, 4}}
	for _, c := range cases {
		hp.Histogram(edgeImage(14, c.vert).Values, hist)
		for i, v := range hist {
			want := float32(0)
			if i == c.bin {
				want = 28.0 / 196.0
			}
			if math.Abs(float64(v-want)) > difTol {
				t.Errorf("vert %v bin %d: got %v, want %v", c.vert, i, v, want)
			}
		}
		desc := hp.Normalize(hist)
		if math.Abs(float64(desc[c.bin]-1)) > 1e-4 {
			t.Errorf("vert %v: normalized bin %d: got %v, want 1", c.vert, c.bin, desc[c.bin])
		}
	}
}

func TestNormalize(t *testing.T) {
	hp := NewParams()
	desc := hp.Normalize([]float32{3, 1, 0, 0, 0, 0, 0, 0, 0})
	want := float32(1 / math.Sqrt2)
	if math.Abs(float64(desc[0]-want)) > difTol || math.Abs(float64(desc[1]-want)) > difTol {
		t.Errorf("clipped values: got %v, %v, want %v", desc[0], desc[1], want)
	}
	zero := hp.Normalize(make([]float32, 9))
	for i, v := range zero {
		if v != 0 {
			t.Errorf("zero block %d: got %v", i, v)
		}
	}
	if one := hp.Normalize([]float32{2}); math.Abs(float64(one[0]-1)) > difTol {
		t.Errorf("single value: got %v, want 1", one[0])
	}
}

func TestMask(t *testing.T) {
	row := []float32{0, 1, 0.5, 0.4999, 1, 0}
	want := []bool{false, true, true, false, true, false}
	mask := Mask(row)
	for i := range want {
		if mask[i] != want[i] {
			t.Errorf("value %v: got %v, want %v", row[i], mask[i], want[i])
		}
	}
	if row[2] != 0.5 {
		t.Errorf("Mask modified its input")
	}
}

func TestBinValues(t *testing.T) {
	cases := []struct {
		v   float32
		bin int
	}{
		{0, 0}, {0.2499, 0}, {0.25, 1}, {0.4999, 1}, {0.5, 2}, {0.7499, 2},
		{0.75, 3}, {1, 3}, {1.5, 3}, {-0.1, 0},
	}
	desc := make([]float32, len(cases))
	for i, c := range cases {
		desc[i] = c.v
	}
	out := BinValues(desc)
	if len(out) != 4*len(desc) {
		t.Fatalf("binned length: got %d, want %d", len(out), 4*len(desc))
	}
	for i, c := range cases {
		n := 0
		for b := 0; b < 4; b++ {
			if out[i*4+b] {
				n++
			}
		}
		if n != 1 || !out[i*4+c.bin] {
			t.Errorf("value %v: got %v, want bin %d", c.v, out[i*4:i*4+4], c.bin)
		}
	}
	if len(BinValues(nil)) != 0 {
		t.Errorf("empty descriptor gave non-empty bins")
	}
}

func TestExtractInvalid(t *testing.T) {
	bad := []*etensor.Float32{
		nil,
		etensor.NewFloat32([]int{13, 28}, nil, nil),
		etensor.NewFloat32([]int{28, 13}, nil, nil),
		etensor.NewFloat32([]int{784}, nil, nil),
		etensor.NewFloat32([]int{1, 28, 28}, nil, nil),
	}
	for i, img := range bad {
		if _, _, err := Extract(img); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("case %d: got %v, want ErrInvalidInput", i, err)
		}
	}
	desc, _, err := Extract(etensor.NewFloat32([]int{14, 14}, nil, nil))
	if err != nil || len(desc) != 9 {
		t.Errorf("14x14: got %d values, %v, want 9", len(desc), err)
	}
	desc, _, err = Extract(etensor.NewFloat32([]int{21, 35}, nil, nil))
	if err != nil || len(desc) != 2*4*9 {
		t.Errorf("21x35: got %d values, %v, want 72", len(desc), err)
	}
}

func TestProcessDataset(t *testing.T) {
	n := 7
	imgs := etensor.NewFloat32([]int{n, 28, 28}, nil, nil)
	for i := 0; i < n; i++ {
		var img *etensor.Float32
		switch i % 3 {
		case 0:
			img = ringImage(float64(5 + i))
		case 1:
			img = edgeImage(28, true)
		default:
			img = edgeImage(28, false)
		}
		copy(imgs.Values[i*784:(i+1)*784], img.Values)
	}
	out, err := ProcessDataset(imgs)
	if err != nil {
		t.Fatal(err)
	}
	if out.Dim(0) != n || out.Dim(1) != 324 {
		t.Fatalf("dataset shape: got %v, want [%d 324]", out.Shapes(), n)
	}
	for i := 0; i < n; i++ {
		img := etensor.NewFloat32([]int{28, 28}, nil, nil)
		copy(img.Values, imgs.Values[i*784:(i+1)*784])
		desc, _, _ := Extract(img)
		want := BinValues(desc)
		mask := RowMask(out, i)
		ones := 0
		for j := range want {
			if mask[j] != want[j] {
				t.Errorf("image %d feature %d: got %v, want %v", i, j, mask[j], want[j])
				break
			}
			if mask[j] {
				ones++
			}
		}
		if ones != 81 {
			t.Errorf("image %d: %d features on, want 81", i, ones)
		}
	}

	if dt := DatasetTable("Train", out); dt.Rows != n || dt.CellFloat("Index", n-1) != float64(n-1) {
		t.Errorf("dataset table: %d rows", dt.Rows)
	}

	for _, shp := range [][]int{{28, 28}, {2, 10, 28}} {
		if _, err := ProcessDataset(etensor.NewFloat32(shp, nil, nil)); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("shape %v: got %v, want ErrInvalidInput", shp, err)
		}
	}
}

func TestLine(t *testing.T) {
	var pts [][2]int
	add := func(r, c int) { pts = append(pts, [2]int{r, c}) }
	line(0, 0, 3, 3, add)
	if len(pts) != 4 || pts[3] != [2]int{3, 3} || pts[1] != [2]int{1, 1} {
		t.Errorf("diagonal: got %v", pts)
	}
	pts = nil
	line(2, 5, 2, 1, add)
	if len(pts) != 5 || pts[0] != [2]int{2, 5} || pts[4] != [2]int{2, 1} {
		t.Errorf("horizontal: got %v", pts)
	}
	pts = nil
	line(1, 4, 7, 5, add)
	if len(pts) != 7 || pts[0] != [2]int{1, 4} || pts[6] != [2]int{7, 5} {
		t.Errorf("steep: got %v", pts)
	}
}

func TestViz(t *testing.T) {
	_, viz, err := Extract(edgeImage(28, true))
	if err != nil {
		t.Fatal(err)
	}
	img := VizImage(viz)
	if img.Bounds().Dx() != 28 || img.Bounds().Dy() != 28 {
		t.Fatalf("image size: got %v", img.Bounds())
	}
	var mx uint8
	for _, v := range img.Pix {
		if v > mx {
			mx = v
		}
	}
	if mx < 254 { // truncated
		t.Errorf("max intensity: got %d, want 255", mx)
	}
	_, viz, _ = Extract(etensor.NewFloat32([]int{28, 28}, nil, nil))
	for _, v := range VizImage(viz).Pix {
		if v != 0 {
			t.Fatalf("blank image has non-zero visualization")
		}
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 56, 56))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	src.SetGray(0, 0, color.Gray{Y: 255})
	tsr := FromImage(src, image.Point{28, 28})
	if tsr.NumDims() != 2 || tsr.Dim(0) != 28 || tsr.Dim(1) != 28 {
		t.Fatalf("shape: got %v, want [28 28]", tsr.Shapes())
	}
	var sum float32
	for _, v := range tsr.Values {
		sum += v
	}
	if sum/784 < 0.5 {
		t.Errorf("white image mean: got %v", sum/784)
	}
}
